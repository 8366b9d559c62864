// Package ruleset loads placement rule files and compiles them into
// transforms. A rules file is a list of rule definitions plus a combine
// mode saying how the top-level rules relate: "attempt" picks the first
// rule that accepts a path, "all" pipes every rule in sequence.
//
// Rule kinds mirror the constructors of the transforms package, except
// for predicates, which are host code and cannot be expressed in
// configuration. Every malformed definition is reported when the file
// is compiled, tagged with the position of the offending rule.
package ruleset

// Combine modes for the top level of a rules file.
const (
	CombineAttempt = "attempt"
	CombineAll     = "all"
)

// Rule kinds accepted in rule definitions.
const (
	KindKeep        = "keep"
	KindGlob        = "glob"
	KindMove        = "move"
	KindMoveDir     = "move-dir"
	KindRename      = "rename"
	KindRegexMove   = "regex-move"
	KindRegexRename = "regex-rename"
	KindAttempt     = "attempt"
	KindAll         = "all"
	KindOptionally  = "optionally"
)

// Definition is a single rule entry in a rules file. Which fields are
// meaningful depends on Kind; combinator kinds nest children under
// Rules.
type Definition struct {
	Kind     string       `koanf:"kind" toml:"kind"`
	Pattern  string       `koanf:"pattern" toml:"pattern,omitempty"`
	From     string       `koanf:"from" toml:"from,omitempty"`
	To       string       `koanf:"to" toml:"to,omitempty"`
	Template string       `koanf:"template" toml:"template,omitempty"`
	Rules    []Definition `koanf:"rules" toml:"rules,omitempty"`
}

// File is a complete rules file.
type File struct {
	Combine string       `koanf:"combine" toml:"combine,omitempty"`
	Rules   []Definition `koanf:"rules" toml:"rules"`
}
