package ruleset

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/repath/pkg/errors"
	"github.com/arthur-debert/repath/pkg/logging"
	"github.com/arthur-debert/repath/pkg/registry"
	"github.com/arthur-debert/repath/pkg/transforms"
)

// Factory builds a transform from one rule definition. The at argument
// locates the definition inside its file for error messages, e.g.
// "rules[2].rules[0]".
type Factory func(def Definition, at string) (transforms.Transform, error)

// kinds holds the factory for every rule kind a rules file may use.
var kinds = registry.New[Factory]()

func init() {
	registry.MustRegister(kinds, KindKeep, buildKeep)
	registry.MustRegister(kinds, KindGlob, buildGlob)
	registry.MustRegister(kinds, KindMove, buildMove)
	registry.MustRegister(kinds, KindMoveDir, buildMoveDir)
	registry.MustRegister(kinds, KindRename, buildRename)
	registry.MustRegister(kinds, KindRegexMove, buildRegexMove)
	registry.MustRegister(kinds, KindRegexRename, buildRegexRename)
	registry.MustRegister(kinds, KindAttempt, buildAttempt)
	registry.MustRegister(kinds, KindAll, buildAll)
	registry.MustRegister(kinds, KindOptionally, buildOptionally)
}

// Kinds returns the names of all registered rule kinds, sorted.
func Kinds() []string {
	return kinds.List()
}

// Compile turns a rules file into a single transform. The zero combine
// mode defaults to "attempt". All validation happens here: a file that
// compiles cleanly can be applied to any path without failing.
func Compile(f File) (transforms.Transform, error) {
	logger := logging.GetLogger("ruleset")

	combine := f.Combine
	if combine == "" {
		combine = CombineAttempt
	}

	if len(f.Rules) == 0 {
		return nil, errors.New(errors.ErrRuleInvalid, "rules file defines no rules")
	}

	children, err := compileList(f.Rules, "rules")
	if err != nil {
		return nil, err
	}

	var t transforms.Transform
	switch combine {
	case CombineAttempt:
		t = transforms.Attempt(children...)
	case CombineAll:
		t = transforms.Do(children...)
	default:
		return nil, errors.Newf(errors.ErrRuleInvalid,
			"unknown combine mode %q (want %q or %q)", combine, CombineAttempt, CombineAll)
	}

	logger.Debug().
		Int("rules", len(f.Rules)).
		Str("combine", combine).
		Msg("Compiled rules file")

	return t, nil
}

// CompileRule compiles a single definition. The check command uses this
// to report rule-by-rule validity; Compile uses it for whole files.
func CompileRule(def Definition, at string) (transforms.Transform, error) {
	if def.Kind == "" {
		return nil, errors.Newf(errors.ErrRuleInvalid, "%s: missing rule kind", at)
	}
	factory, err := kinds.Get(def.Kind)
	if err != nil {
		return nil, errors.Newf(errors.ErrRuleInvalid,
			"%s: unknown rule kind %q (known kinds: %s)", at, def.Kind, strings.Join(kinds.List(), ", "))
	}
	return factory(def, at)
}

func compileList(defs []Definition, at string) ([]transforms.Transform, error) {
	out := make([]transforms.Transform, 0, len(defs))
	for i, def := range defs {
		t, err := CompileRule(def, fmt.Sprintf("%s[%d]", at, i))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// require rejects definitions missing a field their kind needs.
func require(def Definition, at, field string) error {
	var set bool
	switch field {
	case "pattern":
		set = def.Pattern != ""
	case "from":
		set = def.From != ""
	case "to":
		set = def.To != ""
	case "template":
		set = def.Template != ""
	}
	if !set {
		return errors.Newf(errors.ErrRuleInvalid, "%s: %s rule requires %q", at, def.Kind, field)
	}
	return nil
}

// disallow rejects definitions carrying fields their kind ignores, so
// misplaced fields surface instead of being silently dropped.
func disallow(def Definition, at string, fields ...string) error {
	for _, field := range fields {
		var set bool
		switch field {
		case "pattern":
			set = def.Pattern != ""
		case "from":
			set = def.From != ""
		case "to":
			set = def.To != ""
		case "template":
			set = def.Template != ""
		case "rules":
			set = len(def.Rules) > 0
		}
		if set {
			return errors.Newf(errors.ErrRuleInvalid, "%s: %s rule does not take %q", at, def.Kind, field)
		}
	}
	return nil
}

func buildKeep(def Definition, at string) (transforms.Transform, error) {
	if err := disallow(def, at, "pattern", "from", "to", "template", "rules"); err != nil {
		return nil, err
	}
	return transforms.Keep, nil
}

func buildGlob(def Definition, at string) (transforms.Transform, error) {
	if err := require(def, at, "pattern"); err != nil {
		return nil, err
	}
	if err := disallow(def, at, "from", "to", "template", "rules"); err != nil {
		return nil, err
	}
	t, err := transforms.Glob(def.Pattern)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuleInvalid, "%s: bad glob rule", at)
	}
	return t, nil
}

func buildMove(def Definition, at string) (transforms.Transform, error) {
	if err := require(def, at, "from"); err != nil {
		return nil, err
	}
	if err := require(def, at, "to"); err != nil {
		return nil, err
	}
	if err := disallow(def, at, "pattern", "template", "rules"); err != nil {
		return nil, err
	}
	return transforms.Move(def.From, def.To), nil
}

func buildMoveDir(def Definition, at string) (transforms.Transform, error) {
	if err := require(def, at, "from"); err != nil {
		return nil, err
	}
	if err := require(def, at, "to"); err != nil {
		return nil, err
	}
	if err := disallow(def, at, "pattern", "template", "rules"); err != nil {
		return nil, err
	}
	return transforms.MoveDir(def.From, def.To), nil
}

func buildRename(def Definition, at string) (transforms.Transform, error) {
	if err := require(def, at, "from"); err != nil {
		return nil, err
	}
	if err := require(def, at, "to"); err != nil {
		return nil, err
	}
	if err := disallow(def, at, "pattern", "template", "rules"); err != nil {
		return nil, err
	}
	return transforms.Rename(def.From, def.To), nil
}

func buildRegexMove(def Definition, at string) (transforms.Transform, error) {
	if err := require(def, at, "pattern"); err != nil {
		return nil, err
	}
	if err := require(def, at, "template"); err != nil {
		return nil, err
	}
	if err := disallow(def, at, "from", "to", "rules"); err != nil {
		return nil, err
	}
	t, err := transforms.ReMove(def.Pattern, def.Template)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuleInvalid, "%s: bad regex-move rule", at)
	}
	return t, nil
}

func buildRegexRename(def Definition, at string) (transforms.Transform, error) {
	if err := require(def, at, "pattern"); err != nil {
		return nil, err
	}
	if err := require(def, at, "template"); err != nil {
		return nil, err
	}
	if err := disallow(def, at, "from", "to", "rules"); err != nil {
		return nil, err
	}
	t, err := transforms.ReRename(def.Pattern, def.Template)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuleInvalid, "%s: bad regex-rename rule", at)
	}
	return t, nil
}

func buildAttempt(def Definition, at string) (transforms.Transform, error) {
	if err := disallow(def, at, "pattern", "from", "to", "template"); err != nil {
		return nil, err
	}
	if len(def.Rules) == 0 {
		return nil, errors.Newf(errors.ErrRuleInvalid, "%s: attempt requires child rules", at)
	}
	children, err := compileList(def.Rules, at+".rules")
	if err != nil {
		return nil, err
	}
	return transforms.Attempt(children...), nil
}

func buildAll(def Definition, at string) (transforms.Transform, error) {
	if err := disallow(def, at, "pattern", "from", "to", "template"); err != nil {
		return nil, err
	}
	if len(def.Rules) == 0 {
		return nil, errors.Newf(errors.ErrRuleInvalid, "%s: all requires child rules", at)
	}
	children, err := compileList(def.Rules, at+".rules")
	if err != nil {
		return nil, err
	}
	return transforms.Do(children...), nil
}

func buildOptionally(def Definition, at string) (transforms.Transform, error) {
	if err := disallow(def, at, "pattern", "from", "to", "template"); err != nil {
		return nil, err
	}
	if len(def.Rules) != 1 {
		return nil, errors.Newf(errors.ErrRuleInvalid,
			"%s: optionally takes exactly one child rule (wrap several in %q)", at, KindAll)
	}
	child, err := CompileRule(def.Rules[0], at+".rules[0]")
	if err != nil {
		return nil, err
	}
	return transforms.Optionally(child), nil
}
