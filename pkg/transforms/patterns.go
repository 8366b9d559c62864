package transforms

import (
	"regexp"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/arthur-debert/repath/pkg/errors"
	"github.com/arthur-debert/repath/pkg/pathname"
)

// Glob accepts, unchanged, every path whose textual form matches the
// given glob pattern. Patterns support '*' within a segment, '?' for a
// single character, character classes, brace alternates, and '**'
// spanning any number of segments. The pattern is validated here;
// applying the returned Transform never fails.
func Glob(pattern string) (Transform, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Newf(errors.ErrPatternInvalid, "invalid glob pattern %q", pattern)
	}
	return Func(func(path pathname.Path) (pathname.Path, bool) {
		ok, err := doublestar.Match(pattern, path.String())
		if err != nil || !ok {
			return pathname.Path{}, false
		}
		return path, true
	}), nil
}

// ReMove matches the whole textual form of a path against expr and, on
// a match, builds the replacement path by expanding template with the
// match's capture groups ({0} is the whole match, {1} the first group,
// and so on). The expression is anchored at both ends: partial matches
// do not count. Non-matching paths are rejected.
func ReMove(expr, tmpl string) (Transform, error) {
	re, tpl, err := compileRule(expr, tmpl)
	if err != nil {
		return nil, err
	}
	return Func(func(path pathname.Path) (pathname.Path, bool) {
		match := re.FindStringSubmatch(path.String())
		if match == nil {
			return pathname.Path{}, false
		}
		return pathname.Parse(tpl.expand(match)), true
	}), nil
}

// ReRename is ReMove scoped to the final path component: expr must
// match the whole final component, and the expanded template replaces
// only that component. The empty path has no final component and is
// always rejected.
func ReRename(expr, tmpl string) (Transform, error) {
	re, tpl, err := compileRule(expr, tmpl)
	if err != nil {
		return nil, err
	}
	return Func(func(path pathname.Path) (pathname.Path, bool) {
		if path.IsEmpty() {
			return pathname.Path{}, false
		}
		match := re.FindStringSubmatch(path.Name())
		if match == nil {
			return pathname.Path{}, false
		}
		return path.WithName(tpl.expand(match)), true
	}), nil
}

// compileRule builds the anchored expression and parsed template shared
// by the regex rules, rejecting templates that reference capture groups
// the expression does not have.
func compileRule(expr, tmpl string) (*regexp.Regexp, *template, error) {
	re, err := compileFullMatch(expr)
	if err != nil {
		return nil, nil, err
	}
	tpl, err := parseTemplate(tmpl)
	if err != nil {
		return nil, nil, err
	}
	if tpl.maxGroup > re.NumSubexp() {
		return nil, nil, errors.Newf(errors.ErrTemplateInvalid,
			"template %q references group %d but pattern %q has only %d group(s)",
			tmpl, tpl.maxGroup, expr, re.NumSubexp())
	}
	return re, tpl, nil
}

// compileFullMatch compiles expr so that it must match an entire
// string. The wrapper group is non-capturing, so group numbering in
// expr is preserved.
func compileFullMatch(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`\A(?:` + expr + `)\z`)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPatternInvalid, "invalid regular expression %q", expr)
	}
	return re, nil
}
