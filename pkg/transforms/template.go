package transforms

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/repath/pkg/errors"
)

// templatePart is one run of a parsed template: a literal string, or a
// capture-group placeholder when group is non-negative.
type templatePart struct {
	literal string
	group   int
}

// template is a parsed replacement template. Placeholders are written
// {N} where N numbers a capture group of the accompanying pattern and
// {0} is the whole match. "{{" and "}}" produce literal braces.
type template struct {
	source   string
	parts    []templatePart
	maxGroup int
}

// parseTemplate validates and parses a replacement template. All
// malformed templates are rejected here so that expansion never fails.
func parseTemplate(s string) (*template, error) {
	tpl := &template{source: s}
	var lit strings.Builder

	flushLiteral := func() {
		if lit.Len() > 0 {
			tpl.parts = append(tpl.parts, templatePart{literal: lit.String(), group: -1})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch s[i] {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				lit.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return nil, errors.Newf(errors.ErrTemplateInvalid,
					"unterminated placeholder in template %q", s)
			}
			digits := s[i+1 : i+1+end]
			group, err := parseGroupNumber(digits)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrTemplateInvalid,
					"bad placeholder {%s} in template %q", digits, s)
			}
			flushLiteral()
			tpl.parts = append(tpl.parts, templatePart{group: group})
			if group > tpl.maxGroup {
				tpl.maxGroup = group
			}
			i += end + 2
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				lit.WriteByte('}')
				i += 2
				continue
			}
			return nil, errors.Newf(errors.ErrTemplateInvalid,
				"unmatched '}' in template %q", s)
		default:
			lit.WriteByte(s[i])
			i++
		}
	}

	flushLiteral()
	return tpl, nil
}

// parseGroupNumber parses the digits between braces. Only plain decimal
// digits are allowed, no signs or spaces.
func parseGroupNumber(digits string) (int, error) {
	if digits == "" {
		return 0, errors.New(errors.ErrTemplateInvalid, "placeholder is empty")
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, errors.New(errors.ErrTemplateInvalid, "placeholder is not a group number")
		}
	}
	group, err := strconv.Atoi(digits)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrTemplateInvalid, "placeholder is out of range")
	}
	return group, nil
}

// expand substitutes the submatches of a successful pattern match into
// the template. match is laid out as regexp.FindStringSubmatch returns
// it: the whole match first, capture groups after. Groups that did not
// participate in the match substitute the empty string. Group indexes
// are validated against the pattern at construction.
func (t *template) expand(match []string) string {
	var b strings.Builder
	for _, part := range t.parts {
		if part.group < 0 {
			b.WriteString(part.literal)
			continue
		}
		if part.group < len(match) {
			b.WriteString(match[part.group])
		}
	}
	return b.String()
}
