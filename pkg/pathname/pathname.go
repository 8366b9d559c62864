// Package pathname provides the immutable path value used throughout repath.
//
// A Path is purely syntactic: an ordered sequence of named segments with no
// filesystem semantics. Paths never touch the disk, never resolve symlinks
// or "..", and carry no notion of existence. They identify items inside a
// synchronized collection, relative to the collection root.
package pathname

import "strings"

// Separator is the segment separator in the textual form of a Path.
const Separator = "/"

// Path is an immutable sequence of path segments.
// The zero value is the empty path, which prints as ".".
type Path struct {
	segs []string
}

// Parse builds a Path from its textual form. It is total: every string
// yields a valid Path. Repeated separators and "." segments collapse,
// and a leading separator is ignored. ".." segments are kept verbatim
// since a Path is syntax, not a filesystem location.
func Parse(s string) Path {
	parts := strings.Split(s, Separator)
	segs := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		segs = append(segs, part)
	}
	if len(segs) == 0 {
		return Path{}
	}
	return Path{segs: segs}
}

// FromSegments builds a Path from explicit segments. Empty and "."
// segments are dropped, mirroring Parse.
func FromSegments(segs ...string) Path {
	return Parse(strings.Join(segs, Separator))
}

// String returns the textual form, segments joined by "/".
// The empty path prints as ".".
func (p Path) String() string {
	if len(p.segs) == 0 {
		return "."
	}
	return strings.Join(p.segs, Separator)
}

// IsEmpty reports whether the path has no segments.
func (p Path) IsEmpty() bool {
	return len(p.segs) == 0
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segs)
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segs))
	copy(out, p.segs)
	return out
}

// Name returns the final segment, or "" for the empty path.
func (p Path) Name() string {
	if len(p.segs) == 0 {
		return ""
	}
	return p.segs[len(p.segs)-1]
}

// Parent returns the path without its final segment.
// The parent of the empty path is the empty path.
func (p Path) Parent() Path {
	if len(p.segs) <= 1 {
		return Path{}
	}
	return Path{segs: p.segs[:len(p.segs)-1]}
}

// WithName returns the path with its final segment replaced by name.
// On the empty path it returns Parse(name). A name containing
// separators introduces additional segments.
func (p Path) WithName(name string) Path {
	return p.Parent().Join(Parse(name))
}

// Join returns the concatenation of p and other.
func (p Path) Join(other Path) Path {
	if other.IsEmpty() {
		return p
	}
	if p.IsEmpty() {
		return other
	}
	segs := make([]string, 0, len(p.segs)+len(other.segs))
	segs = append(segs, p.segs...)
	segs = append(segs, other.segs...)
	return Path{segs: segs}
}

// Equal reports whether both paths have identical segments.
func (p Path) Equal(other Path) bool {
	if len(p.segs) != len(other.segs) {
		return false
	}
	for i, seg := range p.segs {
		if other.segs[i] != seg {
			return false
		}
	}
	return true
}

// IsAncestorOf reports whether p is a strict ancestor of other, i.e. a
// proper segment prefix. No path is its own ancestor. The empty path is
// an ancestor of every non-empty path.
func (p Path) IsAncestorOf(other Path) bool {
	if len(p.segs) >= len(other.segs) {
		return false
	}
	for i, seg := range p.segs {
		if other.segs[i] != seg {
			return false
		}
	}
	return true
}

// RelativeTo returns the tail of p after stripping base, and reports
// whether base is p itself or an ancestor of p. When it reports false
// the returned path is the zero Path.
func (p Path) RelativeTo(base Path) (Path, bool) {
	if len(base.segs) > len(p.segs) {
		return Path{}, false
	}
	for i, seg := range base.segs {
		if p.segs[i] != seg {
			return Path{}, false
		}
	}
	if len(base.segs) == len(p.segs) {
		return Path{}, true
	}
	return Path{segs: p.segs[len(base.segs):]}, true
}
