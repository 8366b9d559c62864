// Package transforms implements the placement rules of repath.
//
// A Transform inspects the path of a single item and either accepts it,
// possibly with a replacement path, or rejects it. Rejection is an
// ordinary outcome that callers use to filter items out of a batch; it
// is never reported as an error. Transforms are pure: applying one has
// no side effects and the same input always yields the same result.
//
// Misconfigured rules (malformed glob patterns, invalid regular
// expressions, bad replacement templates) surface as errors from the
// constructors, so a rule set that builds successfully can be applied
// to any path without failing.
package transforms

import (
	"github.com/arthur-debert/repath/pkg/pathname"
)

// Transform decides whether and where a single item belongs.
// It returns the replacement path and true to accept the item, or the
// zero path and false to reject it.
type Transform interface {
	Apply(path pathname.Path) (pathname.Path, bool)
}

// Func adapts a plain function to the Transform interface.
type Func func(pathname.Path) (pathname.Path, bool)

// Apply implements Transform.
func (f Func) Apply(path pathname.Path) (pathname.Path, bool) {
	return f(path)
}

// Keep accepts every path unchanged.
var Keep Transform = Func(func(path pathname.Path) (pathname.Path, bool) {
	return path, true
})

// Predicate accepts a path unchanged when pred returns true and rejects
// it otherwise. It never rewrites.
func Predicate(pred func(pathname.Path) bool) Transform {
	return Func(func(path pathname.Path) (pathname.Path, bool) {
		if pred(path) {
			return path, true
		}
		return pathname.Path{}, false
	})
}

// Move accepts exactly the source path and replaces it with target.
// Every other path is rejected.
func Move(source, target string) Transform {
	src := pathname.Parse(source)
	dst := pathname.Parse(target)
	return Func(func(path pathname.Path) (pathname.Path, bool) {
		if path.Equal(src) {
			return dst, true
		}
		return pathname.Path{}, false
	})
}

// MoveDir relocates the contents of sourceDir under targetDir. A path
// matches only when sourceDir is a strict ancestor: the tail below
// sourceDir is reattached under targetDir. sourceDir itself and
// unrelated paths are rejected.
func MoveDir(sourceDir, targetDir string) Transform {
	src := pathname.Parse(sourceDir)
	dst := pathname.Parse(targetDir)
	return Func(func(path pathname.Path) (pathname.Path, bool) {
		if !src.IsAncestorOf(path) {
			return pathname.Path{}, false
		}
		rel, _ := path.RelativeTo(src)
		return dst.Join(rel), true
	})
}

// Rename accepts paths whose final component equals from and replaces
// that component with to, leaving the rest of the path alone. The empty
// path has no final component and is always rejected.
func Rename(from, to string) Transform {
	return Func(func(path pathname.Path) (pathname.Path, bool) {
		if path.IsEmpty() || path.Name() != from {
			return pathname.Path{}, false
		}
		return path.WithName(to), true
	})
}
