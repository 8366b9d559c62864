package transforms

import (
	"github.com/arthur-debert/repath/pkg/pathname"
)

// Attempt tries each transform against the original path in order and
// returns the first acceptance. It rejects only when every transform
// rejects. Later transforms never see the output of earlier ones.
func Attempt(transforms ...Transform) Transform {
	return Func(func(path pathname.Path) (pathname.Path, bool) {
		for _, t := range transforms {
			if result, ok := t.Apply(path); ok {
				return result, true
			}
		}
		return pathname.Path{}, false
	})
}

// Optionally turns a rejection into acceptance of the unchanged path.
// The result never rejects.
func Optionally(t Transform) Transform {
	return Attempt(t, Keep)
}

// Do chains transforms into a pipeline, feeding each one's output to
// the next. A single rejection rejects the whole pipeline regardless of
// how far it got. An empty pipeline accepts the path unchanged.
func Do(transforms ...Transform) Transform {
	return Func(func(path pathname.Path) (pathname.Path, bool) {
		current := path
		for _, t := range transforms {
			next, ok := t.Apply(current)
			if !ok {
				return pathname.Path{}, false
			}
			current = next
		}
		return current, true
	})
}
