package transforms

import (
	"github.com/arthur-debert/repath/pkg/logging"
	"github.com/arthur-debert/repath/pkg/pathname"
)

// Transformable is implemented by items whose placement path a
// Transform may read and replace.
type Transformable interface {
	// Path returns the item's current placement path.
	Path() pathname.Path

	// SetPath replaces the item's placement path.
	SetPath(path pathname.Path)
}

// Apply runs a transform over a batch of items. Accepted items have
// their path replaced with the transform's result and are returned in
// their original relative order; rejected items are left untouched and
// omitted from the result. The input slice is never modified.
func Apply[T Transformable](t Transform, items []T) []T {
	logger := logging.GetLogger("transforms")

	result := make([]T, 0, len(items))
	for _, item := range items {
		newPath, ok := t.Apply(item.Path())
		if !ok {
			continue
		}
		item.SetPath(newPath)
		result = append(result, item)
	}

	logger.Debug().
		Int("total", len(items)).
		Int("accepted", len(result)).
		Int("rejected", len(items)-len(result)).
		Msg("Applied transform to batch")

	return result
}
