// Package plan turns a transform plus a list of source paths into a
// placement plan: one decision per path, in input order, saying whether
// the item stays put, moves somewhere else, or falls out of the
// collection. Plans are pure descriptions; nothing here touches files.
package plan

import (
	"github.com/arthur-debert/repath/pkg/logging"
	"github.com/arthur-debert/repath/pkg/pathname"
	"github.com/arthur-debert/repath/pkg/transforms"
)

// Status classifies the decision for one source path.
type Status string

const (
	// StatusRelocate marks an accepted path that changed.
	StatusRelocate Status = "relocate"

	// StatusKeep marks an accepted path that stayed the same.
	StatusKeep Status = "keep"

	// StatusDrop marks a rejected path.
	StatusDrop Status = "drop"
)

// Item is one candidate flowing through a transform. It remembers where
// it started so the plan can show before and after.
type Item struct {
	source  pathname.Path
	current pathname.Path
}

// NewItem builds an item rooted at the given source path.
func NewItem(source pathname.Path) *Item {
	return &Item{source: source, current: source}
}

// Path returns the item's current placement path.
func (i *Item) Path() pathname.Path {
	return i.current
}

// SetPath replaces the item's placement path.
func (i *Item) SetPath(path pathname.Path) {
	i.current = path
}

// Source returns the path the item started from.
func (i *Item) Source() pathname.Path {
	return i.source
}

// Entry is the decision for one source path.
type Entry struct {
	Source pathname.Path
	Target pathname.Path
	Status Status
}

// Summary counts plan entries by status.
type Summary struct {
	Total     int `json:"total" yaml:"total"`
	Relocated int `json:"relocated" yaml:"relocated"`
	Kept      int `json:"kept" yaml:"kept"`
	Dropped   int `json:"dropped" yaml:"dropped"`
}

// Plan is what a transform would do to a set of source paths. Entries
// keep the input order, dropped paths included.
type Plan struct {
	Entries []Entry
	Summary Summary
}

// Build runs the transform over the sources and records every decision.
func Build(t transforms.Transform, sources []pathname.Path) *Plan {
	logger := logging.GetLogger("plan")

	items := make([]*Item, len(sources))
	for i, source := range sources {
		items[i] = NewItem(source)
	}

	accepted := transforms.Apply(t, items)
	kept := make(map[*Item]bool, len(accepted))
	for _, item := range accepted {
		kept[item] = true
	}

	p := &Plan{Entries: make([]Entry, 0, len(items))}
	for _, item := range items {
		entry := Entry{Source: item.Source()}
		switch {
		case !kept[item]:
			entry.Status = StatusDrop
		case item.Path().Equal(item.Source()):
			entry.Status = StatusKeep
			entry.Target = item.Path()
		default:
			entry.Status = StatusRelocate
			entry.Target = item.Path()
		}
		p.Entries = append(p.Entries, entry)
		p.Summary.count(entry.Status)
	}

	logger.Info().
		Int("total", p.Summary.Total).
		Int("relocated", p.Summary.Relocated).
		Int("kept", p.Summary.Kept).
		Int("dropped", p.Summary.Dropped).
		Msg("Plan built")

	return p
}

func (s *Summary) count(status Status) {
	s.Total++
	switch status {
	case StatusRelocate:
		s.Relocated++
	case StatusKeep:
		s.Kept++
	case StatusDrop:
		s.Dropped++
	}
}
