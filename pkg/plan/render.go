package plan

import (
	"github.com/arthur-debert/repath/pkg/errors"
)

// Output formats understood by NewRenderer.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXML  = "xml"
)

// Options tune how a plan is rendered. Color and ShowDropped only
// affect the text format; the structured formats always carry every
// entry.
type Options struct {
	Color       bool
	ShowDropped bool
}

// Renderer turns a plan into output for one format.
type Renderer interface {
	Render(p *Plan) (string, error)
}

// NewRenderer returns the renderer for the requested format.
func NewRenderer(format string, opts Options) (Renderer, error) {
	switch format {
	case FormatText:
		return &textRenderer{opts: opts}, nil
	case FormatJSON:
		return &jsonRenderer{}, nil
	case FormatYAML:
		return &yamlRenderer{}, nil
	case FormatXML:
		return &xmlRenderer{}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput,
			"unknown output format %q (want %s, %s, %s or %s)",
			format, FormatText, FormatJSON, FormatYAML, FormatXML)
	}
}

// entryView is the serialized shape of an Entry shared by the
// structured formats.
type entryView struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	Status string `json:"status" yaml:"status"`
}

// planView is the serialized shape of a Plan.
type planView struct {
	Entries []entryView `json:"entries" yaml:"entries"`
	Summary Summary     `json:"summary" yaml:"summary"`
}

func viewOf(p *Plan) planView {
	view := planView{
		Entries: make([]entryView, 0, len(p.Entries)),
		Summary: p.Summary,
	}
	for _, entry := range p.Entries {
		ev := entryView{
			Source: entry.Source.String(),
			Status: string(entry.Status),
		}
		if entry.Status != StatusDrop {
			ev.Target = entry.Target.String()
		}
		view.Entries = append(view.Entries, ev)
	}
	return view
}
