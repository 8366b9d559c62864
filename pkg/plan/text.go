package plan

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic styles for the text format, adaptive to light and dark
// terminal themes.
var (
	relocateStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "77"})
	keepStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "243"})
	dropStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "203"})
	summaryStyle  = lipgloss.NewStyle().Bold(true)
)

// statusColumnWidth fits the longest status word.
const statusColumnWidth = 8

type textRenderer struct {
	opts Options
}

// Render lays the plan out in three columns: status, source, and for
// relocations the target behind an arrow. Dropped entries appear only
// when ShowDropped is set; the summary always counts them.
func (r *textRenderer) Render(p *Plan) (string, error) {
	var b strings.Builder

	width := 0
	for _, entry := range p.Entries {
		if entry.Status == StatusDrop && !r.opts.ShowDropped {
			continue
		}
		if l := len(entry.Source.String()); l > width {
			width = l
		}
	}

	for _, entry := range p.Entries {
		if entry.Status == StatusDrop && !r.opts.ShowDropped {
			continue
		}
		b.WriteString(r.renderEntry(entry, width))
		b.WriteString("\n")
	}

	if len(p.Entries) > 0 {
		b.WriteString("\n")
	}

	summary := fmt.Sprintf("%d paths: %d relocated, %d kept, %d dropped",
		p.Summary.Total, p.Summary.Relocated, p.Summary.Kept, p.Summary.Dropped)
	if r.opts.Color {
		summary = summaryStyle.Render(summary)
	}
	b.WriteString(summary)
	b.WriteString("\n")

	return b.String(), nil
}

func (r *textRenderer) renderEntry(entry Entry, width int) string {
	status := fmt.Sprintf("%-*s", statusColumnWidth, string(entry.Status))
	if r.opts.Color {
		status = r.styleFor(entry.Status).Render(status)
	}

	if entry.Status == StatusRelocate {
		source := fmt.Sprintf("%-*s", width, entry.Source.String())
		target := entry.Target.String()
		if r.opts.Color {
			target = relocateStyle.Render(target)
		}
		return fmt.Sprintf("%s  %s  ->  %s", status, source, target)
	}

	return fmt.Sprintf("%s  %s", status, entry.Source.String())
}

func (r *textRenderer) styleFor(status Status) lipgloss.Style {
	switch status {
	case StatusRelocate:
		return relocateStyle
	case StatusDrop:
		return dropStyle
	default:
		return keepStyle
	}
}
