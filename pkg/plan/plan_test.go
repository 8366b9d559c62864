package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/repath/pkg/pathname"
	"github.com/arthur-debert/repath/pkg/transforms"
)

func paths(ss ...string) []pathname.Path {
	out := make([]pathname.Path, len(ss))
	for i, s := range ss {
		out[i] = pathname.Parse(s)
	}
	return out
}

// samplePolicy relocates inbox files, keeps markdown, drops the rest.
func samplePolicy(t *testing.T) transforms.Transform {
	t.Helper()
	md, err := transforms.Glob("**/*.md")
	require.NoError(t, err)
	return transforms.Attempt(
		transforms.MoveDir("inbox", "library"),
		md,
	)
}

func TestBuildDispositions(t *testing.T) {
	p := Build(samplePolicy(t), paths(
		"inbox/01.pdf",
		"notes/todo.md",
		"tmp/cache.bin",
	))

	require.Len(t, p.Entries, 3)

	assert.Equal(t, StatusRelocate, p.Entries[0].Status)
	assert.Equal(t, "inbox/01.pdf", p.Entries[0].Source.String())
	assert.Equal(t, "library/01.pdf", p.Entries[0].Target.String())

	assert.Equal(t, StatusKeep, p.Entries[1].Status)
	assert.Equal(t, "notes/todo.md", p.Entries[1].Target.String())

	assert.Equal(t, StatusDrop, p.Entries[2].Status)
	assert.True(t, p.Entries[2].Target.IsEmpty())
}

func TestBuildKeepsInputOrder(t *testing.T) {
	p := Build(samplePolicy(t), paths(
		"tmp/a.bin",
		"inbox/b.pdf",
		"tmp/c.bin",
		"notes/d.md",
	))

	var sources []string
	for _, entry := range p.Entries {
		sources = append(sources, entry.Source.String())
	}
	assert.Equal(t, []string{"tmp/a.bin", "inbox/b.pdf", "tmp/c.bin", "notes/d.md"}, sources)
}

func TestBuildSummary(t *testing.T) {
	p := Build(samplePolicy(t), paths(
		"inbox/01.pdf",
		"inbox/02.pdf",
		"notes/todo.md",
		"tmp/cache.bin",
	))

	assert.Equal(t, Summary{Total: 4, Relocated: 2, Kept: 1, Dropped: 1}, p.Summary)
}

func TestBuildEmptySources(t *testing.T) {
	p := Build(samplePolicy(t), nil)

	assert.Empty(t, p.Entries)
	assert.Equal(t, Summary{}, p.Summary)
}

func TestBuildRelocateToSamePathCountsAsKeep(t *testing.T) {
	// A transform may accept a path with an identical replacement; the
	// plan reports that as keep, not relocate.
	identity := transforms.Move("a/b.txt", "a/b.txt")

	p := Build(identity, paths("a/b.txt"))

	require.Len(t, p.Entries, 1)
	assert.Equal(t, StatusKeep, p.Entries[0].Status)
}

func TestItemTracksSourceAndCurrent(t *testing.T) {
	item := NewItem(pathname.Parse("a/b.txt"))
	assert.Equal(t, "a/b.txt", item.Path().String())
	assert.Equal(t, "a/b.txt", item.Source().String())

	item.SetPath(pathname.Parse("c/d.txt"))
	assert.Equal(t, "c/d.txt", item.Path().String())
	assert.Equal(t, "a/b.txt", item.Source().String(), "source must not change")
}
