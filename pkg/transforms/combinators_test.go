package transforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/repath/pkg/pathname"
)

func TestAttemptFirstAcceptanceWins(t *testing.T) {
	attempt := Attempt(
		Move("a.txt", "first/a.txt"),
		Move("a.txt", "second/a.txt"),
		Keep,
	)

	got, ok := applyTo(attempt, "a.txt")
	require.True(t, ok)
	assert.Equal(t, "first/a.txt", got)
}

func TestAttemptFallsThroughRejections(t *testing.T) {
	attempt := Attempt(
		Move("x", "never"),
		Rename("old.txt", "new.txt"),
		MoveDir("raw", "sorted"),
	)

	tests := []struct {
		name     string
		path     string
		expected string
		accepted bool
	}{
		{name: "second rule fires", path: "dir/old.txt", expected: "dir/new.txt", accepted: true},
		{name: "third rule fires", path: "raw/a.txt", expected: "sorted/a.txt", accepted: true},
		{name: "all reject", path: "untouched.bin", accepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := applyTo(attempt, tt.path)
			assert.Equal(t, tt.accepted, ok)
			if tt.accepted {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestAttemptAppliesToOriginalInput(t *testing.T) {
	// Every alternative sees the original path, not the output of an
	// earlier alternative.
	attempt := Attempt(
		Move("a", "b"),
		Move("b", "never"),
	)

	got, ok := applyTo(attempt, "a")
	require.True(t, ok)
	assert.Equal(t, "b", got)

	got, ok = applyTo(attempt, "b")
	require.True(t, ok)
	assert.Equal(t, "never", got)
}

func TestAttemptEmpty(t *testing.T) {
	_, ok := applyTo(Attempt(), "anything")
	assert.False(t, ok)
}

func TestOptionallyNeverRejects(t *testing.T) {
	opt := Optionally(Move("a.txt", "moved/a.txt"))

	got, ok := applyTo(opt, "a.txt")
	require.True(t, ok)
	assert.Equal(t, "moved/a.txt", got)

	got, ok = applyTo(opt, "b.txt")
	require.True(t, ok)
	assert.Equal(t, "b.txt", got)
}

func TestDoPipeline(t *testing.T) {
	pipeline := Do(
		MoveDir("raw", "sorted"),
		Rename("a.txt", "b.txt"),
	)

	got, ok := applyTo(pipeline, "raw/2023/a.txt")
	require.True(t, ok)
	assert.Equal(t, "sorted/2023/b.txt", got)
}

func TestDoShortCircuitsOnRejection(t *testing.T) {
	calls := 0
	counting := Func(func(p pathname.Path) (pathname.Path, bool) {
		calls++
		return p, true
	})

	pipeline := Do(
		Move("only/this", "matched"),
		counting,
	)

	_, ok := applyTo(pipeline, "something/else")
	assert.False(t, ok)
	assert.Equal(t, 0, calls, "steps after a rejection must not run")

	got, ok := applyTo(pipeline, "only/this")
	require.True(t, ok)
	assert.Equal(t, "matched", got)
	assert.Equal(t, 1, calls)
}

func TestDoRejectsWhenFinalStepRejects(t *testing.T) {
	pipeline := Do(
		Optionally(MoveDir("raw", "sorted")),
		Move("never/matches", "x"),
	)

	_, ok := applyTo(pipeline, "raw/a.txt")
	assert.False(t, ok)
}

func TestDoSingleEqualsRule(t *testing.T) {
	rule := Rename("a", "b")
	wrapped := Do(rule)

	for _, path := range []string{"dir/a", "a", "dir/c", ""} {
		wantPath, wantOK := applyTo(rule, path)
		gotPath, gotOK := applyTo(wrapped, path)
		assert.Equal(t, wantOK, gotOK, "path %q", path)
		assert.Equal(t, wantPath, gotPath, "path %q", path)
	}
}

func TestDoEmptyAcceptsUnchanged(t *testing.T) {
	got, ok := applyTo(Do(), "a/b/c")
	require.True(t, ok)
	assert.Equal(t, "a/b/c", got)
}

func TestCombinatorsNest(t *testing.T) {
	tr, err := ReRename(`(\d+)-(.*)`, "{2}")
	if err != nil {
		t.Fatal(err)
	}

	policy := Attempt(
		Do(
			MoveDir("inbox", "library"),
			Optionally(tr),
		),
		Keep,
	)

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "both steps fire", path: "inbox/01-intro.pdf", expected: "library/intro.pdf"},
		{name: "inner optional falls back", path: "inbox/readme.md", expected: "library/readme.md"},
		{name: "outer attempt falls back to keep", path: "other/readme.md", expected: "other/readme.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := applyTo(policy, tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
