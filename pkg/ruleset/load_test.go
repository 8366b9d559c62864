package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/repath/pkg/errors"
)

const sampleTOML = `
combine = "attempt"

[[rules]]
kind = "move-dir"
from = "inbox"
to = "library"

[[rules]]
kind = "all"

  [[rules.rules]]
  kind = "glob"
  pattern = "**/*.pdf"

  [[rules.rules]]
  kind = "regex-rename"
  pattern = '(\d+) - (.*)'
  template = "{2}"
`

const sampleYAML = `
combine: all
rules:
  - kind: rename
    from: a.txt
    to: b.txt
  - kind: optionally
    rules:
      - kind: move-dir
        from: raw
        to: sorted
`

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "repath.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0644))

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, CombineAttempt, f.Combine)
	require.Len(t, f.Rules, 2)
	assert.Equal(t, KindMoveDir, f.Rules[0].Kind)
	assert.Equal(t, "inbox", f.Rules[0].From)
	assert.Equal(t, KindAll, f.Rules[1].Kind)
	require.Len(t, f.Rules[1].Rules, 2)
	assert.Equal(t, "**/*.pdf", f.Rules[1].Rules[0].Pattern)
	assert.Equal(t, "{2}", f.Rules[1].Rules[1].Template)

	// The loaded file must compile.
	_, err = Compile(*f)
	assert.NoError(t, err)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, CombineAll, f.Combine)
	require.Len(t, f.Rules, 2)
	assert.Equal(t, KindRename, f.Rules[0].Kind)
	require.Len(t, f.Rules[1].Rules, 1)
	assert.Equal(t, "sorted", f.Rules[1].Rules[0].To)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigNotFound))
}

func TestLoadUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.ini")
	require.NoError(t, os.WriteFile(path, []byte("combine=attempt"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoadMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[rules\nkind="), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typo.toml")
	content := `
combina = "attempt"

[[rules]]
kind = "keep"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	assert.Contains(t, err.Error(), "invalid rules file structure")
}

func TestEnvOverridesCombine(t *testing.T) {
	t.Setenv("REPATH_COMBINE", CombineAll)

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.toml")
	content := `
combine = "attempt"

[[rules]]
kind = "keep"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CombineAll, f.Combine)
}

func TestDefaultsApplyWithoutCombine(t *testing.T) {
	f, err := Parse([]byte("[[rules]]\nkind = \"keep\"\n"), "toml")
	require.NoError(t, err)
	assert.Equal(t, CombineAttempt, f.Combine)
}

func TestParseFormats(t *testing.T) {
	t.Run("toml", func(t *testing.T) {
		f, err := Parse([]byte(sampleTOML), "toml")
		require.NoError(t, err)
		assert.Len(t, f.Rules, 2)
	})

	t.Run("yaml", func(t *testing.T) {
		f, err := Parse([]byte(sampleYAML), "yaml")
		require.NoError(t, err)
		assert.Len(t, f.Rules, 2)
	})

	t.Run("yml alias", func(t *testing.T) {
		f, err := Parse([]byte(sampleYAML), "yml")
		require.NoError(t, err)
		assert.Len(t, f.Rules, 2)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Parse([]byte(""), "json")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})
}

func TestLoadFrom(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/.repath.toml", []byte(sampleTOML), 0644))

	f, err := LoadFrom(fs, "/work/.repath.toml")
	require.NoError(t, err)
	assert.Len(t, f.Rules, 2)

	_, err = LoadFrom(fs, "/work/missing.toml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigNotFound))
}

func TestLocate(t *testing.T) {
	t.Run("prefers dotfile in working directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/work/.repath.toml", []byte(""), 0644))
		require.NoError(t, afero.WriteFile(fs, "/work/repath.toml", []byte(""), 0644))

		path, err := Locate(fs, "/work")
		require.NoError(t, err)
		assert.Equal(t, "/work/.repath.toml", path)
	})

	t.Run("falls back through candidate names", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/work/repath.yaml", []byte(""), 0644))

		path, err := Locate(fs, "/work")
		require.NoError(t, err)
		assert.Equal(t, "/work/repath.yaml", path)
	})

	t.Run("nothing found", func(t *testing.T) {
		fs := afero.NewMemMapFs()

		_, err := Locate(fs, "/work")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigNotFound))
	})
}
