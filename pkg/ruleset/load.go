package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"

	"github.com/arthur-debert/repath/pkg/errors"
	"github.com/arthur-debert/repath/pkg/logging"
)

// DefaultNames are the rules file names searched in the working
// directory, in order.
var DefaultNames = []string{".repath.toml", "repath.toml", ".repath.yaml", "repath.yaml"}

// envPrefix namespaces the environment overrides, e.g. REPATH_COMBINE.
const envPrefix = "REPATH_"

// rawBytesProvider implements koanf's provider interface for in-memory data
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("raw bytes provider does not implement Read")
}

// defaults returns the built-in settings every load starts from.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"combine": CombineAttempt,
	}
}

// parserForFormat returns the koanf parser for a rules file format.
func parserForFormat(format string) (koanf.Parser, error) {
	switch strings.ToLower(format) {
	case "toml":
		return toml.Parser(), nil
	case "yaml", "yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigParse, "unsupported rules file format %q (want toml or yaml)", format)
	}
}

// Load reads and decodes a rules file from the operating system,
// choosing the format by extension. Defaults apply first and REPATH_*
// environment variables override the file.
func Load(path string) (*File, error) {
	logger := logging.GetLogger("ruleset")

	parser, err := parserForFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigNotFound, "rules file %s", path)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse rules file %s", path)
	}
	if err := loadEnv(k); err != nil {
		return nil, err
	}

	f, err := unmarshal(k)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("path", path).Int("rules", len(f.Rules)).Msg("Rules file loaded")
	return f, nil
}

// LoadFrom reads a rules file through the given filesystem. The CLI
// routes all file access through afero so command tests can run on an
// in-memory filesystem.
func LoadFrom(fsys afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrConfigNotFound, "rules file %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read rules file %s", path)
	}
	return Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Parse decodes an in-memory rules file. format is "toml" or "yaml".
// The same defaults and environment overrides apply as in Load.
func Parse(data []byte, format string) (*File, error) {
	parser, err := parserForFormat(format)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}
	if err := k.Load(&rawBytesProvider{bytes: data}, parser); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse rules data")
	}
	if err := loadEnv(k); err != nil {
		return nil, err
	}

	return unmarshal(k)
}

// loadEnv merges REPATH_* environment variables over what is loaded so
// far, mapping REPATH_FOO_BAR to the key "foo.bar".
func loadEnv(k *koanf.Koanf) error {
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}
	return nil
}

// unmarshal decodes the merged configuration strictly: keys that do not
// belong to the schema are reported instead of silently ignored.
func unmarshal(k *koanf.Koanf) (*File, error) {
	var f File
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &f,
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &f, conf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid rules file structure")
	}
	return &f, nil
}

// Locate finds the rules file to use: the working-directory names in
// DefaultNames first, then rules.toml and rules.yaml under the user
// config directory.
func Locate(fsys afero.Fs, dir string) (string, error) {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		if ok, _ := afero.Exists(fsys, path); ok {
			return path, nil
		}
	}

	for _, name := range []string{"rules.toml", "rules.yaml"} {
		path := filepath.Join(xdg.ConfigHome, "repath", name)
		if ok, _ := afero.Exists(fsys, path); ok {
			return path, nil
		}
	}

	return "", errors.Newf(errors.ErrConfigNotFound,
		"no rules file found (searched %s in the working directory and rules.toml/rules.yaml under %s)",
		strings.Join(DefaultNames, ", "), filepath.Join(xdg.ConfigHome, "repath"))
}
