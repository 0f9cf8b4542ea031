package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cargo-acap/pkg/errors"
	"github.com/arthur-debert/cargo-acap/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// ProjectFile is picked up from the working directory when present.
	ProjectFile = "acap.toml"

	envPrefix = "CARGO_ACAP_"
)

// Environment variables honoured without the prefix, and the keys they set.
var legacyEnv = map[string]string{
	"ACAP_SDK_LOCATION": "sdk.location",
	"CARGO":             "cargo.path",
}

// Options controls where configuration is read from.
type Options struct {
	// File is an explicit project file. It must exist.
	File string

	// Dir is searched for ProjectFile when File is empty. Empty means the
	// current directory.
	Dir string

	// Overrides are applied last, keyed like "build.architectures".
	Overrides map[string]interface{}
}

// Load builds the effective configuration.
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Project file
	path, err := projectFile(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug().Str("path", path).Msg("Loading project config")
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("path", path)
		}
	}

	// 3. Environment
	legacy := make(map[string]interface{})
	for name, key := range legacyEnv {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			legacy[key] = v
		}
	}
	if err := k.Load(confmap.Provider(legacy, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}
	err = k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		// CARGO_ACAP_SDK_LOCATION -> sdk.location
		return strings.Replace(strings.ToLower(strings.TrimPrefix(key, envPrefix)), "_", ".", 1), value
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Flags
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func projectFile(opts Options) (string, error) {
	if opts.File != "" {
		info, err := os.Stat(opts.File)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not readable", opts.File).
				WithDetail("path", opts.File)
		}
		if info.IsDir() {
			return "", errors.Newf(errors.ErrConfigLoad, "config file %s is a directory", opts.File).
				WithDetail("path", opts.File)
		}
		return opts.File, nil
	}

	path := filepath.Join(opts.Dir, ProjectFile)
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}
