package config

import (
	"github.com/arthur-debert/cargo-acap/pkg/errors"
	"github.com/arthur-debert/cargo-acap/pkg/types"
)

// Config is the effective configuration of one invocation.
type Config struct {
	Cargo  Cargo  `koanf:"cargo" toml:"cargo"`
	Build  Build  `koanf:"build" toml:"build"`
	SDK    SDK    `koanf:"sdk" toml:"sdk"`
	Output Output `koanf:"output" toml:"output"`
}

// Cargo selects the cargo executable.
type Cargo struct {
	Path string `koanf:"path" toml:"path"`
}

// Build holds what is built and how.
type Build struct {
	Architectures []string `koanf:"architectures" toml:"architectures"`
	Args          []string `koanf:"args" toml:"args"`
}

// SDK points at the native SDK installation.
type SDK struct {
	Location string `koanf:"location" toml:"location"`
}

// Output selects how results are printed.
type Output struct {
	Format string `koanf:"format" toml:"format"`
}

var formats = []string{"auto", "term", "text", "json", "yaml"}

// Architectures returns the configured architectures, "all" expanded.
func (c *Config) Architectures() ([]types.Architecture, error) {
	archs, err := types.ParseArchitectures(c.Build.Architectures)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid build.architectures").
			WithDetail("architectures", c.Build.Architectures)
	}
	if len(archs) == 0 {
		return nil, errors.New(errors.ErrConfigParse, "build.architectures is empty")
	}
	return archs, nil
}

// Validate checks values no later stage would catch before doing work.
func (c *Config) Validate() error {
	if c.Cargo.Path == "" {
		return errors.New(errors.ErrConfigParse, "cargo.path is empty")
	}
	if _, err := c.Architectures(); err != nil {
		return err
	}
	for _, f := range formats {
		if c.Output.Format == f {
			return nil
		}
	}
	return errors.Newf(errors.ErrConfigParse, "invalid output.format %q", c.Output.Format).
		WithDetail("supported", formats)
}
