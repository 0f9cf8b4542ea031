package config

import (
	"github.com/arthur-debert/cargo-acap/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

const generatedHeader = "# cargo-acap-build configuration\n# Save as acap.toml in the workspace root.\n\n"

// GenerateConfigContent renders cfg as a project file.
func GenerateConfigContent(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return generatedHeader + string(data), nil
}
