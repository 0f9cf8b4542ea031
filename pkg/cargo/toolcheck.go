package cargo

import (
	"os/exec"

	"github.com/arthur-debert/cargo-acap/pkg/errors"
)

// CheckTool verifies that the cargo executable can be found.
func CheckTool(cargoPath string) error {
	cargoPath = orDefault(cargoPath)
	if _, err := exec.LookPath(cargoPath); err != nil {
		return errors.Wrapf(err, errors.ErrToolNotFound, "%s not found in PATH (required for: Rust compiler and package manager)", cargoPath).
			WithDetail("tool", cargoPath)
	}
	return nil
}
