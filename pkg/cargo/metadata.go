package cargo

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/cargo-acap/pkg/errors"
	"github.com/arthur-debert/cargo-acap/pkg/logging"
)

// Metadata is the subset of `cargo metadata` output we rely on.
type Metadata struct {
	TargetDirectory string `json:"target_directory"`
	WorkspaceRoot   string `json:"workspace_root"`
}

// MetadataQuery asks cargo about the workspace being built.
type MetadataQuery struct {
	CargoPath string
	Dir       string
	Env       []string
}

// NewMetadataQuery creates a MetadataQuery for the given cargo executable.
func NewMetadataQuery(cargoPath string) *MetadataQuery {
	return &MetadataQuery{CargoPath: cargoPath}
}

// Load runs `cargo metadata` and decodes its output.
func (q *MetadataQuery) Load(ctx context.Context) (*Metadata, error) {
	cargoPath := orDefault(q.CargoPath)
	args := []string{"metadata", "--format-version", "1", "--no-deps"}
	logging.LogCommand(cargoPath, args)

	cmd := exec.CommandContext(ctx, cargoPath, args...)
	cmd.Dir = q.Dir
	cmd.Env = append(os.Environ(), q.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(err, errors.ErrMetadata, "cargo metadata failed").
			WithDetail("stderr", strings.TrimSpace(stderr.String()))
	}

	var metadata Metadata
	if err := json.Unmarshal(stdout.Bytes(), &metadata); err != nil {
		return nil, errors.Wrap(err, errors.ErrMetadata, "cannot decode cargo metadata")
	}

	return &metadata, nil
}

// TargetDirectory returns the shared target directory of the workspace.
func (q *MetadataQuery) TargetDirectory(ctx context.Context) (string, error) {
	metadata, err := q.Load(ctx)
	if err != nil {
		return "", err
	}
	if metadata.TargetDirectory == "" {
		return "", errors.New(errors.ErrMetadata, "cargo metadata did not report a target directory")
	}
	return metadata.TargetDirectory, nil
}
