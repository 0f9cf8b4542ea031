package acap

import (
	"github.com/arthur-debert/cargo-acap/pkg/cargo"
	"github.com/arthur-debert/cargo-acap/pkg/types"
)

// ArtifactKind distinguishes packaged applications from plain executables.
type ArtifactKind string

const (
	// KindBundle is a packaged application (.eap)
	KindBundle ArtifactKind = "eap"
	// KindExecutable is an executable left as built
	KindExecutable ArtifactKind = "exe"
)

// Artifact is one result of a pipeline run.
type Artifact struct {
	Kind ArtifactKind `json:"kind" yaml:"kind"`
	Path string       `json:"path" yaml:"path"`
	// Name is the build target name, set for bundles only.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// NewBundle creates an artifact for a packaged application.
func NewBundle(path, name string) Artifact {
	return Artifact{Kind: KindBundle, Path: path, Name: name}
}

// NewExecutable creates an artifact for an executable left untouched.
func NewExecutable(path string) Artifact {
	return Artifact{Kind: KindExecutable, Path: path}
}

// IsBundle reports whether the artifact is a packaged application.
func (a Artifact) IsBundle() bool {
	return a.Kind == KindBundle
}

// Report is the outcome of one pipeline run.
type Report struct {
	Architecture types.Architecture `json:"architecture" yaml:"architecture"`
	RunID        string             `json:"run_id" yaml:"run_id"`
	Artifacts    []Artifact         `json:"artifacts" yaml:"artifacts"`
	Diagnostics  []cargo.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}
