// Package packager turns a staged application into a distributable bundle.
//
// The build pipeline only knows the Packager interface. EAPBuilder is the
// built-in implementation producing a gzip compressed tar archive (.eap).
package packager

import (
	"context"

	"github.com/arthur-debert/cargo-acap/pkg/types"
)

// Inputs is everything needed to package one application. Optional
// directories are empty when absent.
type Inputs struct {
	// StagingDir is where the application tree is assembled. It does not
	// exist yet when Pack is called.
	StagingDir   string
	Architecture types.Architecture
	AppName      string

	Manifest   string
	Executable string
	License    string

	AdditionalFiles string
	Lib             string
	HTML            string

	// SDKLocation overrides where the native SDK lives, if set.
	SDKLocation string
}

// Packager builds a bundle and returns its path.
type Packager interface {
	Pack(ctx context.Context, in Inputs) (string, error)
}
