package acap

import (
	"path/filepath"

	"github.com/arthur-debert/cargo-acap/pkg/errors"
	"github.com/spf13/afero"
)

// Companion files looked up for every application
const (
	LicenseFile        = "LICENSE"
	AdditionalFilesDir = "additional-files"
	LibDir             = "lib"
	HTMLDir            = "html"
)

// Resolver finds companion files of one build unit. Each name is looked up
// in the manifest directory and in the optional out dir. There is no
// precedence between the two: finding a name in both is an error.
type Resolver struct {
	fs          afero.Fs
	manifestDir string
	outDir      string
}

// NewResolver creates a Resolver for the given search directories.
// outDir may be empty.
func NewResolver(fs afero.Fs, manifestDir, outDir string) *Resolver {
	return &Resolver{fs: fs, manifestDir: manifestDir, outDir: outDir}
}

// Required returns the single location of name.
func (r *Resolver) Required(name string) (string, error) {
	path, found, err := r.locate(name)
	if err != nil {
		return "", err
	}
	if !found {
		return "", r.detailed(errors.Newf(errors.ErrMissingResource,
			"%q exists neither in manifest dir %q nor in out dir %s", name, r.manifestDir, r.outDirLabel()), name)
	}
	return path, nil
}

// Optional returns the location of name, or "" when it exists in neither
// directory.
func (r *Resolver) Optional(name string) (string, error) {
	path, _, err := r.locate(name)
	return path, err
}

func (r *Resolver) locate(name string) (string, bool, error) {
	manifestFile := filepath.Join(r.manifestDir, name)
	inManifestDir := exists(r.fs, manifestFile)

	var outFile string
	inOutDir := false
	if r.outDir != "" {
		outFile = filepath.Join(r.outDir, name)
		inOutDir = exists(r.fs, outFile)
	}

	switch {
	case inManifestDir && inOutDir:
		return "", false, r.detailed(errors.Newf(errors.ErrAmbiguousResource,
			"%q exists in both %q and %q", name, r.manifestDir, r.outDir), name)
	case inManifestDir:
		return manifestFile, true, nil
	case inOutDir:
		return outFile, true, nil
	default:
		return "", false, nil
	}
}

func (r *Resolver) outDirLabel() string {
	if r.outDir == "" {
		return "(none)"
	}
	return `"` + r.outDir + `"`
}

func (r *Resolver) detailed(err *errors.AcapError, name string) *errors.AcapError {
	return err.
		WithDetail("file", name).
		WithDetail("manifest_dir", r.manifestDir).
		WithDetail("out_dir", r.outDir)
}
