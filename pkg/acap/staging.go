package acap

import (
	"path/filepath"

	"github.com/arthur-debert/cargo-acap/pkg/errors"
	"github.com/arthur-debert/cargo-acap/pkg/packager"
	"github.com/arthur-debert/cargo-acap/pkg/types"
	"github.com/spf13/afero"
)

// StagingRoot is the per architecture scratch directory inside the cargo
// target directory.
func StagingRoot(targetDir string, arch types.Architecture) string {
	return filepath.Join(targetDir, arch.Nickname())
}

// Stage makes sure the staging root exists and returns the
// staging destination for executable, removing what a previous run left
// there. Concurrent runs sharing a target directory are not supported.
func Stage(fs afero.Fs, targetDir string, arch types.Architecture, executable string) (string, error) {
	root := StagingRoot(targetDir, arch)
	if !isDir(fs, root) {
		if err := fs.MkdirAll(root, 0o755); err != nil {
			return "", errors.Wrapf(err, errors.ErrStaging, "creating staging directory %s", root).
				WithDetail("dir", root)
		}
	}

	// filepath.Base never fails; it maps paths without a final file name
	// component to ".", ".." or the separator.
	name := filepath.Base(executable)
	if executable == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", errors.Newf(errors.ErrMalformedOutput, "built executable %q has no file name", executable).
			WithDetail("executable", executable)
	}

	dest := filepath.Join(root, name)
	// The destination is removed below: it must stay inside the staging root.
	if filepath.Dir(dest) != filepath.Clean(root) {
		return "", errors.Newf(errors.ErrMalformedOutput, "built executable %q escapes the staging directory", executable).
			WithDetail("executable", executable).
			WithDetail("dir", root)
	}
	if isDir(fs, dest) {
		if err := fs.RemoveAll(dest); err != nil {
			return "", errors.Wrapf(err, errors.ErrStaging, "removing stale staging directory %s", dest).
				WithDetail("dir", dest)
		}
	}
	return dest, nil
}

// ResolveInputs looks up the companion files of unit and assembles the
// packager inputs. manifest.json and LICENSE are required; the additional
// files, lib and html directories are optional.
func ResolveInputs(fs afero.Fs, unit Unit, stagingDir string, arch types.Architecture) (packager.Inputs, error) {
	if unit.ManifestPath == "" {
		return packager.Inputs{}, errors.Newf(errors.ErrMalformedOutput, "build unit %q has no manifest path", unit.PackageID).
			WithDetail("package_id", unit.PackageID)
	}

	r := NewResolver(fs, filepath.Dir(unit.ManifestPath), unit.OutDir)

	manifest, err := r.Required(ManifestFile)
	if err != nil {
		return packager.Inputs{}, err
	}
	license, err := r.Required(LicenseFile)
	if err != nil {
		return packager.Inputs{}, err
	}

	in := packager.Inputs{
		StagingDir:   stagingDir,
		Architecture: arch,
		AppName:      unit.TargetName,
		Manifest:     manifest,
		Executable:   unit.Executable,
		License:      license,
	}

	optional := []struct {
		name string
		dst  *string
	}{
		{AdditionalFilesDir, &in.AdditionalFiles},
		{LibDir, &in.Lib},
		{HTMLDir, &in.HTML},
	}
	for _, o := range optional {
		path, err := r.Optional(o.name)
		if err != nil {
			return packager.Inputs{}, err
		}
		*o.dst = path
	}

	return in, nil
}
