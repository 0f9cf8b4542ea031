package acap

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ManifestFile marks a build unit as an application.
const ManifestFile = "manifest.json"

// IsApp reports whether the executable built from manifestPath should be
// packaged. The directory of manifestPath is checked first, then outDir
// when it is set.
func IsApp(fs afero.Fs, logger zerolog.Logger, manifestPath, outDir string) bool {
	manifestDir := filepath.Dir(manifestPath)
	if isFile(fs, filepath.Join(manifestDir, ManifestFile)) {
		logger.Debug().Str("dir", manifestDir).Msg("acap manifest found")
		return true
	}

	if outDir != "" && isFile(fs, filepath.Join(outDir, ManifestFile)) {
		logger.Debug().Str("dir", outDir).Msg("acap manifest found")
		return true
	}

	logger.Debug().
		Str("manifest_dir", manifestDir).
		Str("out_dir", outDir).
		Msg("acap manifest found in neither directory")
	return false
}

func isFile(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.IsDir()
}

func exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}
