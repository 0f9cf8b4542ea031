package acap

import (
	"testing"

	"github.com/arthur-debert/cargo-acap/pkg/errors"
	"github.com/arthur-debert/cargo-acap/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagingRoot(t *testing.T) {
	assert.Equal(t, "/ws/target/aarch64", StagingRoot("/ws/target", types.Aarch64))
	assert.Equal(t, "/ws/target/armv7hf", StagingRoot("/ws/target", types.Armv7hf))
}

func TestStageCreatesRoot(t *testing.T) {
	fs := afero.NewMemMapFs()

	dest, err := Stage(fs, "/ws/target", types.Armv7hf, "/ws/target/thumbv7neon-unknown-linux-gnueabihf/release/app")
	require.NoError(t, err)

	assert.Equal(t, "/ws/target/armv7hf/app", dest)
	assert.True(t, isDir(fs, "/ws/target/armv7hf"))
	assert.False(t, exists(fs, dest), "destination is left for the packager")
}

func TestStageRemovesStaleDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/ws/target/aarch64/app/old/file", "stale")
	writeFile(t, fs, "/ws/target/aarch64/other", "kept")

	dest, err := Stage(fs, "/ws/target", types.Aarch64, "/bin/app")
	require.NoError(t, err)

	assert.Equal(t, "/ws/target/aarch64/app", dest)
	assert.False(t, exists(fs, dest))
	assert.True(t, exists(fs, "/ws/target/aarch64/other"))

	// Staging twice in a row leaves the same state.
	dest, err = Stage(fs, "/ws/target", types.Aarch64, "/bin/app")
	require.NoError(t, err)
	assert.Equal(t, "/ws/target/aarch64/app", dest)
	assert.True(t, isDir(fs, "/ws/target/aarch64"))
}

func TestStageRejectsExecutableWithoutName(t *testing.T) {
	for _, exe := range []string{"", "/", ".", "..", "/a/..", "/ws/target/aarch64/.."} {
		t.Run(exe, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, "/ws/target/debug/keep", "build output")

			dest, err := Stage(fs, "/ws/target", types.Aarch64, exe)
			assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedOutput), "got %v", err)
			assert.Empty(t, dest)
			assert.True(t, exists(fs, "/ws/target/debug/keep"), "target directory must be left alone")
		})
	}
}

func TestStageFailsWhenRootCannotBeCreated(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := Stage(fs, "/ws/target", types.Aarch64, "/bin/app")
	assert.True(t, errors.IsErrorCode(err, errors.ErrStaging), "got %v", err)
}

func TestResolveInputs(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/app/manifest.json", "{}")
	writeFile(t, fs, "/out/LICENSE", "MIT")
	mkdir(t, fs, "/src/app/html")
	mkdir(t, fs, "/out/lib")

	unit := Unit{
		PackageID:    "app 0.1.0",
		ManifestPath: "/src/app/Cargo.toml",
		OutDir:       "/out",
		Executable:   "/bin/app",
		TargetName:   "app",
	}

	in, err := ResolveInputs(fs, unit, "/ws/target/aarch64/app", types.Aarch64)
	require.NoError(t, err)

	assert.Equal(t, "/ws/target/aarch64/app", in.StagingDir)
	assert.Equal(t, types.Aarch64, in.Architecture)
	assert.Equal(t, "app", in.AppName)
	assert.Equal(t, "/bin/app", in.Executable)
	assert.Equal(t, "/src/app/manifest.json", in.Manifest)
	assert.Equal(t, "/out/LICENSE", in.License)
	assert.Equal(t, "/out/lib", in.Lib)
	assert.Equal(t, "/src/app/html", in.HTML)
	assert.Empty(t, in.AdditionalFiles)
}

func TestResolveInputsRequiresLicense(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/app/manifest.json", "{}")

	_, err := ResolveInputs(fs, Unit{ManifestPath: "/src/app/Cargo.toml", Executable: "/bin/app"}, "/stage", types.Aarch64)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingResource))
	assert.Equal(t, LicenseFile, errors.GetErrorDetails(err)["file"])
}
