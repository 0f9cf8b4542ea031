package acap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cargo-acap/pkg/cargo"
	"github.com/arthur-debert/cargo-acap/pkg/packager"
	"github.com/arthur-debert/cargo-acap/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var nopLogger = zerolog.Nop()

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func mkdir(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(path, 0o755))
}

func artifact(packageID, manifestPath, executable, name string) *cargo.CompilerArtifact {
	a := &cargo.CompilerArtifact{
		PackageID:    packageID,
		ManifestPath: manifestPath,
		Target:       cargo.Target{Name: name, Kind: []string{"bin"}},
	}
	if executable != "" {
		a.Executable = &executable
	}
	return a
}

func buildScript(packageID, outDir string) *cargo.BuildScriptExecuted {
	return &cargo.BuildScriptExecuted{PackageID: packageID, OutDir: outDir}
}

type fakeRunner struct {
	output *cargo.BuildOutput
	err    error

	arch types.Architecture
	args []string
}

func (r *fakeRunner) Build(_ context.Context, arch types.Architecture, args []string) (*cargo.BuildOutput, error) {
	r.arch = arch
	r.args = args
	if r.err != nil {
		return nil, r.err
	}
	return r.output, nil
}

type fakeMetadata struct {
	targetDir string
	err       error
}

func (m *fakeMetadata) TargetDirectory(context.Context) (string, error) {
	return m.targetDir, m.err
}

// recordingPackager returns a fixed .eap path per application.
type recordingPackager struct {
	calls []packager.Inputs
	err   error
}

func (p *recordingPackager) Pack(_ context.Context, in packager.Inputs) (string, error) {
	p.calls = append(p.calls, in)
	if p.err != nil {
		return "", p.err
	}
	return in.StagingDir + ".eap", nil
}

func newTestPipeline(fs afero.Fs, messages ...cargo.Message) (*Pipeline, *fakeRunner, *recordingPackager) {
	runner := &fakeRunner{output: &cargo.BuildOutput{Messages: messages}}
	pack := &recordingPackager{}
	return &Pipeline{
		Runner:   runner,
		Metadata: &fakeMetadata{targetDir: "/ws/target"},
		Packager: pack,
		FS:       fs,
	}, runner, pack
}
