package cargo

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/arthur-debert/cargo-acap/pkg/errors"
	"github.com/arthur-debert/cargo-acap/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	artifactA = `{"reason":"compiler-artifact","package_id":"a 0.1.0","manifest_path":"/src/a/Cargo.toml","target":{"name":"a"},"executable":"/target/a"}`
	artifactB = `{"reason":"compiler-artifact","package_id":"b 0.1.0","manifest_path":"/src/b/Cargo.toml","target":{"name":"b"},"executable":"/target/b"}`
	finished  = `{"reason":"build-finished","success":true}`
)

func newTestDriver(fake *fakeCargo) (*Driver, *bytes.Buffer) {
	var stderr bytes.Buffer
	d := NewDriver(fake.path)
	d.Stderr = &stderr
	return d, &stderr
}

func TestArgs(t *testing.T) {
	got := Args(types.Armv7hf, []string{"--release", "--bin", "app"})
	assert.Equal(t, []string{
		"build",
		"--target", "thumbv7neon-unknown-linux-gnueabihf",
		"--message-format", "json-render-diagnostics",
		"--release", "--bin", "app",
	}, got)
}

func TestBuildPassesFixedFlagsAndPassthrough(t *testing.T) {
	fake := newFakeCargo(t, lines(artifactA, finished), "", 0)
	d, stderr := newTestDriver(fake)

	out, err := d.Build(context.Background(), types.Aarch64, []string{"--release"})
	require.NoError(t, err)

	assert.Equal(t, Args(types.Aarch64, []string{"--release"}), fake.args(t))
	assert.Len(t, out.Messages, 2)
	assert.Empty(t, out.Diagnostics)
	assert.Contains(t, stderr.String(), "fake cargo diagnostics")
}

func TestBuildSurvivesMalformedLines(t *testing.T) {
	stdout := lines(artifactA, "this is not json", "", artifactB, finished)
	fake := newFakeCargo(t, stdout, "", 0)
	d, _ := newTestDriver(fake)

	out, err := d.Build(context.Background(), types.Aarch64, nil)
	require.NoError(t, err)

	require.Len(t, out.Messages, 3)
	assert.Equal(t, "a", out.Messages[0].(*CompilerArtifact).Target.Name)
	assert.Equal(t, "b", out.Messages[1].(*CompilerArtifact).Target.Name)
	assert.IsType(t, &BuildFinished{}, out.Messages[2])

	require.Len(t, out.Diagnostics, 1)
	assert.Equal(t, DiagnosticDecodeFailure, out.Diagnostics[0].Kind)
	assert.Equal(t, 2, out.Diagnostics[0].Line)
}

func TestBuildSkipsLinesThatCannotBeTaken(t *testing.T) {
	var stdout bytes.Buffer
	stdout.Write(lines(artifactA))
	stdout.Write([]byte{0xff, 0xfe, '{', '}', '\n'})
	stdout.Write(lines(artifactB))

	fake := newFakeCargo(t, stdout.Bytes(), "", 0)
	d, _ := newTestDriver(fake)

	out, err := d.Build(context.Background(), types.Aarch64, nil)
	require.NoError(t, err)

	assert.Len(t, out.Messages, 2)
	require.Len(t, out.Diagnostics, 1)
	assert.Equal(t, DiagnosticReadFailure, out.Diagnostics[0].Kind)
	assert.Equal(t, 2, out.Diagnostics[0].Line)
}

func TestBuildLastLineWithoutNewline(t *testing.T) {
	fake := newFakeCargo(t, []byte(artifactA+"\n"+finished), "", 0)
	d, _ := newTestDriver(fake)

	out, err := d.Build(context.Background(), types.Aarch64, nil)
	require.NoError(t, err)
	assert.Len(t, out.Messages, 2)
}

func TestBuildFailsOnNonZeroExit(t *testing.T) {
	fake := newFakeCargo(t, lines(artifactA, `{"reason":"build-finished","success":false}`), "", 101)
	d, _ := newTestDriver(fake)

	out, err := d.Build(context.Background(), types.Aarch64, nil)
	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBuildFailed))
	assert.Equal(t, "aarch64", errors.GetErrorDetails(err)["architecture"])
}

func TestBuildFailsWhenCargoCannotStart(t *testing.T) {
	d := NewDriver("/nonexistent/cargo")

	_, err := d.Build(context.Background(), types.Aarch64, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBuildFailed))
}

func TestBuildRejectsTargetOverride(t *testing.T) {
	d := NewDriver("/nonexistent/cargo")

	for _, args := range [][]string{
		{"--target", "x86_64-unknown-linux-gnu"},
		{"--release", "--target=x86_64-unknown-linux-gnu"},
	} {
		_, err := d.Build(context.Background(), types.Aarch64, args)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	}
}

func TestBuildRejectsUnknownArchitecture(t *testing.T) {
	d := NewDriver("/nonexistent/cargo")

	_, err := d.Build(context.Background(), types.Architecture("mips"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestReadMessagesStopsOnReadError(t *testing.T) {
	readErr := stderrors.New("pipe broken")
	r := io.MultiReader(strings.NewReader(artifactA+"\n"), iotest.ErrReader(readErr))

	out, err := NewDriver("").readMessages(r)
	assert.ErrorIs(t, err, readErr)

	require.Len(t, out.Messages, 1)
	require.Len(t, out.Diagnostics, 1)
	assert.Equal(t, DiagnosticReadFailure, out.Diagnostics[0].Kind)
	assert.Equal(t, 2, out.Diagnostics[0].Line)
}

func TestDrain(t *testing.T) {
	t.Run("discards remaining output", func(t *testing.T) {
		killed := false
		drain(strings.NewReader("more output\n"), func() error { killed = true; return nil })
		assert.False(t, killed)
	})

	t.Run("kills when the pipe cannot be read", func(t *testing.T) {
		killed := false
		drain(iotest.ErrReader(stderrors.New("pipe broken")), func() error { killed = true; return nil })
		assert.True(t, killed)
	})
}
