package cargo

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeCargo writes a shell script standing in for cargo. It records its
// arguments in argsFile, prints stdout (or metadata for `cargo metadata`)
// and exits with exitCode.
type fakeCargo struct {
	path     string
	argsFile string
}

func newFakeCargo(t *testing.T, stdout []byte, metadata string, exitCode int) *fakeCargo {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake cargo scripts need a POSIX shell")
	}

	dir := t.TempDir()
	stdoutFile := filepath.Join(dir, "stdout")
	metadataFile := filepath.Join(dir, "metadata.json")
	argsFile := filepath.Join(dir, "args")

	require.NoError(t, os.WriteFile(stdoutFile, stdout, 0o644))
	require.NoError(t, os.WriteFile(metadataFile, []byte(metadata), 0o644))

	script := fmt.Sprintf(`#!/bin/sh
printf '%%s\n' "$@" > %q
echo "fake cargo diagnostics" >&2
if [ "$1" = "metadata" ]; then
  cat %q
else
  cat %q
fi
exit %d
`, argsFile, metadataFile, stdoutFile, exitCode)

	path := filepath.Join(dir, "cargo")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return &fakeCargo{path: path, argsFile: argsFile}
}

func (f *fakeCargo) args(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.argsFile)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func lines(l ...string) []byte {
	return []byte(strings.Join(l, "\n") + "\n")
}
