package cargo

import "fmt"

// DiagnosticKind classifies a recoverable event seen while processing a build.
type DiagnosticKind string

const (
	// DiagnosticDecodeFailure is a stdout line that is not a known message
	DiagnosticDecodeFailure DiagnosticKind = "decode-failure"
	// DiagnosticReadFailure is a stdout line that could not be taken
	DiagnosticReadFailure DiagnosticKind = "read-failure"
	// DiagnosticDiscardedOutDir is an out dir replaced by a later build script message
	DiagnosticDiscardedOutDir DiagnosticKind = "discarded-out-dir"
	// DiagnosticCompilerMessage is a compiler diagnostic forwarded by cargo
	DiagnosticCompilerMessage DiagnosticKind = "compiler-message"
)

// Diagnostic is a recoverable event. It never changes the outcome of a build.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind" yaml:"kind"`
	Line   int            `json:"line,omitempty" yaml:"line,omitempty"`
	Detail string         `json:"detail" yaml:"detail"`
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", d.Kind, d.Line, d.Detail)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Detail)
}
