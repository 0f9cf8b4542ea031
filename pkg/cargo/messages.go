package cargo

import (
	"encoding/json"

	"github.com/arthur-debert/cargo-acap/pkg/errors"
)

// Message reasons emitted by cargo
const (
	ReasonCompilerArtifact    = "compiler-artifact"
	ReasonCompilerMessage     = "compiler-message"
	ReasonBuildFinished       = "build-finished"
	ReasonBuildScriptExecuted = "build-script-executed"
)

// Message is one decoded line of cargo's JSON output.
type Message interface {
	Reason() string
}

// Target identifies the compiled target of a build unit.
type Target struct {
	Name string   `json:"name"`
	Kind []string `json:"kind"`
}

// CompilerArtifact reports the files produced for one build unit.
type CompilerArtifact struct {
	PackageID    string  `json:"package_id"`
	ManifestPath string  `json:"manifest_path"`
	Target       Target  `json:"target"`
	Executable   *string `json:"executable"`
}

// Reason implements Message
func (m *CompilerArtifact) Reason() string { return ReasonCompilerArtifact }

// ExecutablePath returns the produced executable, if any.
func (m *CompilerArtifact) ExecutablePath() (string, bool) {
	if m.Executable == nil || *m.Executable == "" {
		return "", false
	}
	return *m.Executable, true
}

// CompilerMessage carries a compiler diagnostic.
type CompilerMessage struct {
	PackageID string
	Level     string
	Text      string
}

// Reason implements Message
func (m *CompilerMessage) Reason() string { return ReasonCompilerMessage }

// BuildFinished is the last message of a build.
type BuildFinished struct {
	Success bool `json:"success"`
}

// Reason implements Message
func (m *BuildFinished) Reason() string { return ReasonBuildFinished }

// BuildScriptExecuted reports the OUT_DIR of a build unit's build script.
type BuildScriptExecuted struct {
	PackageID string `json:"package_id"`
	OutDir    string `json:"out_dir"`
}

// Reason implements Message
func (m *BuildScriptExecuted) Reason() string { return ReasonBuildScriptExecuted }

type envelope struct {
	Reason string `json:"reason"`
}

type rawCompilerMessage struct {
	PackageID string `json:"package_id"`
	Message   struct {
		Rendered *string `json:"rendered"`
		Message  string  `json:"message"`
		Level    string  `json:"level"`
	} `json:"message"`
}

// Decode parses a single line of cargo output.
func Decode(line []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrMalformedOutput, "line is not a JSON message")
	}

	switch env.Reason {
	case ReasonCompilerArtifact:
		var m CompilerArtifact
		if err := json.Unmarshal(line, &m); err != nil {
			return nil, decodeError(env.Reason, err)
		}
		return &m, nil
	case ReasonCompilerMessage:
		var raw rawCompilerMessage
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, decodeError(env.Reason, err)
		}
		m := &CompilerMessage{
			PackageID: raw.PackageID,
			Level:     raw.Message.Level,
			Text:      raw.Message.Message,
		}
		if raw.Message.Rendered != nil {
			m.Text = *raw.Message.Rendered
		}
		return m, nil
	case ReasonBuildFinished:
		var m BuildFinished
		if err := json.Unmarshal(line, &m); err != nil {
			return nil, decodeError(env.Reason, err)
		}
		return &m, nil
	case ReasonBuildScriptExecuted:
		var m BuildScriptExecuted
		if err := json.Unmarshal(line, &m); err != nil {
			return nil, decodeError(env.Reason, err)
		}
		return &m, nil
	default:
		return nil, errors.Newf(errors.ErrMalformedOutput, "unsupported message reason %q", env.Reason).
			WithDetail("reason", env.Reason)
	}
}

func decodeError(reason string, err error) error {
	return errors.Wrapf(err, errors.ErrMalformedOutput, "cannot decode %s message", reason).
		WithDetail("reason", reason)
}
