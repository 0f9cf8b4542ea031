package cargo

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/cargo-acap/pkg/errors"
	"github.com/arthur-debert/cargo-acap/pkg/logging"
	"github.com/arthur-debert/cargo-acap/pkg/types"
	"github.com/rs/zerolog"
)

// MessageFormat is always requested so diagnostics stay readable on stderr.
const MessageFormat = "json-render-diagnostics"

// BuildOutput is everything a build printed on stdout, in order.
type BuildOutput struct {
	Messages    []Message
	Diagnostics []Diagnostic
}

// Driver runs `cargo build` and collects its messages.
type Driver struct {
	// CargoPath is the cargo executable. Empty means "cargo" from PATH.
	CargoPath string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env is appended to the inherited environment.
	Env []string

	// Stderr receives cargo's rendered diagnostics. Nil means os.Stderr.
	Stderr io.Writer

	logger zerolog.Logger
}

// NewDriver creates a Driver for the given cargo executable.
func NewDriver(cargoPath string) *Driver {
	return &Driver{
		CargoPath: cargoPath,
		logger:    logging.GetLogger("cargo.driver"),
	}
}

// Args returns the full cargo argument list for a build of arch.
func Args(arch types.Architecture, passthrough []string) []string {
	args := []string{"build", "--target", arch.Triple(), "--message-format", MessageFormat}
	return append(args, passthrough...)
}

// Build compiles for arch, forwarding passthrough to cargo. Passthrough
// arguments must not select a target themselves: the results would be
// attributed to the wrong architecture.
func (d *Driver) Build(ctx context.Context, arch types.Architecture, passthrough []string) (*BuildOutput, error) {
	if !arch.Valid() {
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported architecture %q", arch)
	}
	for _, arg := range passthrough {
		if arg == "--target" || strings.HasPrefix(arg, "--target=") {
			return nil, errors.New(errors.ErrInvalidInput, "cargo arguments must not contain --target; select architectures with --arch instead").
				WithDetail("argument", arg)
		}
	}

	cargoPath := d.cargoPath()
	args := Args(arch, passthrough)
	logging.LogCommand(cargoPath, args)

	cmd := exec.CommandContext(ctx, cargoPath, args...)
	cmd.Dir = d.Dir
	cmd.Env = append(os.Environ(), d.Env...)
	cmd.Stderr = d.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "creating stdout pipe for cargo")
	}

	commandLine := strings.Join(append([]string{cargoPath}, args...), " ")
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrBuildFailed, "starting %s", commandLine).
			WithDetail("command", commandLine)
	}

	output, readErr := d.readMessages(stdout)
	if readErr != nil {
		// Cargo blocks on a full pipe nobody reads, and Wait with it.
		drain(stdout, cmd.Process.Kill)
	}

	if err := cmd.Wait(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrBuildFailed, "%s failed", commandLine).
			WithDetail("command", commandLine).
			WithDetail("architecture", arch.Nickname())
	}

	d.logger.Debug().
		Int("messages", len(output.Messages)).
		Int("diagnostics", len(output.Diagnostics)).
		Str("arch", arch.Nickname()).
		Msg("cargo build completed")

	return output, nil
}

// readMessages consumes r until EOF. Problems with single lines become
// diagnostics and the rest of the stream is still processed. A read error
// ends the stream early; it is recorded as a diagnostic and returned so the
// caller can unblock the child.
func (d *Driver) readMessages(r io.Reader) (*BuildOutput, error) {
	output := &BuildOutput{}
	reader := bufio.NewReader(r)

	for lineNo := 1; ; lineNo++ {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			d.processLine(output, lineNo, line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			d.logger.Error().Err(err).Int("line", lineNo).Msg("Could not take line")
			output.Diagnostics = append(output.Diagnostics, Diagnostic{
				Kind:   DiagnosticReadFailure,
				Line:   lineNo,
				Detail: err.Error(),
			})
			// The exit status still decides the outcome.
			return output, err
		}
	}

	return output, nil
}

// drain discards what is left in r. When even that fails the child is
// killed, so waiting for it cannot hang.
func drain(r io.Reader, kill func() error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		_ = kill()
	}
}

func (d *Driver) processLine(output *BuildOutput, lineNo int, line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	if len(bytes.TrimSpace(line)) == 0 {
		return
	}

	if !utf8.Valid(line) {
		d.logger.Error().Int("line", lineNo).Msg("Could not take line because it is not valid UTF-8")
		output.Diagnostics = append(output.Diagnostics, Diagnostic{
			Kind:   DiagnosticReadFailure,
			Line:   lineNo,
			Detail: "line is not valid UTF-8",
		})
		return
	}

	message, err := Decode(line)
	if err != nil {
		d.logger.Error().Err(err).Int("line", lineNo).Msg("Could not parse line")
		output.Diagnostics = append(output.Diagnostics, Diagnostic{
			Kind:   DiagnosticDecodeFailure,
			Line:   lineNo,
			Detail: err.Error(),
		})
		return
	}

	output.Messages = append(output.Messages, message)
}

func (d *Driver) cargoPath() string {
	return orDefault(d.CargoPath)
}

func orDefault(cargoPath string) string {
	if cargoPath == "" {
		return "cargo"
	}
	return cargoPath
}
