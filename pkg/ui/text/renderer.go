// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"sort"

	"github.com/arthur-debert/cargo-acap/pkg/acap"
	"github.com/arthur-debert/cargo-acap/pkg/errors"
)

// Style decorates a piece of output. name is a semantic style name such as
// "Header" or "FilePath".
type Style func(name, s string) string

func plain(_, s string) string { return s }

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
	style  Style
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return NewStyled(output, plain)
}

// NewStyled creates a renderer with the text layout and custom styling.
func NewStyled(output io.Writer, style Style) *Renderer {
	return &Renderer{output: output, style: style}
}

// RenderResult renders reports as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *acap.Report:
		return r.renderReport(v)
	case []*acap.Report:
		for i, report := range v {
			if i > 0 {
				if _, err := fmt.Fprintln(r.output); err != nil {
					return err
				}
			}
			if err := r.renderReport(report); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderReport(report *acap.Report) error {
	w := &errWriter{w: r.output}

	w.printf("%s %s\n",
		r.style("Header", report.Architecture.Nickname()),
		r.style("Muted", "run "+report.RunID))

	if len(report.Artifacts) == 0 {
		w.printf("  %s\n", r.style("Muted", "no executables built"))
	}
	for _, a := range report.Artifacts {
		if a.IsBundle() {
			w.printf("  %s  %s (%s)\n", r.style("Bundle", string(a.Kind)), r.style("FilePath", a.Path), a.Name)
			continue
		}
		w.printf("  %s  %s\n", r.style("Executable", string(a.Kind)), r.style("FilePath", a.Path))
	}

	if n := len(report.Diagnostics); n > 0 {
		label := "diagnostics"
		if n == 1 {
			label = "diagnostic"
		}
		w.printf("  %s\n", r.style("Warning", fmt.Sprintf("%d %s", n, label)))
		for _, d := range report.Diagnostics {
			w.printf("    %s\n", d)
		}
	}
	return w.err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	w := &errWriter{w: r.output}
	w.printf("%s %v\n", r.style("Error", "Error:"), err)

	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.printf("  %s: %v\n", r.style("Muted", k), details[k])
	}
	return w.err
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// errWriter stops writing after the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
