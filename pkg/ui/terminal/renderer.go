// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"io"

	"github.com/arthur-debert/cargo-acap/pkg/ui/styles"
	"github.com/arthur-debert/cargo-acap/pkg/ui/text"
)

// Renderer lays output out like the text renderer and styles it with
// lipgloss.
type Renderer struct {
	*text.Renderer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{Renderer: text.NewStyled(w, style)}
}

func style(name, s string) string {
	return styles.GetStyle(name).Render(s)
}
