package render

import (
	"io"

	"github.com/charmbracelet/glamour"
)

const prettyWordWrap = 100

// pretty renders a Markdown document for a terminal. If the renderer cannot
// be built the plain document is written instead.
func pretty(w io.Writer, doc string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(prettyWordWrap),
	)
	if err != nil {
		return text(w, doc)
	}
	out, err := r.Render(doc)
	if err != nil {
		return text(w, doc)
	}
	_, err = io.WriteString(w, out)
	return err
}
