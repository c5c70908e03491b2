package render

import (
	"encoding/json"
	"io"
)

// JSON writes v indented with two spaces. HTML characters are not escaped so
// URLs stay readable.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
