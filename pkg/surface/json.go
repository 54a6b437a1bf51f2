package surface

import (
	"encoding/json"
	"io"

	"github.com/aionscope/aionscope/pkg/report"
)

// JSONRenderer marshals the report to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, rep *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rep)
}
