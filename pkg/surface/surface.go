// Package surface defines output rendering for aionscope reports.
// Implementations handle different output targets: terminal, Markdown, JSON
// and the stat ledger table.
package surface

import (
	"fmt"
	"io"

	"github.com/aionscope/aionscope/pkg/report"
)

// Renderer produces formatted output from a Report.
type Renderer interface {
	// Render writes the formatted report to the writer.
	Render(w io.Writer, r *report.Report) error
}

// ForFormat returns the renderer for an output format name.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "", "text":
		return &TerminalRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "ledger":
		return &LedgerRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json, markdown or ledger)", format)
	}
}
