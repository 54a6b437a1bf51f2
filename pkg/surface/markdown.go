package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/aionscope/aionscope/pkg/report"
	"github.com/aionscope/aionscope/pkg/scoring"
)

// MarkdownRenderer renders a report as a Markdown document, suitable for
// pasting into a forum post or a guild wiki.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, rep *report.Report) error {
	if rep.Score == nil {
		return fmt.Errorf("report has no score")
	}
	_, err := io.WriteString(w, BuildMarkdown(rep))
	return err
}

// BuildMarkdown creates the Markdown body for a report.
func BuildMarkdown(rep *report.Report) string {
	res := rep.Score
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s: Grade %s, Score %.1f/%.0f\n\n", characterLabel(rep), res.Grade, res.TotalScore, res.MaxScore)
	if note := toggleNote(rep); note != "" {
		fmt.Fprintf(&sb, "_%s_\n\n", note)
	}

	sb.WriteString("### Dimensions\n\n")
	sb.WriteString("| Dimension | Score | Max | Raw |\n|-----------|-------|-----|-----|\n")
	for _, d := range res.Breakdown.Dimensions() {
		name := d.Name
		if d.Excluded {
			name += " (excluded)"
		}
		fmt.Fprintf(&sb, "| %s | %.1f | %.0f | %.1f |\n", name, d.NormalizedScore, d.MaxScore, d.RawScore)
	}
	sb.WriteString("\n")

	// Top 3 equipment items
	if items := res.Breakdown.Rarity.Details; len(items) > 0 {
		sb.WriteString("### Top equipment\n\n")
		n := 3
		if len(items) < n {
			n = len(items)
		}
		for _, it := range items[:n] {
			fmt.Fprintf(&sb, "- **%s** %.1f (%s)\n", it.Name, it.Score, it.Tier)
		}
		sb.WriteString("\n")
	}

	if len(res.Suggestions) > 0 {
		sb.WriteString("### Suggestions\n\n")
		for _, s := range res.Suggestions {
			fmt.Fprintf(&sb, "- %s **%s** (%s): %s\n", priorityIcon(s.Priority), s.Title, priorityLabel(s.Priority), s.Body)
		}
	}

	return sb.String()
}

func priorityIcon(p scoring.Priority) string {
	switch p {
	case scoring.PriorityHigh:
		return ":red_circle:"
	case scoring.PriorityMedium:
		return ":orange_circle:"
	case scoring.PriorityLow:
		return ":yellow_circle:"
	default:
		return ":blue_circle:"
	}
}

func priorityLabel(p scoring.Priority) string {
	switch p {
	case scoring.PriorityHigh:
		return "HIGH"
	case scoring.PriorityMedium:
		return "MEDIUM"
	case scoring.PriorityLow:
		return "LOW"
	default:
		return "INFO"
	}
}
