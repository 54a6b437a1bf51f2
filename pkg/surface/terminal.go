package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aionscope/aionscope/pkg/report"
	"github.com/aionscope/aionscope/pkg/scoring"
)

// TerminalRenderer renders a report as colored terminal output.
type TerminalRenderer struct {
	// MaxDetails caps the details listed per dimension. Zero means 5.
	MaxDetails int
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func gradeColor(grade string) string {
	if noColor() {
		return ""
	}
	switch grade {
	case "SSS", "SS", "S":
		return colorCyan
	case "A", "B":
		return colorGreen
	case "C", "D":
		return colorYellow
	case "E", "F":
		return colorRed
	default:
		return ""
	}
}

func priorityColor(p scoring.Priority) string {
	switch p {
	case scoring.PriorityHigh:
		return colorRed
	case scoring.PriorityMedium:
		return colorYellow
	case scoring.PriorityLow:
		return colorGreen
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, rep *report.Report) error {
	res := rep.Score
	if res == nil {
		return fmt.Errorf("report has no score")
	}
	maxDetails := r.MaxDetails
	if maxDetails <= 0 {
		maxDetails = 5
	}

	fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("%s (Lv%d %s): Grade %s, Score %.1f/%.0f",
		characterLabel(rep), rep.Profile.Level, rep.Profile.Class,
		colored(res.Grade, gradeColor(res.Grade)), res.TotalScore, res.MaxScore)))
	if note := toggleNote(rep); note != "" {
		fmt.Fprintln(w, dim(note))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Dimensions:")
	for _, d := range res.Breakdown.Dimensions() {
		fmt.Fprintf(w, "  %-18s %5.1f/%-4.0f %s", d.Name, d.NormalizedScore, d.MaxScore, bar(d.Percent(), 20))
		if d.Excluded {
			fmt.Fprintf(w, " %s", dim("(excluded)"))
		}
		fmt.Fprintln(w)

		n := len(d.Details)
		if n > maxDetails {
			n = maxDetails
		}
		for _, det := range d.Details[:n] {
			fmt.Fprintf(w, "      %s\n", dim(det.Summary))
		}
		if len(d.Details) > maxDetails {
			fmt.Fprintf(w, "      %s\n", dim(fmt.Sprintf("... and %d more", len(d.Details)-maxDetails)))
		}
	}
	fmt.Fprintln(w)

	if rel := res.Relic; rel != nil && len(rel.Items) > 0 {
		fmt.Fprintf(w, "Relics: %.0f/%.0f (not part of the total)\n", rel.Total, rel.MaxScore)
		for _, it := range rel.Items {
			fmt.Fprintf(w, "  %s +%d: %.0f\n", it.Name, it.Enchant, it.Score)
		}
		fmt.Fprintln(w)
	}

	if len(res.Suggestions) > 0 {
		fmt.Fprintln(w, "Suggestions:")
		for _, s := range res.Suggestions {
			marker := colored("●", priorityColor(s.Priority))
			fmt.Fprintf(w, "  %s %s\n", marker, bold(s.Title))
			for _, line := range wrapText(s.Body, 70) {
				fmt.Fprintf(w, "    %s\n", dim(line))
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

func characterLabel(rep *report.Report) string {
	if rep.Profile.Name != "" {
		return rep.Profile.Name
	}
	if rep.Profile.ID != "" {
		return rep.Profile.ID
	}
	return "character"
}

func toggleNote(rep *report.Report) string {
	var parts []string
	if rep.Toggles.ExcludeBoardBonuses {
		parts = append(parts, "board bonuses excluded")
	}
	if len(rep.Toggles.Presets) > 0 {
		parts = append(parts, "presets: "+strings.Join(rep.Toggles.Presets, ", "))
	}
	return strings.Join(parts, "; ")
}

// bar draws a fixed-width progress bar for a percentage.
func bar(pct float64, width int) string {
	filled := int(pct/100*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if displayWidth(current)+1+displayWidth(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
