package surface

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/width"

	"github.com/aionscope/aionscope/pkg/ledger"
	"github.com/aionscope/aionscope/pkg/report"
)

// LedgerRenderer renders the stat ledger as an aligned table: one row per
// key with its total, the official value and each non-zero source subtotal.
type LedgerRenderer struct {
	// Lang selects number formatting. The zero value formats as English.
	Lang language.Tag
	// Verbose adds the per-source detail lines under each row.
	Verbose bool
}

func (r *LedgerRenderer) Render(w io.Writer, rep *report.Report) error {
	lang := r.Lang
	if lang == language.Und {
		lang = language.English
	}
	p := message.NewPrinter(lang)

	if len(rep.Ledger) == 0 {
		fmt.Fprintln(w, "Ledger is empty.")
		return nil
	}

	keyWidth := displayWidth("Stat")
	for _, row := range rep.Ledger {
		if kw := displayWidth(row.Key); kw > keyWidth {
			keyWidth = kw
		}
	}

	fmt.Fprintf(w, "%s  %12s  %12s  %s\n", padRight("Stat", keyWidth), "Total", "Official", "Sources")
	for _, row := range rep.Ledger {
		official := "-"
		if row.Official != nil {
			official = formatNumber(p, *row.Official)
		}
		fmt.Fprintf(w, "%s  %12s  %12s  %s\n",
			padRight(row.Key, keyWidth), formatNumber(p, row.Total), official, sourceSummary(p, row))

		if r.Verbose {
			for _, src := range sortedSources(row.Details) {
				for _, line := range row.Details[src] {
					fmt.Fprintf(w, "    %s %s\n", dim(src+":"), line)
				}
			}
			for _, line := range row.Trail {
				fmt.Fprintf(w, "    %s %s\n", dim("official:"), line)
			}
		}
	}
	return nil
}

func sourceSummary(p *message.Printer, row ledger.Row) string {
	var parts []string
	for _, src := range sortedSources(row.Subtotals) {
		parts = append(parts, fmt.Sprintf("%s %s", src, formatSigned(p, row.Subtotals[src])))
	}
	if row.Unattributed != 0 {
		parts = append(parts, "unattributed "+formatSigned(p, row.Unattributed))
	}
	return strings.Join(parts, ", ")
}

// sortedSources returns the source names of m in ledger source order.
func sortedSources[V any](m map[string]V) []string {
	order := make(map[string]int, ledger.SourceCount)
	for s := ledger.Source(0); s < ledger.SourceCount; s++ {
		order[s.String()] = int(s)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return order[keys[i]] < order[keys[j]] })
	return keys
}

// formatNumber prints v with locale grouping and at most two decimals.
func formatNumber(p *message.Printer, v float64) string {
	if v == math.Trunc(v) {
		return p.Sprintf("%d", int64(v))
	}
	s := p.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func formatSigned(p *message.Printer, v float64) string {
	if v >= 0 {
		return "+" + formatNumber(p, v)
	}
	return formatNumber(p, v)
}

// displayWidth counts East Asian wide and fullwidth runes as two columns.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func padRight(s string, w int) string {
	if d := w - displayWidth(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}
