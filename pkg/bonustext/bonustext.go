// Package bonustext parses the free-text bonus lines printed by the game:
// set tiers, board nodes, titles, god-stones and ability descriptions. It is
// the only place in the module that matches raw text against patterns.
package bonustext

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Bonus is one parsed "<label> <number><unit?>" line.
type Bonus struct {
	Label   string
	Value   float64
	Percent bool
}

var (
	tagRe  = regexp.MustCompile(`<[^>]*>`)
	lineRe = regexp.MustCompile(`^(.+?)\s*([+-])?\s*(\d[\d,]*(?:\.\d+)?)\s*(%)?$`)
	statRe = regexp.MustCompile(`^([+-]?\d[\d,]*(?:\.\d+)?)\s*(%)?(?:\s*\(\s*([+-]?\d[\d,]*(?:\.\d+)?)\s*%\s*\))?$`)
)

// Clean strips markup tags and folds full-width characters to ASCII.
func Clean(text string) string {
	text = tagRe.ReplaceAllString(text, "")
	return strings.TrimSpace(width.Fold.String(text))
}

// ParseLine parses a bonus description such as "攻擊力 +50", "暴擊傷害增幅+0.5%"
// or "裝備時，生命力增加 500". A leading conditional clause is dropped. The
// verb stays part of the label; the key normalizer decides what to do with
// it. Lines that do not end in a number report ok=false.
func ParseLine(text string) (b Bonus, ok bool) {
	s := lastClause(Clean(text))
	m := lineRe.FindStringSubmatch(s)
	if m == nil {
		return Bonus{}, false
	}

	label := strings.TrimRightFunc(m[1], func(r rune) bool {
		return unicode.IsSpace(r) || r == '+' || r == '-'
	})
	if label == "" || !hasLetter(label) {
		return Bonus{}, false
	}

	v, ok := ParseNumber(m[3])
	if !ok {
		return Bonus{}, false
	}
	if m[2] == "-" {
		v = -v
	}
	return Bonus{Label: label, Value: v, Percent: m[4] != ""}, true
}

// ParseLines parses every line that matches and drops the rest. A line that
// enumerates several bonuses ("攻擊力增加50、防禦力增加30") yields one bonus
// per item.
func ParseLines(lines []string) []Bonus {
	var out []Bonus
	for _, l := range lines {
		for _, item := range splitItems(Clean(l)) {
			if b, ok := ParseLine(item); ok {
				out = append(out, b)
			}
		}
	}
	return out
}

// splitItems splits an enumeration on "、" and ";". A leading conditional
// clause stays with the first item, where ParseLine drops it.
func splitItems(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '、' || r == ';' })
}

// StatValue is an item stat value split into its flat part and its bracketed
// percentage part.
type StatValue struct {
	Flat       float64
	HasFlat    bool
	Percent    float64
	HasPercent bool
}

// SplitStatValue splits printed item values: "1778(+3%)" yields flat 1778 and
// percent 3, "5%" yields percent 5, "1,200" yields flat 1200.
func SplitStatValue(s string) (StatValue, bool) {
	m := statRe.FindStringSubmatch(Clean(s))
	if m == nil {
		return StatValue{}, false
	}

	var sv StatValue
	main, ok := ParseNumber(m[1])
	if !ok {
		return StatValue{}, false
	}
	if m[2] != "" {
		sv.Percent, sv.HasPercent = main, true
	} else {
		sv.Flat, sv.HasFlat = main, true
	}
	if m[3] != "" {
		extra, ok := ParseNumber(m[3])
		if !ok {
			return StatValue{}, false
		}
		sv.Percent += extra
		sv.HasPercent = true
	}
	return sv, true
}

// ParseNumber parses a decimal number with optional sign and thousands
// separators.
func ParseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// lastClause returns the text after the last clause separator. A comma between
// two digits is a thousands separator, not a clause break.
func lastClause(s string) string {
	runes := []rune(s)
	cut := 0
	for i, r := range runes {
		switch r {
		case '，', '：', ':', '；', ';', '、':
			cut = i + 1
		case ',':
			if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
				continue
			}
			cut = i + 1
		}
	}
	return strings.TrimSpace(string(runes[cut:]))
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
