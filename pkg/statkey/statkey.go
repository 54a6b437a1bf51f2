// Package statkey canonicalizes raw attribute labels into ledger keys.
//
// A canonical key is the label with whitespace, width variants and redundant
// suffixes removed, followed by "%" when the attribute is percentage-valued.
// Normalization is idempotent: feeding a canonical key back in with Infer
// returns it unchanged.
package statkey

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// PercentMarker terminates percentage-valued keys.
const PercentMarker = "%"

// Hint tells the normalizer how to treat the unit of a label.
type Hint int8

const (
	Infer   Hint = iota // use a literal "%" in the label
	Percent             // force percentage
	Flat                // force flat
)

// Rules are the label lists the normalizer consults.
type Rules struct {
	// AlwaysPercent labels are percentage-semantic whatever the hint says.
	AlwaysPercent []string `yaml:"always_percent"`
	// ForceFlat labels are flat whatever the hint says.
	ForceFlat []string `yaml:"force_flat"`
	// Protected labels keep their suffix.
	Protected []string `yaml:"protected"`
	// Suffixes are stripped from the end of labels.
	Suffixes []string `yaml:"suffixes"`
	// Prefixes are canonicalized case-insensitively, e.g. "pve" -> "PvE".
	Prefixes []string `yaml:"prefixes"`
}

// DefaultRules returns the built-in label lists.
func DefaultRules() Rules {
	return Rules{
		AlwaysPercent: []string{
			"戰鬥速度", "暴擊傷害增幅", "暴擊傷害抵抗", "冷卻時間減少",
			"攻擊速度", "施放速度", "移動速度", "治癒量增幅",
			"PvE傷害增幅", "PvP傷害增幅", "PvE傷害抵抗", "PvP傷害抵抗",
		},
		ForceFlat: []string{"狀態異常抵抗", "狀態異常命中"},
		Protected: []string{"傷害增加", "暴擊傷害增加", "技能傷害增加", "治癒量增加"},
		Suffixes:  []string{"增加", "提升"},
		Prefixes:  []string{"PvE", "PvP"},
	}
}

// Normalizer maps raw labels to canonical keys. It is read-only after
// construction and safe for concurrent use.
type Normalizer struct {
	alwaysPercent map[string]bool
	forceFlat     map[string]bool
	protected     map[string]bool
	suffixes      []string
	prefixes      []string
}

// New builds a Normalizer from rules. Rule labels are themselves folded so
// that lists may be authored with full-width characters or spaces.
func New(r Rules) *Normalizer {
	n := &Normalizer{
		alwaysPercent: make(map[string]bool),
		forceFlat:     make(map[string]bool),
		protected:     make(map[string]bool),
		prefixes:      r.Prefixes,
	}
	for _, s := range r.Suffixes {
		if s = fold(s); s != "" {
			n.suffixes = append(n.suffixes, s)
		}
	}
	for _, l := range r.Protected {
		n.protected[n.prefix(fold(l))] = true
	}
	for _, l := range r.AlwaysPercent {
		n.alwaysPercent[n.key(l)] = true
	}
	for _, l := range r.ForceFlat {
		n.forceFlat[n.key(l)] = true
	}
	return n
}

// Default returns a Normalizer over DefaultRules.
func Default() *Normalizer { return New(DefaultRules()) }

// Normalize returns the canonical key for label.
func (n *Normalizer) Normalize(label string, hint Hint) string {
	hasPercent := strings.Contains(fold(label), PercentMarker)
	s := n.key(label)
	if s == "" {
		return ""
	}

	switch {
	case n.alwaysPercent[s]:
		return s + PercentMarker
	case n.forceFlat[s]:
		return s
	case hint == Percent:
		return s + PercentMarker
	case hint == Flat:
		return s
	case hasPercent:
		return s + PercentMarker
	}
	return s
}

// IsPercent reports whether key is percentage-valued.
func IsPercent(key string) bool { return strings.HasSuffix(key, PercentMarker) }

// Base returns key without its unit marker.
func Base(key string) string { return strings.TrimSuffix(key, PercentMarker) }

// IsForceFlat reports whether label normalizes onto a force-flat attribute.
func (n *Normalizer) IsForceFlat(label string) bool {
	return n.forceFlat[n.key(label)]
}

// IsAlwaysPercent reports whether label normalizes onto an always-percent
// attribute.
func (n *Normalizer) IsAlwaysPercent(label string) bool {
	return n.alwaysPercent[n.key(label)]
}

// key reduces a label to its unit-less canonical form.
func (n *Normalizer) key(label string) string {
	s := strings.ReplaceAll(fold(label), PercentMarker, "")
	return n.stripSuffixes(n.prefix(s))
}

func (n *Normalizer) prefix(s string) string {
	for _, p := range n.prefixes {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			return p + s[len(p):]
		}
	}
	return s
}

// stripSuffixes removes suffixes until none applies. Looping to a fixed point
// is what makes Normalize idempotent for stacked suffixes.
func (n *Normalizer) stripSuffixes(s string) string {
	for !n.isProtected(s) {
		stripped := false
		for _, suf := range n.suffixes {
			if strings.HasSuffix(s, suf) && len(s) > len(suf) {
				s = strings.TrimSuffix(s, suf)
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return s
}

func (n *Normalizer) isProtected(s string) bool {
	if n.protected[s] {
		return true
	}
	for _, p := range n.prefixes {
		if strings.HasPrefix(s, p) && n.protected[s[len(p):]] {
			return true
		}
	}
	return false
}

// fold maps full-width forms to ASCII and drops whitespace.
func fold(s string) string {
	s = width.Fold.String(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
