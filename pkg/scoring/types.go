// Package scoring implements the aionscope capability scoring engine.
// It evaluates a character snapshot along five dimensions and combines them
// into an explainable composite score with improvement suggestions.
package scoring

import "math"

// CompositeScore is the complete output of scoring a character.
// Immutable once computed.
type CompositeScore struct {
	TotalScore  float64      `json:"total_score"` // 0-100
	MaxScore    float64      `json:"max_score"`
	Percentage  int          `json:"percentage"`
	Grade       string       `json:"grade"` // SSS .. F
	GradeColor  string       `json:"grade_color"`
	Breakdown   Breakdown    `json:"breakdown"`
	Suggestions []Suggestion `json:"suggestions"`
	Relic       *RelicReport `json:"relic,omitempty"` // display only, not part of TotalScore
}

// Breakdown holds the five dimension results.
type Breakdown struct {
	Rarity    DimensionResult `json:"rarity"`
	Board     DimensionResult `json:"board"`
	Companion DimensionResult `json:"companion"`
	Ability   DimensionResult `json:"ability"`
	Title     DimensionResult `json:"title"`
}

// Dimensions returns the results in fixed display order.
func (b Breakdown) Dimensions() []DimensionResult {
	return []DimensionResult{b.Rarity, b.Board, b.Companion, b.Ability, b.Title}
}

// Sum returns the sum of the normalized scores.
func (b Breakdown) Sum() float64 {
	var s float64
	for _, d := range b.Dimensions() {
		s += d.NormalizedScore
	}
	return s
}

// DimensionResult is the output of a single scoring dimension.
type DimensionResult struct {
	Key             string   `json:"key"`  // machine key: "rarity"
	Name            string   `json:"name"` // human name: "Equipment rarity"
	RawScore        float64  `json:"raw_score"`
	NormalizedScore float64  `json:"normalized_score"` // always within [0, MaxScore]
	MaxScore        float64  `json:"max_score"`
	Details         []Detail `json:"details"`
	Excluded        bool     `json:"excluded,omitempty"` // switched off by a toggle
}

// Percent returns the normalized score as a percentage of the maximum.
func (d DimensionResult) Percent() float64 {
	if d.MaxScore <= 0 {
		return 0
	}
	return d.NormalizedScore / d.MaxScore * 100
}

// Detail is one scored element of a dimension: an item, a board, a companion
// category, an ability or the title collection.
type Detail struct {
	Name    string  `json:"name"`
	Summary string  `json:"summary"`
	Score   float64 `json:"score"`

	// Equipment items.
	Slot              int     `json:"slot,omitempty"`
	Tier              string  `json:"tier,omitempty"`
	TierSource        string  `json:"tier_source,omitempty"`
	EnchantLevel      int     `json:"enchant_level,omitempty"`
	PureEnchant       int     `json:"pure_enchant,omitempty"`
	Breakthrough      int     `json:"breakthrough,omitempty"`
	Radiant           bool    `json:"radiant,omitempty"`
	BaseScore         float64 `json:"base_score,omitempty"`
	EnchantBonus      float64 `json:"enchant_bonus,omitempty"`
	BreakthroughBonus float64 `json:"breakthrough_bonus,omitempty"`
	RadiantBonus      float64 `json:"radiant_bonus,omitempty"`

	// Progress counters: board nodes, companion tiers, titles.
	Count int     `json:"count,omitempty"`
	Total int     `json:"total,omitempty"`
	Extra int     `json:"extra,omitempty"`
	Level int     `json:"level,omitempty"`
	Ratio float64 `json:"ratio,omitempty"`
}

// Priority ranks a suggestion.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Suggestion is a human-readable improvement recommendation.
type Suggestion struct {
	Dimension string   `json:"dimension"` // dimension key, or "overall"
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Priority  Priority `json:"priority"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
