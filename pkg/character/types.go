// Package character defines the canonical character snapshot consumed by the
// ledger and scoring engines. Every field except the profile identity is
// optional; absent data decodes to zero values and is treated as empty.
package character

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Snapshot is a point-in-time view of one character.
// Snapshots are treated as immutable once adapted.
type Snapshot struct {
	Profile          Profile          `json:"profile"`
	AttributeSummary []SummaryStat    `json:"attribute_summary,omitempty"`
	EquippedItems    []EquippedItem   `json:"equipped_items,omitempty"`
	BoardProgress    []BoardProgress  `json:"board_progress,omitempty"`
	CompanionMastery CompanionMastery `json:"companion_mastery"`
	Abilities        []Ability        `json:"abilities,omitempty"`
	Titles           Titles           `json:"titles"`
	Wings            Wings            `json:"wings"`
}

// Profile identifies the character.
type Profile struct {
	ID       string `json:"id"`
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Class    string `json:"class"`
}

// SummaryStat is one row of the game's authoritative attribute summary.
type SummaryStat struct {
	Name               string    `json:"name"`
	Value              StatValue `json:"value"`
	SecondaryBreakdown []string  `json:"secondary_breakdown,omitempty"`
}

// EquippedItem is one item in an equipment slot.
type EquippedItem struct {
	SlotPosition      int        `json:"slot_position"`
	Detail            ItemDetail `json:"detail"`
	EnchantLevel      int        `json:"enchant_level"`      // total visible enchant, breakthrough included
	BreakthroughLevel int        `json:"breakthrough_level"` // exceed levels layered on top of pure enchant
	Icon              string     `json:"icon,omitempty"`
}

// PureEnchant returns the enchant level with breakthrough levels removed.
func (it EquippedItem) PureEnchant() int {
	if p := it.EnchantLevel - it.BreakthroughLevel; p > 0 {
		return p
	}
	return 0
}

// ItemDetail is the descriptive payload of an equipped item.
type ItemDetail struct {
	ID             string    `json:"id,omitempty"`
	Name           string    `json:"name"`
	Grade          string    `json:"grade,omitempty"` // raw grade or quality string, possibly numeric
	MainStats      []Stat    `json:"main_stats,omitempty"`
	RandomStats    []Stat    `json:"random_stats,omitempty"`
	SocketedStones []Stat    `json:"socketed_stones,omitempty"`
	GodStone       *GodStone `json:"god_stone,omitempty"`
	Set            *SetInfo  `json:"set,omitempty"`
	SourceTags     []string  `json:"source_tags,omitempty"`
}

// Stat is a labelled value as printed on an item, e.g. {"攻擊力", "1778(+3%)"}.
type Stat struct {
	Name  string    `json:"name"`
	Value StatValue `json:"value"`
}

// GodStone is the proc stone socketed into a weapon.
type GodStone struct {
	Name    string   `json:"name"`
	Effects []string `json:"effects,omitempty"`
}

// SetInfo describes the item set an item belongs to.
type SetInfo struct {
	Name  string    `json:"name"`
	Tiers []SetTier `json:"tiers,omitempty"`
}

// SetTier is one piece-count threshold of a set and its bonus lines.
type SetTier struct {
	Required int      `json:"required"`
	Bonuses  []string `json:"bonuses,omitempty"`
}

// BoardProgress is the unlock state of one faction board.
type BoardProgress struct {
	Name                string   `json:"name"`
	OpenNodeCount       int      `json:"open_node_count"`
	TotalNodeCount      int      `json:"total_node_count"`
	UnlockedNodeEffects []string `json:"unlocked_node_effects,omitempty"`
}

// CompanionMastery holds the four companion categories. A nil category
// contributes nothing.
type CompanionMastery struct {
	Intellect *CompanionCategory `json:"intellect,omitempty"`
	Feral     *CompanionCategory `json:"feral,omitempty"`
	Nature    *CompanionCategory `json:"nature,omitempty"`
	Transform *CompanionCategory `json:"transform,omitempty"`
}

// Categories returns the categories in their fixed order, keyed by name.
func (m CompanionMastery) Categories() []NamedCategory {
	return []NamedCategory{
		{Name: "intellect", Category: m.Intellect},
		{Name: "feral", Category: m.Feral},
		{Name: "nature", Category: m.Nature},
		{Name: "transform", Category: m.Transform},
	}
}

// NamedCategory pairs a companion category with its name.
type NamedCategory struct {
	Name     string
	Category *CompanionCategory
}

// CompanionCategory counts companion affinity achievement in one category.
type CompanionCategory struct {
	TotalInGame       int `json:"total_in_game"`
	AtLeastTier3Count int `json:"at_least_tier3_count"`
	AtLeastTier4Count int `json:"at_least_tier4_count"`
}

// Ability categories excluded from strength scoring.
const (
	CategoryActive  = "Active"
	CategoryPassive = "Passive"
)

// Ability is a learned skill or rune.
type Ability struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Level       int    `json:"level"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// Titles summarizes the title collection.
type Titles struct {
	OwnedCount int      `json:"owned_count"`
	TotalCount int      `json:"total_count"`
	Bonuses    []string `json:"bonuses,omitempty"` // bonus lines of equipped titles
}

// Wings lists the companion wings the character owns.
type Wings struct {
	Owned []string `json:"owned,omitempty"`
}

// StatValue is a stat value as printed by the game. It decodes from either a
// JSON number or a JSON string and keeps the printed form.
type StatValue string

// UnmarshalJSON accepts numbers, strings and null.
func (v *StatValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*v = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*v = StatValue(str)
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return err
	}
	*v = StatValue(s)
	return nil
}

// String returns the printed form.
func (v StatValue) String() string { return string(v) }

// UniqueBySlot returns items with redundant slot listings removed. The first
// listing of each slot wins; order is preserved.
func UniqueBySlot(items []EquippedItem) []EquippedItem {
	seen := make(map[int]bool, len(items))
	out := make([]EquippedItem, 0, len(items))
	for _, it := range items {
		if seen[it.SlotPosition] {
			continue
		}
		seen[it.SlotPosition] = true
		out = append(out, it)
	}
	return out
}
