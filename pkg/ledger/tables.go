package ledger

import (
	"sort"
	"strings"

	"github.com/aionscope/aionscope/pkg/statkey"
)

// Tables are the reference tables the ingestors read. They are loaded once
// and shared read-only across passes.
type Tables struct {
	Keys statkey.Rules `yaml:"keys"`

	// Wings maps a wing name to the bonus lines it grants when equipped and
	// when merely owned.
	Wings map[string]WingBonus `yaml:"wings"`
	// WingSlots are the slot positions that hold the equipped wing.
	WingSlots []int `yaml:"wing_slots"`

	// Abilities maps an ability name to the stats it is known to grant.
	Abilities map[string][]TrackedStat `yaml:"abilities"`
	// Aliases maps a canonical stat name to its other in-text spellings.
	Aliases map[string][]string `yaml:"aliases"`

	// Presets maps a buff preset name to its {label: value} table. Labels
	// ending in "%" are percentage stats authored as fractions.
	Presets map[string]map[string]float64 `yaml:"presets"`
	// GuardPowerLabel is relabeled to GuardPowerKey when a preset grants it.
	GuardPowerLabel string `yaml:"guard_power_label"`
	GuardPowerKey   string `yaml:"guard_power_key"`
	// FlatPresetLabels are preset labels that always stay flat and skip the
	// unit guard.
	FlatPresetLabels []string `yaml:"flat_preset_labels"`

	Conversions []Conversion `yaml:"conversions"`

	// UnitGuard bounds recoverable percentage fractions: a fraction at or
	// above 1 is divided by 100 when below UnitGuard and discarded otherwise.
	UnitGuard float64 `yaml:"unit_guard"`
}

// WingBonus holds the bonus lines of one wing.
type WingBonus struct {
	Equip []string `yaml:"equip"`
	Held  []string `yaml:"held"`
}

// TrackedStat is one stat an ability grants. A Stat ending in "%" expects a
// percentage; Value is the reference value (a fraction for percentages).
type TrackedStat struct {
	Stat  string  `yaml:"stat"`
	Value float64 `yaml:"value"`
}

// Conversion derives a percentage bonus from a primary attribute at a fixed
// ratio: Target += Primary × Ratio percentage points.
type Conversion struct {
	Primary string  `yaml:"primary"`
	Target  string  `yaml:"target"`
	Ratio   float64 `yaml:"ratio"`
}

// DefaultTables returns the built-in reference tables.
func DefaultTables() Tables {
	return Tables{
		Keys: statkey.DefaultRules(),
		Wings: map[string]WingBonus{
			"白龍之翼": {Equip: []string{"攻擊力 +30", "移動速度 +5%"}, Held: []string{"生命力 +200"}},
			"天龍之翼": {Equip: []string{"攻擊力 +24", "移動速度 +4%"}, Held: []string{"生命力 +150"}},
			"暴風之翼": {Equip: []string{"攻擊力 +18"}, Held: []string{"生命力 +100"}},
			"傳承之翼": {Equip: []string{"防禦力 +40"}, Held: []string{"防禦力 +20"}},
		},
		WingSlots: []int{15},
		Abilities: map[string][]TrackedStat{
			"猛烈一擊": {{Stat: "攻擊力%", Value: 0.02}},
			"鋼鐵意志": {{Stat: "生命力%", Value: 0.05}, {Stat: "狀態異常抵抗", Value: 50}},
			"精準打擊": {{Stat: "暴擊", Value: 80}},
			"疾風":   {{Stat: "攻擊速度%", Value: 0.03}},
			"專注":   {{Stat: "冷卻時間減少%", Value: 0.05}},
		},
		Aliases: map[string][]string{
			"暴擊":     {"暴擊率", "致命一擊"},
			"攻擊力":    {"物理攻擊力"},
			"生命力":    {"最大生命力", "HP"},
			"冷卻時間減少": {"冷卻時間", "再使用時間減少"},
			"攻擊速度":   {"攻速"},
		},
		Presets: map[string]map[string]float64{
			"food":   {"攻擊力": 50, "生命力增加": 1000},
			"scroll": {"攻擊速度%": 0.1, "施放速度%": 0.1, "移動速度%": 0.2},
			"guard":  {"守護力": 300, "防禦力%": 0.05},
		},
		GuardPowerLabel:  "守護力",
		GuardPowerKey:    "PvP防禦力",
		FlatPresetLabels: []string{"生命力增加"},
		Conversions: []Conversion{
			{Primary: "意志", Target: "暴擊傷害抵抗%", Ratio: 0.1},
			{Primary: "知識", Target: "治癒量增幅%", Ratio: 0.1},
		},
		UnitGuard: 100,
	}
}

// faction maps a board display name fragment to its subtotal.
type faction struct {
	name   string
	source Source
}

var factions = []faction{
	{"奈薩肯", SourceBoardNezakan},
	{"吉凱爾", SourceBoardZikel},
	{"白傑爾", SourceBoardVaizel},
	{"崔妮爾", SourceBoardTriniel},
	{"瑪爾庫坦", SourceBoardMarchutan},
	{"艾瑞爾", SourceBoardAriel},
	{"阿斯佩爾", SourceBoardAzphel},
}

// BoardSource returns the subtotal a board's bonuses belong to. Unknown
// boards go to SourceBoardOther.
func BoardSource(boardName string) Source {
	for _, f := range factions {
		if strings.Contains(boardName, f.name) {
			return f.source
		}
	}
	return SourceBoardOther
}

// wingFor finds the table entry for a wing name, exact match first.
func (t *Tables) wingFor(name string) (WingBonus, bool) {
	if w, ok := t.Wings[name]; ok {
		return w, true
	}
	names := make([]string, 0, len(t.Wings))
	for k := range t.Wings {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if k != "" && strings.Contains(name, k) {
			return t.Wings[k], true
		}
	}
	return WingBonus{}, false
}

// percentPoints converts a percentage fraction to percentage points, applying
// the unit guard. ok is false when the value must be discarded.
func (t *Tables) percentPoints(fraction float64) (points float64, ok bool) {
	guard := t.UnitGuard
	if guard <= 0 {
		guard = 100
	}
	abs := fraction
	if abs < 0 {
		abs = -abs
	}
	if abs >= 1 {
		if abs >= guard {
			return 0, false
		}
		fraction /= 100
	}
	return fraction * 100, true
}

func (t *Tables) isFlatPresetLabel(label string) bool {
	for _, l := range t.FlatPresetLabels {
		if l == label {
			return true
		}
	}
	return false
}
