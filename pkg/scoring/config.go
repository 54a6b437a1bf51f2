package scoring

// Tier is one rarity band.
type Tier struct {
	Key   string  `yaml:"key"`
	Name  string  `yaml:"name"` // display name
	Score float64 `yaml:"score"`
	Color string  `yaml:"color"`
}

// NumericGrade maps a numeric raw grade at or above Min to a tier key.
type NumericGrade struct {
	Min  float64 `yaml:"min"`
	Tier string  `yaml:"tier"`
}

// SlotRange is an inclusive range of slot positions.
type SlotRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Contains reports whether slot falls within r.
func (r SlotRange) Contains(slot int) bool { return slot >= r.Min && slot <= r.Max }

// Slots classifies slot positions into equipment categories.
type Slots struct {
	Armor     []SlotRange `yaml:"armor"`
	Accessory []SlotRange `yaml:"accessory"`
	Wing      []SlotRange `yaml:"wing"`
	Relic     []SlotRange `yaml:"relic"`
	Arcana    []SlotRange `yaml:"arcana"`
}

// Category returns the category name of slot, or "" when unclassified.
func (s Slots) Category(slot int) string {
	for _, c := range []struct {
		name   string
		ranges []SlotRange
	}{
		{"armor", s.Armor},
		{"accessory", s.Accessory},
		{"wing", s.Wing},
		{"relic", s.Relic},
		{"arcana", s.Arcana},
	} {
		for _, r := range c.ranges {
			if r.Contains(slot) {
				return c.name
			}
		}
	}
	return ""
}

// BoardWeight is the difficulty weight of boards whose name contains Name.
type BoardWeight struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

// AbilityStep maps levels at or above MinLevel to an intensity.
type AbilityStep struct {
	MinLevel  int     `yaml:"min_level"`
	Intensity float64 `yaml:"intensity"`
}

// GradeBand maps percentages at or above Min to a letter grade.
type GradeBand struct {
	Min   int    `yaml:"min"`
	Grade string `yaml:"grade"`
	Color string `yaml:"color"`
}

// Tables holds every constant and reference table the scorers read.
type Tables struct {
	// Rarity
	Tiers           []Tier              `yaml:"tiers"` // highest first
	ItemQuality     map[string]string   `yaml:"item_quality"`
	NumericGrades   []NumericGrade      `yaml:"numeric_grades"` // highest first
	QualityKeywords map[string][]string `yaml:"quality_keywords"`
	NameKeywords    map[string][]string `yaml:"name_keywords"`
	RadiantMarker   string              `yaml:"radiant_marker"`
	RadiantBonus    float64             `yaml:"radiant_bonus"` // fraction of base
	RadiantTier     string              `yaml:"radiant_tier"`
	Slots           Slots               `yaml:"slots"`
	EnchantCap      float64             `yaml:"enchant_cap"`
	EnchantExponent float64             `yaml:"enchant_exponent"`
	BreakCap        float64             `yaml:"breakthrough_cap"`
	BreakExponent   float64             `yaml:"breakthrough_exponent"`
	FullBuildTotal  float64             `yaml:"full_build_total"`
	RarityMax       float64             `yaml:"rarity_max"`

	// Board
	BoardWeights       []BoardWeight `yaml:"board_weights"`
	DefaultBoardWeight float64       `yaml:"default_board_weight"`
	BoardMax           float64       `yaml:"board_max"`

	// Companion
	CompanionShares float64 `yaml:"companion_shares"`
	CompanionMax    float64 `yaml:"companion_max"`

	// Ability
	AbilityTopN      int           `yaml:"ability_top_n"`
	AbilitySteps     []AbilityStep `yaml:"ability_steps"` // highest first
	AbilityKnee      float64       `yaml:"ability_knee"`
	AbilityKneeScore float64       `yaml:"ability_knee_score"`
	AbilityTailSpan  float64       `yaml:"ability_tail_span"`
	AbilityMax       float64       `yaml:"ability_max"`
	AbilityExcluded  []string      `yaml:"ability_excluded_categories"`

	// Title
	TitleDefaultTotal   int     `yaml:"title_default_total"`
	TitleMilestoneRatio float64 `yaml:"title_milestone_ratio"`
	TitleMilestoneScore float64 `yaml:"title_milestone_score"`
	TitleMax            float64 `yaml:"title_max"`

	// Composite
	Grades []GradeBand `yaml:"grades"` // highest first

	// Advisor
	MythicTarget int      `yaml:"mythic_target"`
	RelicMarkers []string `yaml:"relic_markers"` // names excluded from rarity advice counts

	Relic RelicTables `yaml:"relic"`
}

// RelicTables configures the display-only relic report.
type RelicTables struct {
	MagicStones []string       `yaml:"magic_stones"`
	Amulets     []string       `yaml:"amulets"`
	AmuletBase  []KeywordScore `yaml:"amulet_base"` // first match wins
	Max         float64        `yaml:"max"`
}

// KeywordScore assigns Score to grades or names containing any keyword.
type KeywordScore struct {
	Keywords []string `yaml:"keywords"`
	Score    float64  `yaml:"score"`
}

// Defaults returns the default scoring tables.
func Defaults() Tables {
	return Tables{
		Tiers: []Tier{
			{Key: "mythic", Name: "神話", Score: 10, Color: "#e67e22"},
			{Key: "legendary", Name: "傳說", Score: 7, Color: "#f1c40f"},
			{Key: "epic", Name: "史詩", Score: 4.5, Color: "#3498db"},
			{Key: "special", Name: "特殊", Score: 2.5, Color: "#00ffcc"},
			{Key: "rare", Name: "稀有", Score: 1.5, Color: "#2ecc71"},
			{Key: "common", Name: "普通", Score: 0.5, Color: "#ffffff"},
		},
		ItemQuality: map[string]string{},
		NumericGrades: []NumericGrade{
			{Min: 51, Tier: "mythic"},
			{Min: 50, Tier: "legendary"},
			{Min: 40, Tier: "epic"},
		},
		QualityKeywords: map[string][]string{
			"mythic":    {"mythic", "ancient", "神話", "古代"},
			"legendary": {"unique", "唯一", "獨特"},
			"epic":      {"legend", "eternal", "epic", "傳說", "傳承", "史詩"},
			"special":   {"special", "特殊"},
			"rare":      {"rare", "稀有"},
		},
		NameKeywords: map[string][]string{
			"mythic":    {"霸龍", "應龍", "雙龍王", "夔龍", "盧德萊", "神話", "古代", "被侵蝕", "殘影"},
			"legendary": {"天龍", "鳴龍", "白龍", "真龍", "唯一", "獨特", "軍團長"},
			"epic":      {"傳說", "英雄", "暴風", "傳承", "史詩", "試煉"},
			"special":   {"特殊"},
			"rare":      {"稀有", "藍"},
		},
		RadiantMarker: "閃耀",
		RadiantBonus:  0.2,
		RadiantTier:   "legendary",
		Slots: Slots{
			Armor:     []SlotRange{{0, 6}},
			Accessory: []SlotRange{{7, 14}, {16, 19}},
			Wing:      []SlotRange{{15, 15}},
			Relic:     []SlotRange{{20, 29}},
			Arcana:    []SlotRange{{30, 40}},
		},
		EnchantCap:      20,
		EnchantExponent: 1.2,
		BreakCap:        5,
		BreakExponent:   1.5,
		FullBuildTotal:  540,
		RarityMax:       30,

		BoardWeights: []BoardWeight{
			{Name: "奈薩肯", Weight: 1.5},
			{Name: "吉凱爾", Weight: 1.5},
			{Name: "白傑爾", Weight: 1.5},
			{Name: "崔妮爾", Weight: 1.5},
			{Name: "瑪爾庫坦", Weight: 3.0},
			{Name: "艾瑞爾", Weight: 2.0},
			{Name: "阿斯佩爾", Weight: 4.0},
		},
		DefaultBoardWeight: 1.5,
		BoardMax:           15,

		CompanionShares: 8,
		CompanionMax:    20,

		AbilityTopN: 12,
		AbilitySteps: []AbilityStep{
			{MinLevel: 20, Intensity: 100},
			{MinLevel: 15, Intensity: 75},
			{MinLevel: 10, Intensity: 45},
			{MinLevel: 5, Intensity: 20},
			{MinLevel: 1, Intensity: 5},
		},
		AbilityKnee:      400,
		AbilityKneeScore: 24,
		AbilityTailSpan:  800,
		AbilityMax:       30,
		AbilityExcluded:  []string{"Active", "Passive"},

		TitleDefaultTotal:   400,
		TitleMilestoneRatio: 0.5,
		TitleMilestoneScore: 4,
		TitleMax:            5,

		Grades: []GradeBand{
			{Min: 90, Grade: "SSS", Color: "#ff0000"},
			{Min: 80, Grade: "SS", Color: "#ff6b35"},
			{Min: 70, Grade: "S", Color: "#ffa500"},
			{Min: 60, Grade: "A", Color: "#ffd700"},
			{Min: 50, Grade: "B", Color: "#00d4ff"},
			{Min: 40, Grade: "C", Color: "#00ff88"},
			{Min: 30, Grade: "D", Color: "#bdc3c7"},
			{Min: 15, Grade: "E", Color: "#95a5a6"},
			{Min: 0, Grade: "F", Color: "#7f8c8d"},
		},

		MythicTarget: 16,
		RelicMarkers: []string{"古文石", "護身符"},

		Relic: RelicTables{
			MagicStones: []string{"激戰古文石", "專心古文石"},
			Amulets:     []string{"啟示護身符", "激戰護身符"},
			AmuletBase: []KeywordScore{
				{Keywords: []string{"傳說", "Legendary", "legendary"}, Score: 10},
				{Keywords: []string{"史詩", "Epic", "epic", "唯一"}, Score: 6},
				{Keywords: []string{"稀有", "Rare", "rare"}, Score: 3},
			},
			Max: 60,
		},
	}
}

// tier returns the tier with key, or nil.
func (t *Tables) tier(key string) *Tier {
	for i := range t.Tiers {
		if t.Tiers[i].Key == key {
			return &t.Tiers[i]
		}
	}
	return nil
}
