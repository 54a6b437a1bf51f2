package scoring_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/aionscope/aionscope/pkg/character"
	"github.com/aionscope/aionscope/pkg/scoring"
)

func loadFixture(t *testing.T) *character.Snapshot {
	t.Helper()
	snap, err := character.LoadSnapshot("../../testdata/snapshot.json")
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	return snap
}

func TestScoreFixture(t *testing.T) {
	engine := scoring.NewEngine(scoring.Defaults())
	result, err := engine.Score(loadFixture(t), character.Toggles{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	want := map[string]float64{
		"rarity":    2.1,
		"board":     2.4,
		"companion": 3.8,
		"ability":   2.7,
		"title":     4.0,
	}
	for _, d := range result.Breakdown.Dimensions() {
		if math.Abs(d.NormalizedScore-want[d.Key]) > 1e-9 {
			t.Errorf("%s = %v, want %v", d.Key, d.NormalizedScore, want[d.Key])
		}
	}
	if result.Breakdown.Rarity.RawScore != 37.5 {
		t.Errorf("rarity raw = %v, want 37.5", result.Breakdown.Rarity.RawScore)
	}
	if math.Abs(result.TotalScore-15.0) > 1e-9 {
		t.Errorf("TotalScore = %v, want 15.0", result.TotalScore)
	}
	if result.Grade != "E" {
		t.Errorf("Grade = %s, want E", result.Grade)
	}
	if result.Percentage != 15 || result.MaxScore != 100 {
		t.Errorf("Percentage/MaxScore = %d/%v", result.Percentage, result.MaxScore)
	}
	if result.Relic == nil || result.Relic.Total != 8 {
		t.Errorf("expected relic total 8, got %+v", result.Relic)
	}
	if len(result.Suggestions) != 6 || result.Suggestions[0].Dimension != "overall" {
		t.Fatalf("expected overall suggestion plus five dimensions, got %+v", result.Suggestions)
	}
}

func TestScoreExcludeBoards(t *testing.T) {
	engine := scoring.NewEngine(scoring.Defaults())
	snap := loadFixture(t)

	with, _ := engine.Score(snap, character.Toggles{})
	without, err := engine.Score(snap, character.Toggles{ExcludeBoardBonuses: true})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if without.Breakdown.Board.NormalizedScore != 0 {
		t.Errorf("board = %v, want 0", without.Breakdown.Board.NormalizedScore)
	}
	if math.Abs(with.TotalScore-without.TotalScore-2.4) > 1e-9 {
		t.Errorf("expected board exclusion to drop 2.4, got %v -> %v", with.TotalScore, without.TotalScore)
	}
}

func TestScoreNilSnapshot(t *testing.T) {
	engine := scoring.NewEngine(scoring.Defaults())
	if _, err := engine.Score(nil, character.Toggles{}); err == nil {
		t.Error("expected error for nil snapshot")
	}
}

func TestScoreEmptySnapshot(t *testing.T) {
	engine := scoring.NewEngine(scoring.Defaults())
	result, err := engine.Score(&character.Snapshot{}, character.Toggles{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.TotalScore != 0 || result.Grade != "F" {
		t.Errorf("expected 0/F, got %v/%s", result.TotalScore, result.Grade)
	}
}

type fixedDimension struct {
	key   string
	score float64
}

func (d fixedDimension) Key() string  { return d.key }
func (d fixedDimension) Name() string { return d.key }
func (d fixedDimension) Evaluate(*character.Snapshot, character.Toggles) scoring.DimensionResult {
	return scoring.DimensionResult{Key: d.key, Name: d.key, NormalizedScore: d.score, MaxScore: 30}
}

func TestEngineCustomDimensions(t *testing.T) {
	engine := scoring.NewEngine(scoring.Defaults(),
		fixedDimension{"rarity", 30},
		fixedDimension{"ability", 30},
		fixedDimension{"board", 30},
		fixedDimension{"companion", 20},
	)
	result, err := engine.Score(&character.Snapshot{}, character.Toggles{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.TotalScore != 100 {
		t.Errorf("TotalScore = %v, want clamped 100", result.TotalScore)
	}
	if result.Grade != "SSS" {
		t.Errorf("Grade = %s, want SSS", result.Grade)
	}
}

func TestGradeFromPercentage(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "SSS"},
		{90, "SSS"},
		{89.9, "SSS"},
		{89.4, "SS"},
		{80, "SS"},
		{70, "S"},
		{60, "A"},
		{50, "B"},
		{40, "C"},
		{30, "D"},
		{15, "E"},
		{14.5, "E"},
		{14, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		if got := scoring.GradeFromPercentage(tt.pct); got != tt.want {
			t.Errorf("GradeFromPercentage(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestScoresStayWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	engine := scoring.NewEngine(scoring.Defaults())
	boards := []string{"阿斯佩爾", "瑪爾庫坦", "艾瑞爾", "奈薩肯", "新板"}
	grades := []string{"Mythic", "Unique", "Epic", "Rare", "", "55", "45"}

	for i := 0; i < 200; i++ {
		snap := &character.Snapshot{}
		for s := 0; s < 40; s++ {
			enchant := rng.Intn(40)
			snap.EquippedItems = append(snap.EquippedItems, character.EquippedItem{
				SlotPosition:      s,
				EnchantLevel:      enchant,
				BreakthroughLevel: rng.Intn(8),
				Detail:            character.ItemDetail{Name: "霸龍的裝備", Grade: grades[rng.Intn(len(grades))]},
			})
		}
		for _, b := range boards {
			total := rng.Intn(120)
			snap.BoardProgress = append(snap.BoardProgress, character.BoardProgress{Name: b, OpenNodeCount: rng.Intn(150), TotalNodeCount: total})
		}
		cat := &character.CompanionCategory{TotalInGame: rng.Intn(20), AtLeastTier3Count: rng.Intn(30), AtLeastTier4Count: rng.Intn(30)}
		snap.CompanionMastery = character.CompanionMastery{Intellect: cat, Feral: cat, Nature: cat, Transform: cat}
		for a := 0; a < 20; a++ {
			snap.Abilities = append(snap.Abilities, character.Ability{Name: "x", Level: rng.Intn(40), Category: "Stigma"})
		}
		snap.Titles = character.Titles{OwnedCount: rng.Intn(800), TotalCount: rng.Intn(500)}

		result, err := engine.Score(snap, character.Toggles{})
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if result.TotalScore < 0 || result.TotalScore > 100 {
			t.Fatalf("total %v out of range", result.TotalScore)
		}
		for _, d := range result.Breakdown.Dimensions() {
			if d.NormalizedScore < 0 || d.NormalizedScore > d.MaxScore {
				t.Fatalf("%s = %v outside [0, %v]", d.Key, d.NormalizedScore, d.MaxScore)
			}
		}
	}
}
