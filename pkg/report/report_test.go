package report_test

import (
	"math"
	"testing"

	"github.com/aionscope/aionscope/pkg/character"
	"github.com/aionscope/aionscope/pkg/report"
)

func fixture(t *testing.T) *character.Snapshot {
	t.Helper()
	snap, err := character.LoadSnapshot("../../testdata/snapshot.json")
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	return snap
}

func TestGenerate(t *testing.T) {
	r, err := report.Default().Generate(fixture(t), character.Toggles{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if r.Profile.ID != "c-1001" {
		t.Errorf("profile = %+v", r.Profile)
	}
	if r.Score.Grade != "E" {
		t.Errorf("grade = %s, want E", r.Score.Grade)
	}
	if len(r.Ledger) != r.Entries().Len() {
		t.Errorf("rows %d, entries %d", len(r.Ledger), r.Entries().Len())
	}
	if r.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}

	e, ok := r.Entries().Lookup("攻擊力")
	if !ok {
		t.Fatal("missing 攻擊力 entry")
	}
	if got := e.Total(r.Toggles); got != 2100 {
		t.Errorf("攻擊力 total = %v, want 2100", got)
	}
}

func TestGenerateTogglesReachBothPasses(t *testing.T) {
	g := report.Default()
	snap := fixture(t)
	tg := character.Toggles{ExcludeBoardBonuses: true}

	r, err := g.Generate(snap, tg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !r.Score.Breakdown.Board.Excluded {
		t.Error("board dimension not excluded")
	}
	e, _ := r.Entries().Lookup("攻擊力")
	if got := e.Computed(tg); math.Abs(got-1890) > 1e-9 {
		t.Errorf("攻擊力 computed = %v, want 1890", got)
	}
}

func TestGenerateDoesNotMutateSnapshot(t *testing.T) {
	snap := fixture(t)
	items, boards := len(snap.EquippedItems), len(snap.BoardProgress)

	if _, err := report.Default().Generate(snap, character.Toggles{Presets: []string{"food"}}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(snap.EquippedItems) != items || len(snap.BoardProgress) != boards {
		t.Error("snapshot was modified")
	}
}

func TestGenerateNil(t *testing.T) {
	if _, err := report.Default().Generate(nil, character.Toggles{}); err == nil {
		t.Error("expected error for nil snapshot")
	}
}
