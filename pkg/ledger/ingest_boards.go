package ledger

import (
	"github.com/aionscope/aionscope/pkg/bonustext"
	"github.com/aionscope/aionscope/pkg/character"
)

// BoardIngestor routes unlocked board node bonuses into the per-faction
// subtotals.
type BoardIngestor struct{}

func (BoardIngestor) Name() string { return "board" }

func (BoardIngestor) Ingest(l *Ledger, in *Input) {
	for _, board := range in.Snapshot.BoardProgress {
		src := BoardSource(board.Name)
		for _, b := range bonustext.ParseLines(board.UnlockedNodeEffects) {
			// Boards print some percentages as fractions ("+0.02"); every
			// other source prints points.
			if abs(b.Value) < 1 && (in.Keys.IsAlwaysPercent(b.Label) || in.Keys.IsForceFlat(b.Label)) {
				b.Value *= 100
			}
			addBonus(l, in, src, b, board.Name)
		}
	}
}

// TitleIngestor parses the bonus lines of equipped titles.
type TitleIngestor struct{}

func (TitleIngestor) Name() string { return "title" }

func (TitleIngestor) Ingest(l *Ledger, in *Input) {
	for _, b := range bonustext.ParseLines(in.Snapshot.Titles.Bonuses) {
		addBonus(l, in, SourceTitle, b, "title")
	}
}

// WingIngestor adds equip bonuses for the wing in the wing slot and held
// bonuses for every owned wing, both from the wing reference table.
type WingIngestor struct{}

func (WingIngestor) Name() string { return "wing" }

func (WingIngestor) Ingest(l *Ledger, in *Input) {
	for _, it := range character.UniqueBySlot(in.Snapshot.EquippedItems) {
		if !containsInt(in.Tables.WingSlots, it.SlotPosition) {
			continue
		}
		w, ok := in.Tables.wingFor(it.Detail.Name)
		if !ok {
			continue
		}
		for _, b := range bonustext.ParseLines(w.Equip) {
			addBonus(l, in, SourceWingEquip, b, it.Detail.Name)
		}
	}

	seen := make(map[string]bool)
	for _, name := range in.Snapshot.Wings.Owned {
		if seen[name] {
			continue
		}
		seen[name] = true
		w, ok := in.Tables.wingFor(name)
		if !ok {
			continue
		}
		for _, b := range bonustext.ParseLines(w.Held) {
			addBonus(l, in, SourceWingHeld, b, name)
		}
	}
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
