package ledger

import (
	"fmt"

	"github.com/aionscope/aionscope/pkg/bonustext"
	"github.com/aionscope/aionscope/pkg/character"
	"github.com/aionscope/aionscope/pkg/statkey"
)

// OfficialIngestor records the authoritative attribute summary. It writes no
// subtotals, only official totals and their breakdown trail.
type OfficialIngestor struct{}

func (OfficialIngestor) Name() string { return "official" }

func (OfficialIngestor) Ingest(l *Ledger, in *Input) {
	for _, row := range in.Snapshot.AttributeSummary {
		sv, ok := bonustext.SplitStatValue(row.Value.String())
		if !ok {
			continue
		}
		trail := row.SecondaryBreakdown
		if sv.HasFlat {
			if key := in.Keys.Normalize(row.Name, statkey.Infer); key != "" {
				e := l.Entry(key)
				e.SetOfficial(sv.Flat)
				e.OfficialTrail = append(e.OfficialTrail, trail...)
				trail = nil
			}
		}
		if sv.HasPercent {
			if key := in.Keys.Normalize(row.Name, statkey.Percent); key != "" {
				e := l.Entry(key)
				e.SetOfficial(sv.Percent)
				e.OfficialTrail = append(e.OfficialTrail, trail...)
			}
		}
	}
}

// EquipmentIngestor adds item main stats to the base subtotal and random
// stats to the random subtotal.
type EquipmentIngestor struct{}

func (EquipmentIngestor) Name() string { return "equipment" }

func (EquipmentIngestor) Ingest(l *Ledger, in *Input) {
	for _, it := range character.UniqueBySlot(in.Snapshot.EquippedItems) {
		addItemStats(l, in, SourceEquipBase, it.Detail.MainStats, it.Detail.Name)
		addItemStats(l, in, SourceEquipRandom, it.Detail.RandomStats, it.Detail.Name)
	}
}

// SocketIngestor adds socketed stone stats to the random subtotal.
type SocketIngestor struct{}

func (SocketIngestor) Name() string { return "socket" }

func (SocketIngestor) Ingest(l *Ledger, in *Input) {
	for _, it := range character.UniqueBySlot(in.Snapshot.EquippedItems) {
		addItemStats(l, in, SourceEquipRandom, it.Detail.SocketedStones, it.Detail.Name+" (socket)")
	}
}

// addItemStats splits each printed value into its flat and bracket-percent
// parts and keys them independently. The flat part is only percent when its
// own label says so.
func addItemStats(l *Ledger, in *Input, src Source, stats []character.Stat, origin string) {
	for _, st := range stats {
		sv, ok := bonustext.SplitStatValue(st.Value.String())
		if !ok {
			continue
		}
		if sv.HasFlat {
			if key := in.Keys.Normalize(st.Name, statkey.Infer); key != "" {
				l.Entry(key).Add(src, sv.Flat, detail(origin, sv.Flat, statkey.IsPercent(key)))
			}
		}
		if sv.HasPercent {
			if key := in.Keys.Normalize(st.Name, statkey.Percent); key != "" {
				l.Entry(key).Add(src, sv.Percent, detail(origin, sv.Percent, statkey.IsPercent(key)))
			}
		}
	}
}

// GodStoneIngestor parses god-stone effect lines.
type GodStoneIngestor struct{}

func (GodStoneIngestor) Name() string { return "god_stone" }

func (GodStoneIngestor) Ingest(l *Ledger, in *Input) {
	for _, it := range character.UniqueBySlot(in.Snapshot.EquippedItems) {
		gs := it.Detail.GodStone
		if gs == nil {
			continue
		}
		origin := gs.Name
		if origin == "" {
			origin = it.Detail.Name
		}
		for _, b := range bonustext.ParseLines(gs.Effects) {
			addBonus(l, in, SourceGodStone, b, origin)
		}
	}
}

// SetIngestor adds the bonuses of every set tier whose piece count is met.
type SetIngestor struct{}

func (SetIngestor) Name() string { return "set" }

func (SetIngestor) Ingest(l *Ledger, in *Input) {
	var order []string
	counts := make(map[string]int)
	tiers := make(map[string][]character.SetTier)

	for _, it := range character.UniqueBySlot(in.Snapshot.EquippedItems) {
		set := it.Detail.Set
		if set == nil || set.Name == "" {
			continue
		}
		if counts[set.Name] == 0 {
			order = append(order, set.Name)
		}
		counts[set.Name]++
		// Items of one set may list tiers unevenly; keep the fullest list.
		if len(set.Tiers) > len(tiers[set.Name]) {
			tiers[set.Name] = set.Tiers
		}
	}

	for _, name := range order {
		for _, tier := range tiers[name] {
			if tier.Required <= 0 || tier.Required > counts[name] {
				continue
			}
			origin := fmt.Sprintf("%s (%d pc)", name, tier.Required)
			for _, b := range bonustext.ParseLines(tier.Bonuses) {
				addBonus(l, in, SourceSet, b, origin)
			}
		}
	}
}
