package ledger

import (
	"fmt"
	"sort"

	"github.com/aionscope/aionscope/pkg/bonustext"
	"github.com/aionscope/aionscope/pkg/statkey"
)

// AbilityIngestor adds the passive bonuses of learned abilities. Each tracked
// stat is looked up in the ability's live description first and falls back
// to the reference value.
type AbilityIngestor struct{}

func (AbilityIngestor) Name() string { return "ability" }

func (AbilityIngestor) Ingest(l *Ledger, in *Input) {
	for _, ab := range in.Snapshot.Abilities {
		if ab.Level <= 0 {
			continue
		}
		for _, ts := range in.Tables.Abilities[ab.Name] {
			key := in.Keys.Normalize(ts.Stat, statkey.Infer)
			if key == "" {
				continue
			}
			percent := statkey.IsPercent(key)

			v, how := ts.Value, "reference"
			if m, ok := pickMatch(in.Text.Find(ab.Description, statkey.Base(key)), percent); ok {
				v, how = m.Value, "text"
				// Live "%" values are points; bring them to the fraction
				// domain the reference table uses.
				if percent && m.Percent {
					v /= 100
				}
			}
			if percent {
				var ok bool
				if v, ok = in.Tables.percentPoints(v); !ok {
					continue
				}
			}
			origin := fmt.Sprintf("%s Lv%d (%s)", ab.Name, ab.Level, how)
			l.Entry(key).Add(SourceAbility, v, detail(origin, v, percent))
		}
	}
}

// pickMatch prefers a match whose unit shape agrees with the expected one.
func pickMatch(ms []bonustext.Match, percent bool) (bonustext.Match, bool) {
	for _, m := range ms {
		if m.Percent == percent {
			return m, true
		}
	}
	if len(ms) > 0 {
		return ms[0], true
	}
	return bonustext.Match{}, false
}

// BuffIngestor injects the stat tables of active buff presets.
type BuffIngestor struct{}

func (BuffIngestor) Name() string { return "buff" }

func (BuffIngestor) Ingest(l *Ledger, in *Input) {
	seen := make(map[string]bool)
	for _, preset := range in.Toggles.Presets {
		table, ok := in.Tables.Presets[preset]
		if !ok || seen[preset] {
			continue
		}
		seen[preset] = true

		labels := make([]string, 0, len(table))
		for label := range table {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		origin := "preset " + preset
		for _, label := range labels {
			v := table[label]
			var key string
			switch {
			case in.Tables.GuardPowerLabel != "" && label == in.Tables.GuardPowerLabel:
				key = in.Keys.Normalize(in.Tables.GuardPowerKey, statkey.Flat)
			case in.Tables.isFlatPresetLabel(label):
				key = in.Keys.Normalize(label, statkey.Flat)
			default:
				key = in.Keys.Normalize(label, statkey.Infer)
				if statkey.IsPercent(key) {
					if v, ok = in.Tables.percentPoints(v); !ok {
						continue
					}
				}
			}
			if key == "" {
				continue
			}
			l.Entry(key).Add(SourceBuff, v, detail(origin, v, statkey.IsPercent(key)))
		}
	}
}

// ConversionIngestor derives percentage bonuses from primary attributes. A
// conversion is skipped when the target entry already credits the primary
// attribute somewhere in its trails.
type ConversionIngestor struct{}

func (ConversionIngestor) Name() string { return "conversion" }

func (ConversionIngestor) Ingest(l *Ledger, in *Input) {
	for _, c := range in.Tables.Conversions {
		pe, ok := l.Lookup(in.Keys.Normalize(c.Primary, statkey.Flat))
		if !ok {
			continue
		}
		primary := pe.Total(in.Toggles)
		if primary <= 0 || c.Ratio == 0 {
			continue
		}

		target := in.Keys.Normalize(c.Target, statkey.Infer)
		if target == "" {
			continue
		}
		if te, ok := l.Lookup(target); ok && te.Mentions(c.Primary) {
			continue
		}

		v := primary * c.Ratio
		origin := fmt.Sprintf("%s %s x%s", c.Primary, fmtNum(primary), fmtNum(c.Ratio))
		l.Entry(target).Add(SourceConversion, v, detail(origin, v, statkey.IsPercent(target)))
	}
}
