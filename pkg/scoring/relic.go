package scoring

import (
	"math"
	"strings"

	"github.com/aionscope/aionscope/pkg/character"
)

// RelicReport is a display-only score of magic stones and amulets. It never
// contributes to the composite total.
type RelicReport struct {
	Items    []RelicItem `json:"items"`
	Total    float64     `json:"total"`
	MaxScore float64     `json:"max_score"`
}

// RelicItem is one scored relic.
type RelicItem struct {
	Name    string  `json:"name"`
	Kind    string  `json:"kind"` // "magic_stone" or "amulet"
	Enchant int     `json:"enchant"`
	Score   float64 `json:"score"`
}

// ScoreRelics builds the relic report for snap. Magic stones score their
// enchant level; amulets score base × (1 + enchant/10) with base taken from
// the quality keywords.
func (t *Tables) ScoreRelics(snap *character.Snapshot) *RelicReport {
	r := &RelicReport{MaxScore: t.Relic.Max}
	for _, it := range character.UniqueBySlot(snap.EquippedItems) {
		name := it.Detail.Name
		switch {
		case containsAny(name, t.Relic.MagicStones):
			r.Items = append(r.Items, RelicItem{Name: name, Kind: "magic_stone", Enchant: it.EnchantLevel, Score: float64(it.EnchantLevel)})
		case containsAny(name, t.Relic.Amulets):
			base := t.amuletBase(it.Detail)
			r.Items = append(r.Items, RelicItem{Name: name, Kind: "amulet", Enchant: it.EnchantLevel, Score: roundAmulet(base * (1 + float64(it.EnchantLevel)/10))})
		}
	}
	for _, it := range r.Items {
		r.Total += it.Score
	}
	if r.MaxScore > 0 {
		r.Total = math.Min(r.Total, r.MaxScore)
	}
	return r
}

func (t *Tables) amuletBase(d character.ItemDetail) float64 {
	for _, ks := range t.Relic.AmuletBase {
		if containsAny(d.Grade, ks.Keywords) || containsAny(d.Name, ks.Keywords) {
			return ks.Score
		}
	}
	return 0
}

// roundAmulet rounds down when the fractional part is at most 0.2 and up
// otherwise.
func roundAmulet(v float64) float64 {
	whole := math.Floor(v)
	if v-whole <= 0.2+1e-9 {
		return whole
	}
	return whole + 1
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
