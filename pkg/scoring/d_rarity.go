package scoring

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aionscope/aionscope/pkg/character"
)

// RarityDimension scores equipped items by rarity tier, enchant and
// breakthrough, on an exponential-growth curve.
type RarityDimension struct {
	Tables *Tables
}

func (d *RarityDimension) Key() string  { return "rarity" }
func (d *RarityDimension) Name() string { return "Equipment rarity" }

func (d *RarityDimension) Evaluate(snap *character.Snapshot, _ character.Toggles) DimensionResult {
	t := d.Tables
	result := DimensionResult{
		Key:      d.Key(),
		Name:     d.Name(),
		MaxScore: t.RarityMax,
	}

	for _, it := range character.UniqueBySlot(snap.EquippedItems) {
		if strings.TrimSpace(it.Detail.Name) == "" {
			continue
		}
		switch t.Slots.Category(it.SlotPosition) {
		case "armor", "accessory", "relic":
		default:
			continue
		}
		det := t.ScoreItem(it)
		result.RawScore += det.Score
		result.Details = append(result.Details, det)
	}

	sort.SliceStable(result.Details, func(i, j int) bool {
		return result.Details[i].Score > result.Details[j].Score
	})

	result.RawScore = round1(result.RawScore)
	if t.FullBuildTotal > 0 {
		result.NormalizedScore = clamp(round1(result.RawScore/t.FullBuildTotal*t.RarityMax), 0, t.RarityMax)
	}
	return result
}

// ScoreItem scores a single item:
//
//	base + base·(pure/cap)^e1 + base·(breakthrough/cap)^e2 + radiant·base·bonus
//
// rounded to one decimal.
func (t *Tables) ScoreItem(it character.EquippedItem) Detail {
	tier, source := t.ResolveTier(it.Detail)
	radiant := t.RadiantMarker != "" && strings.Contains(it.Detail.Name, t.RadiantMarker)
	if radiant && tier.Key == t.lowestTier().Key {
		if up := t.tier(t.RadiantTier); up != nil {
			tier, source = *up, "radiant"
		}
	}

	base := tier.Score
	pure := it.PureEnchant()
	bt := it.BreakthroughLevel
	if bt < 0 {
		bt = 0
	}

	var enchantBonus, breakBonus, radiantBonus float64
	if t.EnchantCap > 0 {
		enchantBonus = base * math.Pow(float64(pure)/t.EnchantCap, t.EnchantExponent)
	}
	if t.BreakCap > 0 {
		breakBonus = base * math.Pow(float64(bt)/t.BreakCap, t.BreakExponent)
	}
	if radiant {
		radiantBonus = base * t.RadiantBonus
	}
	score := round1(base + enchantBonus + breakBonus + radiantBonus)

	return Detail{
		Name:              it.Detail.Name,
		Summary:           fmt.Sprintf("%s +%d (breakthrough %d) %s", it.Detail.Name, pure, bt, tier.Name),
		Score:             score,
		Slot:              it.SlotPosition,
		Tier:              tier.Key,
		TierSource:        source,
		EnchantLevel:      it.EnchantLevel,
		PureEnchant:       pure,
		Breakthrough:      bt,
		Radiant:           radiant,
		BaseScore:         base,
		EnchantBonus:      round1(enchantBonus),
		BreakthroughBonus: round1(breakBonus),
		RadiantBonus:      round1(radiantBonus),
	}
}

// ResolveTier determines an item's rarity tier. Sources are tried in order:
// the item-quality table, a numeric grade, grade keywords, name keywords.
// Items no source recognizes get the lowest tier.
func (t *Tables) ResolveTier(d character.ItemDetail) (Tier, string) {
	if q, ok := t.ItemQuality[d.Name]; ok {
		if tier := t.matchKeywords(q, t.QualityKeywords); tier != nil {
			return *tier, "quality_table"
		}
	}

	grade := strings.TrimSpace(d.Grade)
	if g, err := strconv.ParseFloat(grade, 64); err == nil {
		for _, ng := range t.NumericGrades {
			if g >= ng.Min {
				if tier := t.tier(ng.Tier); tier != nil {
					return *tier, "numeric_grade"
				}
			}
		}
	} else if grade != "" {
		if tier := t.matchKeywords(grade, t.QualityKeywords); tier != nil {
			return *tier, "grade"
		}
	}

	if tier := t.matchKeywords(d.Name, t.NameKeywords); tier != nil {
		return *tier, "name"
	}
	return t.lowestTier(), "default"
}

// matchKeywords returns the highest tier whose keyword list matches s.
// ASCII keywords match case-insensitively.
func (t *Tables) matchKeywords(s string, keywords map[string][]string) *Tier {
	lower := strings.ToLower(s)
	for i := range t.Tiers {
		for _, kw := range keywords[t.Tiers[i].Key] {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return &t.Tiers[i]
			}
		}
	}
	return nil
}

func (t *Tables) lowestTier() Tier {
	if len(t.Tiers) == 0 {
		return Tier{Key: "common"}
	}
	return t.Tiers[len(t.Tiers)-1]
}
