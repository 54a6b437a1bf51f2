package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aionscope/aionscope/pkg/character"
)

// BoardDimension scores faction-board completion weighted by board
// difficulty.
type BoardDimension struct {
	Tables *Tables
}

func (d *BoardDimension) Key() string  { return "board" }
func (d *BoardDimension) Name() string { return "Faction boards" }

func (d *BoardDimension) Evaluate(snap *character.Snapshot, tg character.Toggles) DimensionResult {
	t := d.Tables
	result := DimensionResult{
		Key:      d.Key(),
		Name:     d.Name(),
		MaxScore: t.BoardMax,
	}
	if tg.ExcludeBoardBonuses {
		result.Excluded = true
		return result
	}

	var raw float64
	for _, b := range snap.BoardProgress {
		if b.TotalNodeCount <= 0 {
			continue
		}
		w := t.BoardWeight(b.Name)
		ratio := float64(b.OpenNodeCount) / float64(b.TotalNodeCount)
		c := ratio * w
		raw += c
		result.Details = append(result.Details, Detail{
			Name:    b.Name,
			Summary: fmt.Sprintf("%s %d/%d nodes (weight %.1f)", b.Name, b.OpenNodeCount, b.TotalNodeCount, w),
			Score:   round1(c),
			Count:   b.OpenNodeCount,
			Total:   b.TotalNodeCount,
			Ratio:   ratio,
		})
	}

	result.RawScore = round1(raw)
	result.NormalizedScore = clamp(round1(raw), 0, t.BoardMax)
	return result
}

// BoardWeight returns the difficulty weight for a board name.
func (t *Tables) BoardWeight(name string) float64 {
	for _, bw := range t.BoardWeights {
		if bw.Name != "" && strings.Contains(name, bw.Name) {
			return bw.Weight
		}
	}
	return t.DefaultBoardWeight
}

// CompanionDimension scores tier-3 and tier-4 achievement across companion
// categories. Each category holds two share points.
type CompanionDimension struct {
	Tables *Tables
}

func (d *CompanionDimension) Key() string  { return "companion" }
func (d *CompanionDimension) Name() string { return "Companion mastery" }

func (d *CompanionDimension) Evaluate(snap *character.Snapshot, _ character.Toggles) DimensionResult {
	t := d.Tables
	result := DimensionResult{
		Key:      d.Key(),
		Name:     d.Name(),
		MaxScore: t.CompanionMax,
	}

	var shares float64
	for _, nc := range snap.CompanionMastery.Categories() {
		c := nc.Category
		if c == nil || c.TotalInGame <= 0 {
			continue
		}
		total := float64(c.TotalInGame)
		s := math.Min(1, float64(c.AtLeastTier3Count)/total) + math.Min(1, float64(c.AtLeastTier4Count)/total)
		shares += s
		result.Details = append(result.Details, Detail{
			Name:    nc.Name,
			Summary: fmt.Sprintf("%s: %d/%d at tier 3, %d/%d at tier 4", nc.Name, c.AtLeastTier3Count, c.TotalInGame, c.AtLeastTier4Count, c.TotalInGame),
			Score:   s,
			Count:   c.AtLeastTier3Count,
			Extra:   c.AtLeastTier4Count,
			Total:   c.TotalInGame,
		})
	}

	result.RawScore = shares
	if t.CompanionShares > 0 {
		result.NormalizedScore = clamp(round1(shares/t.CompanionShares*t.CompanionMax), 0, t.CompanionMax)
	}
	return result
}

// AbilityDimension scores the strongest abilities by stepped intensity.
type AbilityDimension struct {
	Tables *Tables
}

func (d *AbilityDimension) Key() string  { return "ability" }
func (d *AbilityDimension) Name() string { return "Ability strength" }

func (d *AbilityDimension) Evaluate(snap *character.Snapshot, _ character.Toggles) DimensionResult {
	t := d.Tables
	result := DimensionResult{
		Key:      d.Key(),
		Name:     d.Name(),
		MaxScore: t.AbilityMax,
	}

	var eligible []character.Ability
	for _, ab := range snap.Abilities {
		if ab.Level <= 0 || t.abilityExcluded(ab.Category) {
			continue
		}
		eligible = append(eligible, ab)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Level > eligible[j].Level
	})
	if t.AbilityTopN > 0 && len(eligible) > t.AbilityTopN {
		eligible = eligible[:t.AbilityTopN]
	}

	var intensity float64
	for _, ab := range eligible {
		i := t.Intensity(ab.Level)
		intensity += i
		result.Details = append(result.Details, Detail{
			Name:    ab.Name,
			Summary: fmt.Sprintf("%s Lv%d (intensity %.0f)", ab.Name, ab.Level, i),
			Score:   i,
			Level:   ab.Level,
		})
	}

	result.RawScore = intensity
	result.NormalizedScore = clamp(round1(t.IntensityScore(intensity)), 0, t.AbilityMax)
	return result
}

// Intensity maps an ability level to its stepped intensity.
func (t *Tables) Intensity(level int) float64 {
	for _, s := range t.AbilitySteps {
		if level >= s.MinLevel {
			return s.Intensity
		}
	}
	return 0
}

// IntensityScore is piecewise linear: steep up to the knee, shallow after.
func (t *Tables) IntensityScore(intensity float64) float64 {
	if t.AbilityKnee <= 0 {
		return 0
	}
	if intensity <= t.AbilityKnee {
		return intensity / t.AbilityKnee * t.AbilityKneeScore
	}
	tail := t.AbilityMax - t.AbilityKneeScore
	if t.AbilityTailSpan <= 0 {
		return t.AbilityKneeScore + tail
	}
	return t.AbilityKneeScore + (intensity-t.AbilityKnee)/t.AbilityTailSpan*tail
}

func (t *Tables) abilityExcluded(category string) bool {
	for _, c := range t.AbilityExcluded {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// TitleDimension scores the title collection on a milestone curve.
type TitleDimension struct {
	Tables *Tables
}

func (d *TitleDimension) Key() string  { return "title" }
func (d *TitleDimension) Name() string { return "Title collection" }

func (d *TitleDimension) Evaluate(snap *character.Snapshot, _ character.Toggles) DimensionResult {
	t := d.Tables
	result := DimensionResult{
		Key:      d.Key(),
		Name:     d.Name(),
		MaxScore: t.TitleMax,
	}

	owned := snap.Titles.OwnedCount
	total, milestone := t.TitleMilestone(snap.Titles.TotalCount)

	var score float64
	switch {
	case owned <= 0:
	case owned <= milestone:
		score = float64(owned) / float64(milestone) * t.TitleMilestoneScore
	case total > milestone:
		score = t.TitleMilestoneScore + float64(owned-milestone)/float64(total-milestone)*(t.TitleMax-t.TitleMilestoneScore)
	default:
		score = t.TitleMax
	}

	result.RawScore = float64(owned)
	result.NormalizedScore = clamp(round1(score), 0, t.TitleMax)
	result.Details = []Detail{{
		Name:    "titles",
		Summary: fmt.Sprintf("%d/%d titles (milestone %d)", owned, total, milestone),
		Score:   result.NormalizedScore,
		Count:   owned,
		Total:   total,
		Extra:   milestone,
	}}
	return result
}

// TitleMilestone returns the reference total (defaulted when absent) and the
// milestone count.
func (t *Tables) TitleMilestone(totalCount int) (total, milestone int) {
	total = totalCount
	if total <= 0 {
		total = t.TitleDefaultTotal
	}
	milestone = int(math.Floor(float64(total) * t.TitleMilestoneRatio))
	return total, milestone
}
