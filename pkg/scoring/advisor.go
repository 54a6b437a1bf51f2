package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Advise turns a breakdown into ranked suggestions. The overall
// status comes first; dimension suggestions follow, highest priority first.
func Advise(t *Tables, b Breakdown) []Suggestion {
	var out []Suggestion
	for _, d := range b.Dimensions() {
		var s Suggestion
		switch d.Key {
		case "rarity":
			s = raritySuggestion(t, d)
		case "board":
			s = boardSuggestion(d)
		case "companion":
			s = companionSuggestion(d)
		case "ability":
			s = abilitySuggestion(t, d)
		case "title":
			s = titleSuggestion(d)
		default:
			continue
		}
		s.Dimension = d.Key
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.rank() < out[j].Priority.rank()
	})

	return append([]Suggestion{overallSuggestion(b.Sum())}, out...)
}

func overallSuggestion(sum float64) Suggestion {
	s := Suggestion{Dimension: "overall"}
	switch {
	case sum >= 95:
		s.Title, s.Priority = "Peak build", PriorityNone
		s.Body = fmt.Sprintf("Total %.1f/100. Every dimension is at or near its cap.", sum)
	case sum >= 85:
		s.Title, s.Priority = "Endgame build", PriorityNone
		s.Body = fmt.Sprintf("Total %.1f/100. Only fine-tuning remains.", sum)
	case sum >= 70:
		s.Title, s.Priority = "Strong build", PriorityNone
		s.Body = fmt.Sprintf("Total %.1f/100. Follow the dimension suggestions below to close the gap.", sum)
	case sum >= 50:
		s.Title, s.Priority = "Developing build", PriorityHigh
		s.Body = fmt.Sprintf("Total %.1f/100. Focus on the highest-priority dimensions first.", sum)
	default:
		s.Title, s.Priority = "Early build", PriorityHigh
		s.Body = fmt.Sprintf("Total %.1f/100. Equipment rarity and enchant levels give the largest gains.", sum)
	}
	return s
}

type rarityCounts struct {
	total, mythic, at20, withBreak, break5 int
}

// countItems tallies the scored items, leaving out relic-named items.
func countItems(t *Tables, d DimensionResult) rarityCounts {
	var c rarityCounts
	for _, det := range d.Details {
		if containsAny(det.Name, t.RelicMarkers) {
			continue
		}
		c.total++
		if det.Tier == "mythic" {
			c.mythic++
		}
		if det.PureEnchant >= 20 {
			c.at20++
		}
		if det.Breakthrough > 0 {
			c.withBreak++
		}
		if det.Breakthrough >= 5 {
			c.break5++
		}
	}
	return c
}

func raritySuggestion(t *Tables, d DimensionResult) Suggestion {
	c := countItems(t, d)
	pct := d.Percent()
	var s Suggestion
	switch {
	case pct < 50:
		s.Title, s.Priority = "Upgrade equipment rarity", PriorityHigh
		s.Body = fmt.Sprintf("%d of %d items are mythic. Target %d mythic pieces before investing in enchants.", c.mythic, c.total, t.MythicTarget)
	case pct < 70:
		s.Title, s.Priority = "Raise enchant levels", PriorityHigh
		s.Body = fmt.Sprintf("%d of %d items are at +20. Bring the rest to +20 to unlock breakthrough.", c.at20, c.total)
	case pct < 85:
		s.Title, s.Priority = "Start breakthroughs", PriorityMedium
		s.Body = fmt.Sprintf("%d of %d items have a breakthrough level. Breakthrough levels weigh more than enchant levels.", c.withBreak, c.total)
	case pct < 95:
		s.Title, s.Priority = "Finish breakthroughs", PriorityLow
		s.Body = fmt.Sprintf("%d of %d items are at breakthrough 5.", c.break5, c.total)
	default:
		s.Title, s.Priority = "Equipment maxed", PriorityNone
		s.Body = fmt.Sprintf("%d of %d items mythic, %d at breakthrough 5.", c.mythic, c.total, c.break5)
	}
	return s
}

func boardSuggestion(d DimensionResult) Suggestion {
	var incomplete []string
	for _, det := range d.Details {
		if det.Count < det.Total {
			incomplete = append(incomplete, fmt.Sprintf("%s (%d/%d)", det.Name, det.Count, det.Total))
		}
	}
	pct := d.Percent()
	var s Suggestion
	switch {
	case d.Excluded:
		s.Title, s.Priority = "Board bonuses excluded", PriorityNone
		s.Body = "Faction boards are not counted in this pass."
	case len(d.Details) == 0:
		s.Title, s.Priority = "Unlock faction boards", PriorityHigh
		s.Body = "No faction board progress recorded. Higher-weight boards are worth more."
	case pct < 60:
		s.Title, s.Priority = "Open more board nodes", PriorityHigh
		s.Body = fmt.Sprintf("%d boards are incomplete: %s.", len(incomplete), strings.Join(incomplete, ", "))
	case pct < 80:
		s.Title, s.Priority = "Continue board progress", PriorityMedium
		s.Body = fmt.Sprintf("%d boards are incomplete: %s.", len(incomplete), strings.Join(incomplete, ", "))
	case pct < 95:
		s.Title, s.Priority = "Finish remaining boards", PriorityLow
		s.Body = fmt.Sprintf("%d boards are incomplete.", len(incomplete))
	default:
		s.Title, s.Priority = "Boards complete", PriorityNone
		s.Body = "Faction boards are at or near the cap."
	}
	return s
}

func companionSuggestion(d DimensionResult) Suggestion {
	var below []string
	for _, det := range d.Details {
		if det.Extra < det.Total {
			below = append(below, fmt.Sprintf("%s (%d/%d at tier 4)", det.Name, det.Extra, det.Total))
		}
	}
	pct := d.Percent()
	var s Suggestion
	switch {
	case pct < 50:
		s.Title, s.Priority = "Raise companion affinity", PriorityMedium
		s.Body = fmt.Sprintf("%d of 4 categories recorded. Bring every companion to tier 3 first.", len(d.Details))
	case pct < 80:
		s.Title, s.Priority = "Push companions to tier 4", PriorityMedium
		s.Body = fmt.Sprintf("Below tier 4: %s.", strings.Join(below, ", "))
	case pct < 95:
		s.Title, s.Priority = "Finish companion tiers", PriorityLow
		s.Body = fmt.Sprintf("%d categories still have companions below tier 4.", len(below))
	default:
		s.Title, s.Priority = "Companions mastered", PriorityNone
		s.Body = "Companion mastery is at or near the cap."
	}
	return s
}

func abilitySuggestion(t *Tables, d DimensionResult) Suggestion {
	pct := d.Percent()
	var s Suggestion
	switch {
	case pct < 80:
		s.Title, s.Priority = "Level up abilities", PriorityMedium
		if pct < 50 {
			s.Priority = PriorityHigh
		}
		remaining := t.AbilityKnee - d.RawScore
		if remaining > 0 {
			s.Body = fmt.Sprintf("Top %d abilities total %.0f intensity; %.0f more reaches the %.0f threshold.", len(d.Details), d.RawScore, remaining, t.AbilityKnee)
		} else {
			s.Body = fmt.Sprintf("Top %d abilities total %.0f intensity. Levels 20 and above give the most.", len(d.Details), d.RawScore)
		}
	case pct < 95:
		s.Title, s.Priority = "Push abilities to level 20", PriorityLow
		s.Body = fmt.Sprintf("Top %d abilities total %.0f intensity.", len(d.Details), d.RawScore)
	default:
		s.Title, s.Priority = "Abilities maxed", PriorityNone
		s.Body = "Ability strength is at or near the cap."
	}
	return s
}

func titleSuggestion(d DimensionResult) Suggestion {
	var owned, total, milestone int
	if len(d.Details) > 0 {
		owned, total, milestone = d.Details[0].Count, d.Details[0].Total, d.Details[0].Extra
	}
	pct := d.Percent()
	var s Suggestion
	switch {
	case pct < 80:
		s.Title, s.Priority = "Collect titles", PriorityLow
		if need := milestone - owned; need > 0 {
			s.Body = fmt.Sprintf("%d/%d titles. %d more reach the milestone of %d.", owned, total, need, milestone)
		} else {
			s.Body = fmt.Sprintf("%d/%d titles.", owned, total)
		}
	case pct < 95:
		s.Title, s.Priority = "Complete the title collection", PriorityLow
		s.Body = fmt.Sprintf("%d/%d titles.", owned, total)
	default:
		s.Title, s.Priority = "Titles complete", PriorityNone
		s.Body = fmt.Sprintf("%d/%d titles.", owned, total)
	}
	return s
}
