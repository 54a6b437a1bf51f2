package scoring_test

import (
	"strings"
	"testing"

	"github.com/aionscope/aionscope/pkg/scoring"
)

func dim(key string, score, maxScore float64, details ...scoring.Detail) scoring.DimensionResult {
	return scoring.DimensionResult{Key: key, Name: key, NormalizedScore: score, MaxScore: maxScore, Details: details}
}

func breakdown(rarity, board, companion, ability, title scoring.DimensionResult) scoring.Breakdown {
	return scoring.Breakdown{Rarity: rarity, Board: board, Companion: companion, Ability: ability, Title: title}
}

func find(t *testing.T, sugs []scoring.Suggestion, dimension string) scoring.Suggestion {
	t.Helper()
	for _, s := range sugs {
		if s.Dimension == dimension {
			return s
		}
	}
	t.Fatalf("no suggestion for %s", dimension)
	return scoring.Suggestion{}
}

func TestAdviseOverallBands(t *testing.T) {
	tables := scoring.Defaults()
	tests := []struct {
		sum      float64
		title    string
		priority scoring.Priority
	}{
		{30, "Early build", scoring.PriorityHigh},
		{30 + 20, "Developing build", scoring.PriorityHigh},
		{30 + 40, "Strong build", scoring.PriorityNone},
		{30 + 55, "Endgame build", scoring.PriorityNone},
		{30 + 65, "Peak build", scoring.PriorityNone},
	}
	for _, tt := range tests {
		b := breakdown(
			dim("rarity", 30, 30),
			dim("board", 0, 15),
			dim("companion", 0, 20),
			dim("ability", 0, 30),
			dim("title", 0, 5),
		)
		rest := tt.sum - 30
		for _, d := range []*scoring.DimensionResult{&b.Ability, &b.Companion, &b.Board, &b.Title} {
			take := rest
			if take > d.MaxScore {
				take = d.MaxScore
			}
			d.NormalizedScore = take
			rest -= take
		}

		sugs := scoring.Advise(&tables, b)
		if sugs[0].Dimension != "overall" || sugs[0].Title != tt.title || sugs[0].Priority != tt.priority {
			t.Errorf("sum %v: got %q/%s, want %q/%s", tt.sum, sugs[0].Title, sugs[0].Priority, tt.title, tt.priority)
		}
	}
}

func TestAdviseSortsByPriority(t *testing.T) {
	tables := scoring.Defaults()
	b := breakdown(
		dim("rarity", 30, 30),
		dim("board", 0, 15),
		dim("companion", 10, 20),
		dim("ability", 20, 30),
		dim("title", 5, 5, scoring.Detail{Count: 400, Total: 400, Extra: 200}),
	)
	sugs := scoring.Advise(&tables, b)
	if len(sugs) != 6 {
		t.Fatalf("expected 6 suggestions, got %d", len(sugs))
	}
	rank := map[scoring.Priority]int{scoring.PriorityHigh: 0, scoring.PriorityMedium: 1, scoring.PriorityLow: 2, scoring.PriorityNone: 3}
	for i := 2; i < len(sugs); i++ {
		if rank[sugs[i-1].Priority] > rank[sugs[i].Priority] {
			t.Errorf("suggestions out of order at %d: %s before %s", i, sugs[i-1].Priority, sugs[i].Priority)
		}
	}
	if sugs[1].Dimension != "board" {
		t.Errorf("expected board first, got %s", sugs[1].Dimension)
	}
	if sugs[len(sugs)-1].Dimension != "title" {
		t.Errorf("expected title last, got %s", sugs[len(sugs)-1].Dimension)
	}
}

func TestAdviseRarityCountsSkipRelics(t *testing.T) {
	tables := scoring.Defaults()
	b := breakdown(
		dim("rarity", 5, 30,
			scoring.Detail{Name: "霸龍的大劍", Tier: "mythic"},
			scoring.Detail{Name: "天龍的頭盔", Tier: "legendary"},
			scoring.Detail{Name: "激戰古文石", Tier: "mythic"},
		),
		dim("board", 0, 15), dim("companion", 0, 20), dim("ability", 0, 30), dim("title", 0, 5),
	)
	s := find(t, scoring.Advise(&tables, b), "rarity")
	if s.Title != "Upgrade equipment rarity" || s.Priority != scoring.PriorityHigh {
		t.Errorf("got %q/%s", s.Title, s.Priority)
	}
	if !strings.HasPrefix(s.Body, "1 of 2 items are mythic") {
		t.Errorf("unexpected body: %s", s.Body)
	}
}

func TestAdviseEnchantCountsPureEnchant(t *testing.T) {
	tables := scoring.Defaults()
	b := breakdown(
		dim("rarity", 18, 30,
			scoring.Detail{Name: "霸龍的大劍", Tier: "mythic", EnchantLevel: 20, PureEnchant: 17, Breakthrough: 3},
			scoring.Detail{Name: "霸龍的頭盔", Tier: "mythic", EnchantLevel: 23, PureEnchant: 20, Breakthrough: 3},
			scoring.Detail{Name: "霸龍的手套", Tier: "mythic", EnchantLevel: 20, PureEnchant: 20},
		),
		dim("board", 0, 15), dim("companion", 0, 20), dim("ability", 0, 30), dim("title", 0, 5),
	)
	s := find(t, scoring.Advise(&tables, b), "rarity")
	if s.Title != "Raise enchant levels" {
		t.Fatalf("got %q", s.Title)
	}
	if !strings.HasPrefix(s.Body, "2 of 3 items are at +20") {
		t.Errorf("unexpected body: %s", s.Body)
	}
}

func TestAdviseBoards(t *testing.T) {
	tables := scoring.Defaults()
	empty := func(b scoring.DimensionResult) scoring.Breakdown {
		return breakdown(dim("rarity", 0, 30), b, dim("companion", 0, 20), dim("ability", 0, 30), dim("title", 0, 5))
	}

	excluded := dim("board", 0, 15)
	excluded.Excluded = true
	if s := find(t, scoring.Advise(&tables, empty(excluded)), "board"); s.Title != "Board bonuses excluded" || s.Priority != scoring.PriorityNone {
		t.Errorf("excluded: got %q/%s", s.Title, s.Priority)
	}

	if s := find(t, scoring.Advise(&tables, empty(dim("board", 0, 15))), "board"); s.Title != "Unlock faction boards" {
		t.Errorf("no boards: got %q", s.Title)
	}

	partial := dim("board", 3, 15, scoring.Detail{Name: "阿斯佩爾", Count: 10, Total: 100})
	s := find(t, scoring.Advise(&tables, empty(partial)), "board")
	if s.Title != "Open more board nodes" || !strings.Contains(s.Body, "阿斯佩爾 (10/100)") {
		t.Errorf("partial: got %q %q", s.Title, s.Body)
	}
}

func TestAdviseTitleMilestone(t *testing.T) {
	tables := scoring.Defaults()
	b := breakdown(dim("rarity", 0, 30), dim("board", 0, 15), dim("companion", 0, 20), dim("ability", 0, 30),
		dim("title", 2, 5, scoring.Detail{Count: 100, Total: 400, Extra: 200}))
	s := find(t, scoring.Advise(&tables, b), "title")
	if s.Body != "100/400 titles. 100 more reach the milestone of 200." {
		t.Errorf("unexpected body: %s", s.Body)
	}
}

func TestAdviseAbilityThreshold(t *testing.T) {
	tables := scoring.Defaults()
	ability := dim("ability", 2.7, 30, scoring.Detail{Name: "猛烈一擊", Level: 12, Score: 45})
	ability.RawScore = 45
	b := breakdown(dim("rarity", 0, 30), dim("board", 0, 15), dim("companion", 0, 20), ability, dim("title", 0, 5))
	s := find(t, scoring.Advise(&tables, b), "ability")
	if s.Priority != scoring.PriorityHigh || !strings.Contains(s.Body, "355 more reaches the 400 threshold") {
		t.Errorf("got %s %q", s.Priority, s.Body)
	}
}
