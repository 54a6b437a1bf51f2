// Package report runs one scoring pass: it builds the stat ledger and the
// composite score from the same snapshot and toggles.
package report

import (
	"fmt"
	"time"

	"github.com/aionscope/aionscope/pkg/character"
	"github.com/aionscope/aionscope/pkg/ledger"
	"github.com/aionscope/aionscope/pkg/scoring"
)

// Report is the complete output of one pass.
type Report struct {
	Profile     character.Profile       `json:"profile"`
	Toggles     character.Toggles       `json:"toggles"`
	Score       *scoring.CompositeScore `json:"score"`
	Ledger      []ledger.Row            `json:"ledger"`
	GeneratedAt time.Time               `json:"generated_at"`

	entries *ledger.Ledger
}

// Entries returns the underlying ledger.
func (r *Report) Entries() *ledger.Ledger { return r.entries }

// Generator holds the ledger builder and scoring engine for repeated passes.
// It is safe for concurrent use: both hold only read-only tables.
type Generator struct {
	builder *ledger.Builder
	engine  *scoring.Engine
	now     func() time.Time
}

// NewGenerator creates a Generator over the given tables.
func NewGenerator(lt ledger.Tables, st scoring.Tables) *Generator {
	return &Generator{
		builder: ledger.NewBuilder(lt),
		engine:  scoring.NewEngine(st),
		now:     time.Now,
	}
}

// Default creates a Generator over the built-in tables.
func Default() *Generator {
	return NewGenerator(ledger.DefaultTables(), scoring.Defaults())
}

// Generate runs the ledger and scoring passes. The two passes are independent
// and never see each other's output.
func (g *Generator) Generate(snap *character.Snapshot, t character.Toggles) (*Report, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}

	score, err := g.engine.Score(snap, t)
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}
	l := g.builder.Build(snap, t)

	return &Report{
		Profile:     snap.Profile,
		Toggles:     t,
		Score:       score,
		Ledger:      l.Rows(t),
		GeneratedAt: g.now().UTC(),
		entries:     l,
	}, nil
}

// Ledger runs the ledger pass only.
func (g *Generator) Ledger(snap *character.Snapshot, t character.Toggles) *ledger.Ledger {
	return g.builder.Build(snap, t)
}

// Score runs the scoring pass only.
func (g *Generator) Score(snap *character.Snapshot, t character.Toggles) (*scoring.CompositeScore, error) {
	return g.engine.Score(snap, t)
}
