package scoring

import (
	"fmt"
	"math"

	"github.com/aionscope/aionscope/pkg/character"
)

// Dimension is the interface that all scoring dimensions implement.
type Dimension interface {
	// Key returns the machine-readable dimension identifier.
	Key() string
	// Name returns the human-readable dimension name.
	Name() string
	// Evaluate scores the snapshot along this dimension.
	Evaluate(snap *character.Snapshot, t character.Toggles) DimensionResult
}

// Engine runs the configured dimensions against a snapshot and produces a
// CompositeScore.
type Engine struct {
	tables     *Tables
	dimensions []Dimension
}

// NewEngine creates a scoring engine over tables. With no dimensions given it
// uses DefaultDimensions.
func NewEngine(tables Tables, dims ...Dimension) *Engine {
	t := &tables
	if len(dims) == 0 {
		dims = DefaultDimensions(t)
	}
	return &Engine{tables: t, dimensions: dims}
}

// Tables returns the engine's scoring tables.
func (e *Engine) Tables() *Tables { return e.tables }

// Score evaluates all dimensions and produces a complete CompositeScore.
func (e *Engine) Score(snap *character.Snapshot, tg character.Toggles) (*CompositeScore, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}

	result := &CompositeScore{MaxScore: 100}
	for _, d := range e.dimensions {
		dr := d.Evaluate(snap, tg)
		switch d.Key() {
		case "rarity":
			result.Breakdown.Rarity = dr
		case "board":
			result.Breakdown.Board = dr
		case "companion":
			result.Breakdown.Companion = dr
		case "ability":
			result.Breakdown.Ability = dr
		case "title":
			result.Breakdown.Title = dr
		}
	}

	result.TotalScore = clamp(round1(result.Breakdown.Sum()), 0, 100)
	result.Percentage = int(math.Min(100, math.Round(result.TotalScore)))
	band := e.tables.GradeFor(result.TotalScore)
	result.Grade, result.GradeColor = band.Grade, band.Color
	result.Suggestions = Advise(e.tables, result.Breakdown)
	result.Relic = e.tables.ScoreRelics(snap)

	return result, nil
}

// GradeFor maps a percentage to its grade band. The percentage is rounded
// before the thresholds are compared, so 89.9 grades as 90.
func (t *Tables) GradeFor(percentage float64) GradeBand {
	p := int(math.Round(percentage))
	for _, g := range t.Grades {
		if p >= g.Min {
			return g
		}
	}
	if len(t.Grades) > 0 {
		return t.Grades[len(t.Grades)-1]
	}
	return GradeBand{Grade: "F"}
}

// GradeFromPercentage maps a percentage to a letter grade using the default
// bands.
func GradeFromPercentage(percentage float64) string {
	t := Defaults()
	return t.GradeFor(percentage).Grade
}
