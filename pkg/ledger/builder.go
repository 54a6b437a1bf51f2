package ledger

import (
	"math"
	"strconv"

	"github.com/aionscope/aionscope/pkg/bonustext"
	"github.com/aionscope/aionscope/pkg/character"
	"github.com/aionscope/aionscope/pkg/statkey"
)

// Ingestor reads one slice of a snapshot and writes into the ledger.
type Ingestor interface {
	// Name returns a short identifier for the source category.
	Name() string
	// Ingest adds the category's contributions to l.
	Ingest(l *Ledger, in *Input)
}

// Input is everything an ingestor may read during one pass.
type Input struct {
	Snapshot *character.Snapshot
	Toggles  character.Toggles
	Tables   *Tables
	Keys     *statkey.Normalizer
	Text     *bonustext.Matcher
}

// Builder runs ingestors in order over a fresh ledger.
type Builder struct {
	tables    Tables
	keys      *statkey.Normalizer
	text      *bonustext.Matcher
	ingestors []Ingestor
}

// NewBuilder creates a Builder over tables. With no ingestors given it uses
// DefaultIngestors.
func NewBuilder(tables Tables, ingestors ...Ingestor) *Builder {
	if len(ingestors) == 0 {
		ingestors = DefaultIngestors()
	}
	return &Builder{
		tables:    tables,
		keys:      statkey.New(tables.Keys),
		text:      bonustext.NewMatcher(tables.Aliases),
		ingestors: ingestors,
	}
}

// DefaultIngestors returns every ingestor in pass order. The official summary
// runs first so later ingestors can consult official totals; conversions run
// last so they see every other contribution.
func DefaultIngestors() []Ingestor {
	return []Ingestor{
		OfficialIngestor{},
		EquipmentIngestor{},
		SocketIngestor{},
		GodStoneIngestor{},
		SetIngestor{},
		BoardIngestor{},
		TitleIngestor{},
		WingIngestor{},
		AbilityIngestor{},
		BuffIngestor{},
		ConversionIngestor{},
	}
}

// Build runs a full pass. The snapshot is not modified; the returned ledger
// is owned by the caller.
func (b *Builder) Build(snap *character.Snapshot, t character.Toggles) *Ledger {
	l := New()
	if snap == nil {
		return l
	}
	in := &Input{
		Snapshot: snap,
		Toggles:  t,
		Tables:   &b.tables,
		Keys:     b.keys,
		Text:     b.text,
	}
	for _, ing := range b.ingestors {
		ing.Ingest(l, in)
	}
	return l
}

// Normalizer returns the key normalizer built from the tables.
func (b *Builder) Normalizer() *statkey.Normalizer { return b.keys }

func hintFor(percent bool) statkey.Hint {
	if percent {
		return statkey.Percent
	}
	return statkey.Infer
}

// addBonus normalizes a parsed bonus line and adds it under src.
func addBonus(l *Ledger, in *Input, src Source, b bonustext.Bonus, origin string) {
	key := in.Keys.Normalize(b.Label, hintFor(b.Percent))
	if key == "" {
		return
	}
	l.Entry(key).Add(src, b.Value, detail(origin, b.Value, statkey.IsPercent(key)))
}

func detail(origin string, v float64, percent bool) string {
	s := origin + " "
	if v >= 0 {
		s += "+"
	}
	s += fmtNum(v)
	if percent {
		s += "%"
	}
	return s
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
