// Package ledger reconciles one attribute arriving from many sources into a
// single canonical entry per key. A Ledger is an explicit accumulator: it is
// created per pass, threaded through every ingestor, and discarded after the
// caller reads it.
package ledger

import (
	"strings"

	"github.com/aionscope/aionscope/pkg/character"
)

// Source identifies one contribution category of an entry.
type Source uint8

const (
	SourceEquipBase Source = iota
	SourceEquipRandom
	SourceSet
	SourceBoardNezakan
	SourceBoardZikel
	SourceBoardVaizel
	SourceBoardTriniel
	SourceBoardMarchutan
	SourceBoardAriel
	SourceBoardAzphel
	SourceBoardOther
	SourceTitle
	SourceWingEquip
	SourceWingHeld
	SourceGodStone
	SourceAbility
	SourceBuff
	SourceConversion

	SourceCount
)

var sourceNames = [SourceCount]string{
	SourceEquipBase:      "equip_base",
	SourceEquipRandom:    "equip_random",
	SourceSet:            "set",
	SourceBoardNezakan:   "board_nezakan",
	SourceBoardZikel:     "board_zikel",
	SourceBoardVaizel:    "board_vaizel",
	SourceBoardTriniel:   "board_triniel",
	SourceBoardMarchutan: "board_marchutan",
	SourceBoardAriel:     "board_ariel",
	SourceBoardAzphel:    "board_azphel",
	SourceBoardOther:     "board_other",
	SourceTitle:          "title",
	SourceWingEquip:      "wing_equip",
	SourceWingHeld:       "wing_held",
	SourceGodStone:       "god_stone",
	SourceAbility:        "ability",
	SourceBuff:           "buff",
	SourceConversion:     "conversion",
}

func (s Source) String() string {
	if s < SourceCount {
		return sourceNames[s]
	}
	return "unknown"
}

// IsBoard reports whether s is one of the faction-board sources.
func (s Source) IsBoard() bool {
	return s >= SourceBoardNezakan && s <= SourceBoardOther
}

// Entry is the reconciled record for one canonical key.
type Entry struct {
	Key string
	// Official is the value from the snapshot's attribute summary, if any.
	Official *float64
	// Subtotals holds one running sum per source.
	Subtotals [SourceCount]float64
	// Details records, per source, which concrete source contributed how much.
	Details [SourceCount][]string
	// OfficialTrail holds the summary's own breakdown lines.
	OfficialTrail []string
}

// Add accumulates v into the subtotal for src and records detail.
func (e *Entry) Add(src Source, v float64, detail string) {
	e.Subtotals[src] += v
	if detail != "" {
		e.Details[src] = append(e.Details[src], detail)
	}
}

// SetOfficial records the authoritative summary value.
func (e *Entry) SetOfficial(v float64) {
	e.Official = &v
}

// Computed returns the sum of subtotals, without board sources when boards
// are excluded.
func (e *Entry) Computed(t character.Toggles) float64 {
	var sum float64
	for s := Source(0); s < SourceCount; s++ {
		if t.ExcludeBoardBonuses && s.IsBoard() {
			continue
		}
		sum += e.Subtotals[s]
	}
	return sum
}

// Total returns the value displayed for the entry. The official value wins
// when it is higher than the computed sum; excluding boards always recomputes
// from subtotals.
func (e *Entry) Total(t character.Toggles) float64 {
	computed := e.Computed(t)
	if t.ExcludeBoardBonuses || e.Official == nil {
		return computed
	}
	if *e.Official > computed {
		return *e.Official
	}
	return computed
}

// Unattributed is the part of the displayed total no source accounts for.
// Computed(t) + Unattributed(t) == Total(t) always holds.
func (e *Entry) Unattributed(t character.Toggles) float64 {
	return e.Total(t) - e.Computed(t)
}

// Mentions reports whether any detail or official trail line contains s.
func (e *Entry) Mentions(s string) bool {
	for _, lines := range e.Details {
		for _, l := range lines {
			if strings.Contains(l, s) {
				return true
			}
		}
	}
	for _, l := range e.OfficialTrail {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

// Ledger maps canonical keys to entries, remembering insertion order.
type Ledger struct {
	entries map[string]*Entry
	keys    []string
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[string]*Entry)}
}

// Entry returns the entry for key, allocating a zeroed one on first use.
func (l *Ledger) Entry(key string) *Entry {
	if e, ok := l.entries[key]; ok {
		return e
	}
	e := &Entry{Key: key}
	l.entries[key] = e
	l.keys = append(l.keys, key)
	return e
}

// Lookup returns the entry for key without creating it.
func (l *Ledger) Lookup(key string) (*Entry, bool) {
	e, ok := l.entries[key]
	return e, ok
}

// Keys returns keys in insertion order.
func (l *Ledger) Keys() []string {
	out := make([]string, len(l.keys))
	copy(out, l.keys)
	return out
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.keys) }

// Row is the display view of an entry under a set of toggles.
type Row struct {
	Key          string              `json:"key"`
	Total        float64             `json:"total"`
	Official     *float64            `json:"official,omitempty"`
	Unattributed float64             `json:"unattributed,omitempty"`
	Subtotals    map[string]float64  `json:"subtotals,omitempty"`
	Details      map[string][]string `json:"details,omitempty"`
	Trail        []string            `json:"official_trail,omitempty"`
}

// Rows renders every entry, in insertion order. Zero subtotals are omitted.
func (l *Ledger) Rows(t character.Toggles) []Row {
	rows := make([]Row, 0, len(l.keys))
	for _, k := range l.keys {
		e := l.entries[k]
		r := Row{
			Key:          k,
			Total:        round2(e.Total(t)),
			Official:     e.Official,
			Unattributed: round2(e.Unattributed(t)),
			Trail:        e.OfficialTrail,
		}
		for s := Source(0); s < SourceCount; s++ {
			if e.Subtotals[s] != 0 {
				if r.Subtotals == nil {
					r.Subtotals = make(map[string]float64)
				}
				r.Subtotals[s.String()] = round2(e.Subtotals[s])
			}
			if len(e.Details[s]) > 0 {
				if r.Details == nil {
					r.Details = make(map[string][]string)
				}
				r.Details[s.String()] = e.Details[s]
			}
		}
		rows = append(rows, r)
	}
	return rows
}
