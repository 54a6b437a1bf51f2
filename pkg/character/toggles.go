package character

// Toggles are the user-controlled switches for one scoring pass. The value is
// passed explicitly into every pass and never mutated by the engine.
type Toggles struct {
	// ExcludeBoardBonuses drops faction-board subtotals from displayed ledger
	// totals and zeroes the board dimension of the composite score.
	ExcludeBoardBonuses bool `json:"exclude_board_bonuses"`
	// Presets names the buff presets whose stat tables are injected.
	Presets []string `json:"presets,omitempty"`
}

// PresetActive reports whether the named preset is switched on.
func (t Toggles) PresetActive(name string) bool {
	for _, p := range t.Presets {
		if p == name {
			return true
		}
	}
	return false
}
