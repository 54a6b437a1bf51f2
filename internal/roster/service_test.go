package roster

import (
	"encoding/json"
	"testing"
)

func TestCharacterStruct(t *testing.T) {
	c := Character{
		ID:       "char-uuid-1",
		ServerID: "2",
		Name:     "Lumiel",
		Level:    45,
	}

	if c.ID != "char-uuid-1" {
		t.Errorf("ID = %q, want %q", c.ID, "char-uuid-1")
	}
	if c.Class != "" {
		t.Errorf("Class = %q, want empty", c.Class)
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["class"]; ok {
		t.Error("empty class should be omitted from JSON")
	}
	if m["server_id"] != "2" {
		t.Errorf("server_id = %v, want 2", m["server_id"])
	}
}

func TestScoreRowRawJSON(t *testing.T) {
	row := ScoreRow{
		ID:        "score-1",
		Breakdown: json.RawMessage(`{"rarity":{"normalized_score":2.1}}`),
		Toggles:   json.RawMessage(`{"exclude_board_bonuses":true}`),
	}

	var toggles struct {
		ExcludeBoardBonuses bool `json:"exclude_board_bonuses"`
	}
	if err := json.Unmarshal(row.Toggles, &toggles); err != nil {
		t.Fatal(err)
	}
	if !toggles.ExcludeBoardBonuses {
		t.Error("expected toggles to decode")
	}
	if row.Suggestions != nil {
		t.Errorf("Suggestions = %s, want nil", row.Suggestions)
	}
}

func TestNewService(t *testing.T) {
	// NewService should not panic with nil db (it just stores the reference).
	svc := NewService(nil)
	if svc == nil {
		t.Fatal("NewService returned nil")
	}
}

func TestServiceMethodSet(t *testing.T) {
	// The methods need a real Postgres database; this pins their signatures.
	svc := &Service{}
	if svc.db != nil {
		t.Error("zero-value Service should have nil db")
	}

	_ = svc.UpsertCharacter
	_ = svc.GetCharacter
	_ = svc.ListCharacters
	_ = svc.InsertSnapshot
	_ = svc.GetSnapshot
	_ = svc.InsertScore
	_ = svc.UpdateScore
	_ = svc.ListScores
	_ = svc.GetScore
	_ = svc.RescoreTargets
	_ = svc.Ping
}
