package ingestion_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/aionscope/aionscope/internal/ingestion"
	"github.com/aionscope/aionscope/internal/roster"
	"github.com/aionscope/aionscope/pkg/character"
)

type fakeStore struct {
	mu         sync.Mutex
	characters map[string]*roster.Character
	snapshots  map[string]roster.SnapshotRow
	scores     map[string]roster.ScoreRow
	updates    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		characters: make(map[string]*roster.Character),
		snapshots:  make(map[string]roster.SnapshotRow),
		scores:     make(map[string]roster.ScoreRow),
	}
}

func (f *fakeStore) UpsertCharacter(_ context.Context, p character.Profile) (*roster.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := p.ServerID + "/" + p.Name
	if c, ok := f.characters[key]; ok {
		return c, nil
	}
	c := &roster.Character{ID: fmt.Sprintf("char-%d", len(f.characters)+1), ServerID: p.ServerID, Name: p.Name, Class: p.Class, Level: p.Level}
	f.characters[key] = c
	return c, nil
}

func (f *fakeStore) InsertSnapshot(_ context.Context, row roster.SnapshotRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[row.ID] = row
	return nil
}

func (f *fakeStore) InsertScore(_ context.Context, row roster.ScoreRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores[row.ID] = row
	return nil
}

func (f *fakeStore) UpdateScore(_ context.Context, row roster.ScoreRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.scores[row.ID]; !ok {
		return fmt.Errorf("score %s not found", row.ID)
	}
	f.scores[row.ID] = row
	f.updates++
	return nil
}

func (f *fakeStore) RescoreTargets(_ context.Context, characterID string) ([]roster.RescoreTarget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []roster.RescoreTarget
	for _, sc := range f.scores {
		if characterID != "" && sc.CharacterID != characterID {
			continue
		}
		out = append(out, roster.RescoreTarget{
			ScoreID:     sc.ID,
			CharacterID: sc.CharacterID,
			SnapshotID:  sc.SnapshotID,
			SnapshotRef: f.snapshots[sc.SnapshotID].StorageRef,
			ReportRef:   sc.ReportRef,
			Toggles:     sc.Toggles,
		})
	}
	return out, nil
}

func loadFixture(t *testing.T) *character.Snapshot {
	t.Helper()
	snap, err := character.LoadSnapshot("../../testdata/snapshot.json")
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	return snap
}

func newService(t *testing.T) (*ingestion.Service, *fakeStore, *ingestion.LocalStorage) {
	t.Helper()
	store := newFakeStore()
	storage := ingestion.NewLocalStorage(t.TempDir())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ingestion.NewService(store, storage, nil, logger), store, storage
}

func TestIngest(t *testing.T) {
	svc, store, storage := newService(t)
	ctx := context.Background()

	res, err := svc.Ingest(ctx, ingestion.Request{Snapshot: loadFixture(t)})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if res.Report.Score.TotalScore != 15.0 || res.Report.Score.Grade != "E" {
		t.Errorf("score = %v/%s, want 15/E", res.Report.Score.TotalScore, res.Report.Score.Grade)
	}

	snapRow, ok := store.snapshots[res.SnapshotID]
	if !ok {
		t.Fatal("snapshot row not recorded")
	}
	if snapRow.CharacterID != res.CharacterID {
		t.Errorf("snapshot character = %s, want %s", snapRow.CharacterID, res.CharacterID)
	}
	if _, err := storage.Get(ctx, res.CharacterID, ingestion.KindSnapshot, res.SnapshotID); err != nil {
		t.Errorf("snapshot blob missing: %v", err)
	}

	scoreRow, ok := store.scores[res.ScoreID]
	if !ok {
		t.Fatal("score row not recorded")
	}
	if scoreRow.SnapshotID != res.SnapshotID || scoreRow.Grade != "E" || scoreRow.Percentage != 15 {
		t.Errorf("unexpected score row: %+v", scoreRow)
	}
	if scoreRow.ReportRef != ingestion.StorageRef(res.CharacterID, ingestion.KindReport, res.ScoreID) {
		t.Errorf("ReportRef = %q", scoreRow.ReportRef)
	}

	var breakdown map[string]json.RawMessage
	if err := json.Unmarshal(scoreRow.Breakdown, &breakdown); err != nil {
		t.Fatalf("breakdown is not JSON: %v", err)
	}
	for _, key := range []string{"rarity", "board", "companion", "ability", "title"} {
		if _, ok := breakdown[key]; !ok {
			t.Errorf("breakdown missing %s", key)
		}
	}
}

func TestIngestProfileOverride(t *testing.T) {
	svc, store, _ := newService(t)
	snap := loadFixture(t)

	res, err := svc.Ingest(context.Background(), ingestion.Request{
		Snapshot:      snap,
		ServerID:      "7",
		CharacterName: "Ariel",
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if _, ok := store.characters["7/Ariel"]; !ok {
		t.Errorf("expected character 7/Ariel, got %v", store.characters)
	}
	if res.Report.Profile.Name != "Ariel" {
		t.Errorf("report profile name = %q", res.Report.Profile.Name)
	}
	if snap.Profile.Name != "Lumiel" {
		t.Errorf("input snapshot mutated: %q", snap.Profile.Name)
	}
}

func TestIngestNilSnapshot(t *testing.T) {
	svc, _, _ := newService(t)
	if _, err := svc.Ingest(context.Background(), ingestion.Request{}); err == nil {
		t.Error("expected error for nil snapshot")
	}
}

func TestLoadReportAndSnapshot(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	res, err := svc.Ingest(ctx, ingestion.Request{Snapshot: loadFixture(t)})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	rep, err := svc.LoadReport(ctx, store.scores[res.ScoreID].ReportRef)
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if rep.Score.TotalScore != res.Report.Score.TotalScore {
		t.Errorf("loaded total = %v, want %v", rep.Score.TotalScore, res.Report.Score.TotalScore)
	}
	if len(rep.Ledger) != len(res.Report.Ledger) {
		t.Errorf("loaded %d ledger rows, want %d", len(rep.Ledger), len(res.Report.Ledger))
	}

	snap, err := svc.LoadSnapshot(ctx, store.snapshots[res.SnapshotID].StorageRef)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.Profile.ID != "c-1001" {
		t.Errorf("loaded profile = %q", snap.Profile.ID)
	}

	if _, err := svc.LoadReport(ctx, store.snapshots[res.SnapshotID].StorageRef); err == nil {
		t.Error("expected error loading a snapshot ref as a report")
	}
}

func TestRescore(t *testing.T) {
	svc, store, _ := newService(t)
	svc.WithWorkers(2)
	ctx := context.Background()

	plain, err := svc.Ingest(ctx, ingestion.Request{Snapshot: loadFixture(t)})
	if err != nil {
		t.Fatal(err)
	}
	excluded, err := svc.Ingest(ctx, ingestion.Request{
		Snapshot: loadFixture(t),
		Toggles:  character.Toggles{ExcludeBoardBonuses: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Simulate rows written by older tables.
	for _, id := range []string{plain.ScoreID, excluded.ScoreID} {
		row := store.scores[id]
		row.TotalScore = 0
		row.Grade = "F"
		store.scores[id] = row
	}

	stats, err := svc.Rescore(ctx, "")
	if err != nil {
		t.Fatalf("Rescore: %v", err)
	}
	if stats.Rescored != 2 || stats.Errors != 0 {
		t.Errorf("stats = %+v, want 2 rescored", stats)
	}
	if got := store.scores[plain.ScoreID].TotalScore; got != 15.0 {
		t.Errorf("plain total = %v, want 15", got)
	}
	if got := store.scores[excluded.ScoreID].TotalScore; got != 12.6 {
		t.Errorf("excluded total = %v, want 12.6 (toggles preserved)", got)
	}
}

func TestRescoreCountsFailures(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	res, err := svc.Ingest(ctx, ingestion.Request{Snapshot: loadFixture(t)})
	if err != nil {
		t.Fatal(err)
	}
	row := store.snapshots[res.SnapshotID]
	row.StorageRef = "snapshots/missing/none.json"
	store.snapshots[res.SnapshotID] = row

	stats, err := svc.Rescore(ctx, res.CharacterID)
	if err != nil {
		t.Fatalf("Rescore: %v", err)
	}
	if stats.Rescored != 0 || stats.Errors != 1 {
		t.Errorf("stats = %+v, want 1 error", stats)
	}
	if store.updates != 0 {
		t.Errorf("expected no updates, got %d", store.updates)
	}
}

func TestRescoreCancelled(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	if _, err := svc.Ingest(ctx, ingestion.Request{Snapshot: loadFixture(t)}); err != nil {
		t.Fatal(err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := svc.Rescore(cancelled, ""); err == nil {
		t.Error("expected error for cancelled context")
	}
}
