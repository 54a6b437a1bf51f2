package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aionscope/aionscope/internal/roster"
	"github.com/aionscope/aionscope/pkg/character"
	"github.com/aionscope/aionscope/pkg/report"
)

// DefaultRescoreWorkers bounds concurrent passes during a rescore.
const DefaultRescoreWorkers = 4

// Store is the persistence the pipeline needs. roster.Service implements it.
type Store interface {
	UpsertCharacter(ctx context.Context, p character.Profile) (*roster.Character, error)
	InsertSnapshot(ctx context.Context, row roster.SnapshotRow) error
	InsertScore(ctx context.Context, row roster.ScoreRow) error
	UpdateScore(ctx context.Context, row roster.ScoreRow) error
	RescoreTargets(ctx context.Context, characterID string) ([]roster.RescoreTarget, error)
}

// Request describes one snapshot to ingest. ServerID and CharacterName, when
// set, override the snapshot's own profile.
type Request struct {
	Snapshot      *character.Snapshot
	Toggles       character.Toggles
	ServerID      string
	CharacterName string
}

// Result identifies what an ingestion persisted.
type Result struct {
	CharacterID string         `json:"character_id"`
	SnapshotID  string         `json:"snapshot_id"`
	ScoreID     string         `json:"score_id"`
	Report      *report.Report `json:"report"`
}

// RescoreStats summarizes a rescore run.
type RescoreStats struct {
	Rescored int `json:"rescored"`
	Errors   int `json:"errors"`
}

// Service orchestrates the ingestion pipeline: store the snapshot, run one
// scoring pass, store the report and record the score.
type Service struct {
	store     Store
	storage   StorageClient
	generator *report.Generator
	logger    *slog.Logger
	workers   int
}

// NewService creates a new ingestion Service. A nil generator uses the
// built-in tables; a nil logger uses slog.Default.
func NewService(store Store, storage StorageClient, generator *report.Generator, logger *slog.Logger) *Service {
	if generator == nil {
		generator = report.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		storage:   storage,
		generator: generator,
		logger:    logger,
		workers:   DefaultRescoreWorkers,
	}
}

// WithWorkers sets the rescore concurrency. Values below one are ignored.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// Storage returns the blob store.
func (s *Service) Storage() StorageClient { return s.storage }

// Generator returns the report generator.
func (s *Service) Generator() *report.Generator { return s.generator }

// Ingest runs the full pipeline for one snapshot.
func (s *Service) Ingest(ctx context.Context, req Request) (*Result, error) {
	if req.Snapshot == nil {
		return nil, fmt.Errorf("ingest: snapshot is nil")
	}

	snap := *req.Snapshot
	if req.ServerID != "" {
		snap.Profile.ServerID = req.ServerID
	}
	if req.CharacterName != "" {
		snap.Profile.Name = req.CharacterName
	}

	char, err := s.store.UpsertCharacter(ctx, snap.Profile)
	if err != nil {
		return nil, fmt.Errorf("upsert character: %w", err)
	}

	snapshotID := uuid.NewString()
	snapData, err := json.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.storage.Put(ctx, char.ID, KindSnapshot, snapshotID, snapData); err != nil {
		return nil, fmt.Errorf("put snapshot blob: %w", err)
	}
	if err := s.store.InsertSnapshot(ctx, roster.SnapshotRow{
		ID:          snapshotID,
		CharacterID: char.ID,
		ItemCount:   len(snap.EquippedItems),
		StorageRef:  StorageRef(char.ID, KindSnapshot, snapshotID),
	}); err != nil {
		return nil, fmt.Errorf("insert snapshot row: %w", err)
	}

	rep, err := s.generator.Generate(&snap, req.Toggles)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	scoreID := uuid.NewString()
	row, err := s.persistReport(ctx, char.ID, scoreID, rep)
	if err != nil {
		return nil, err
	}
	row.SnapshotID = snapshotID
	if err := s.store.InsertScore(ctx, row); err != nil {
		return nil, fmt.Errorf("insert score row: %w", err)
	}

	s.logger.Info("snapshot ingested",
		"character_id", char.ID,
		"snapshot_id", snapshotID,
		"score_id", scoreID,
		"total_score", rep.Score.TotalScore,
		"grade", rep.Score.Grade,
	)
	return &Result{
		CharacterID: char.ID,
		SnapshotID:  snapshotID,
		ScoreID:     scoreID,
		Report:      rep,
	}, nil
}

// persistReport writes the report blob and returns the score row describing
// it. The caller fills in the snapshot ID.
func (s *Service) persistReport(ctx context.Context, characterID, scoreID string, rep *report.Report) (roster.ScoreRow, error) {
	data, err := json.Marshal(rep)
	if err != nil {
		return roster.ScoreRow{}, fmt.Errorf("marshal report: %w", err)
	}
	if err := s.storage.Put(ctx, characterID, KindReport, scoreID, data); err != nil {
		return roster.ScoreRow{}, fmt.Errorf("put report blob: %w", err)
	}

	breakdown, err := json.Marshal(rep.Score.Breakdown)
	if err != nil {
		return roster.ScoreRow{}, fmt.Errorf("marshal breakdown: %w", err)
	}
	suggestions, err := json.Marshal(rep.Score.Suggestions)
	if err != nil {
		return roster.ScoreRow{}, fmt.Errorf("marshal suggestions: %w", err)
	}
	toggles, err := json.Marshal(rep.Toggles)
	if err != nil {
		return roster.ScoreRow{}, fmt.Errorf("marshal toggles: %w", err)
	}

	return roster.ScoreRow{
		ID:          scoreID,
		CharacterID: characterID,
		TotalScore:  rep.Score.TotalScore,
		Percentage:  rep.Score.Percentage,
		Grade:       rep.Score.Grade,
		Breakdown:   breakdown,
		Suggestions: suggestions,
		Toggles:     toggles,
		ReportRef:   StorageRef(characterID, KindReport, scoreID),
	}, nil
}

// LoadSnapshot reads a stored snapshot by its storage reference.
func (s *Service) LoadSnapshot(ctx context.Context, ref string) (*character.Snapshot, error) {
	data, err := s.get(ctx, ref, KindSnapshot)
	if err != nil {
		return nil, err
	}
	return character.Decode(data)
}

// LoadReport reads a stored report by its storage reference.
func (s *Service) LoadReport(ctx context.Context, ref string) (*report.Report, error) {
	data, err := s.get(ctx, ref, KindReport)
	if err != nil {
		return nil, err
	}
	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &rep, nil
}

func (s *Service) get(ctx context.Context, ref string, want Kind) ([]byte, error) {
	characterID, kind, id, err := ParseStorageRef(ref)
	if err != nil {
		return nil, err
	}
	if kind != want {
		return nil, fmt.Errorf("storage ref %q is not a %s ref", ref, want)
	}
	return s.storage.Get(ctx, characterID, kind, id)
}

// Rescore re-runs every stored snapshot of a character (or of every
// character when characterID is empty) through the current tables and
// overwrites the score rows and report blobs. A failure on one score is
// logged and counted; cancellation stops the run.
func (s *Service) Rescore(ctx context.Context, characterID string) (RescoreStats, error) {
	targets, err := s.store.RescoreTargets(ctx, characterID)
	if err != nil {
		return RescoreStats{}, fmt.Errorf("list rescore targets: %w", err)
	}

	var rescored, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, t := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.rescoreOne(ctx, t); err != nil {
				s.logger.Warn("rescore failed", "score_id", t.ScoreID, "error", err)
				failed.Add(1)
				return nil
			}
			rescored.Add(1)
			return nil
		})
	}
	err = g.Wait()

	stats := RescoreStats{Rescored: int(rescored.Load()), Errors: int(failed.Load())}
	s.logger.Info("rescore finished", "character_id", characterID, "rescored", stats.Rescored, "errors", stats.Errors)
	return stats, err
}

func (s *Service) rescoreOne(ctx context.Context, t roster.RescoreTarget) error {
	snap, err := s.LoadSnapshot(ctx, t.SnapshotRef)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	var toggles character.Toggles
	if len(t.Toggles) > 0 {
		if err := json.Unmarshal(t.Toggles, &toggles); err != nil {
			return fmt.Errorf("unmarshal toggles: %w", err)
		}
	}

	rep, err := s.generator.Generate(snap, toggles)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	row, err := s.persistReport(ctx, t.CharacterID, t.ScoreID, rep)
	if err != nil {
		return err
	}
	row.SnapshotID = t.SnapshotID
	if err := s.store.UpdateScore(ctx, row); err != nil {
		return fmt.Errorf("update score row: %w", err)
	}
	return nil
}
