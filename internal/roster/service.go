// Package roster manages tracked characters and their score history,
// backed by Postgres.
package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aionscope/aionscope/pkg/character"
)

// Service provides character and score-history management backed by Postgres.
type Service struct {
	db *sql.DB
}

// Character is one tracked character, unique per server and name.
type Character struct {
	ID        string    `json:"id"`
	ServerID  string    `json:"server_id"`
	Name      string    `json:"name"`
	Class     string    `json:"class,omitempty"`
	Level     int       `json:"level,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SnapshotRow is snapshot metadata from the database.
type SnapshotRow struct {
	ID          string
	CharacterID string
	ItemCount   int
	StorageRef  string
	CreatedAt   time.Time
}

// ScoreRow is one score record from the database.
type ScoreRow struct {
	ID          string
	CharacterID string
	SnapshotID  string
	TotalScore  float64
	Percentage  int
	Grade       string
	Breakdown   json.RawMessage
	Suggestions json.RawMessage
	Toggles     json.RawMessage
	ReportRef   string
	CreatedAt   time.Time
}

// RescoreTarget is a score row with the storage reference of the snapshot it
// was computed from.
type RescoreTarget struct {
	ScoreID     string
	CharacterID string
	SnapshotID  string
	SnapshotRef string
	ReportRef   string
	Toggles     json.RawMessage
}

// NewService creates a new roster Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// UpsertCharacter creates or refreshes the character a profile names.
func (s *Service) UpsertCharacter(ctx context.Context, p character.Profile) (*Character, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("upsert character: profile has no name")
	}
	c := &Character{}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO characters (server_id, name, class, level)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (server_id, name) DO UPDATE
		   SET class = COALESCE(NULLIF(EXCLUDED.class, ''), characters.class),
		       level = GREATEST(EXCLUDED.level, characters.level),
		       updated_at = now()
		 RETURNING id, server_id, name, class, level, created_at, updated_at`,
		p.ServerID, p.Name, p.Class, p.Level,
	).Scan(&c.ID, &c.ServerID, &c.Name, &c.Class, &c.Level, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert character %s/%s: %w", p.ServerID, p.Name, err)
	}
	return c, nil
}

// GetCharacter retrieves a character by ID.
func (s *Service) GetCharacter(ctx context.Context, id string) (*Character, error) {
	c := &Character{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, server_id, name, class, level, created_at, updated_at
		 FROM characters WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.ServerID, &c.Name, &c.Class, &c.Level, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get character %s: %w", id, err)
	}
	return c, nil
}

// ListCharacters returns all tracked characters ordered by server and name.
func (s *Service) ListCharacters(ctx context.Context) ([]Character, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, server_id, name, class, level, created_at, updated_at
		 FROM characters ORDER BY server_id, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var out []Character
	for rows.Next() {
		var c Character
		if err := rows.Scan(&c.ID, &c.ServerID, &c.Name, &c.Class, &c.Level, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// InsertSnapshot records snapshot metadata.
func (s *Service) InsertSnapshot(ctx context.Context, row SnapshotRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, character_id, item_count, storage_ref)
		 VALUES ($1, $2, $3, $4)`,
		row.ID, row.CharacterID, row.ItemCount, row.StorageRef,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", row.ID, err)
	}
	return nil
}

// GetSnapshot returns snapshot metadata by ID.
func (s *Service) GetSnapshot(ctx context.Context, id string) (*SnapshotRow, error) {
	sn := &SnapshotRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, character_id, item_count, storage_ref, created_at
		 FROM snapshots WHERE id = $1`,
		id,
	).Scan(&sn.ID, &sn.CharacterID, &sn.ItemCount, &sn.StorageRef, &sn.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", id, err)
	}
	return sn, nil
}

// InsertScore records a score row. The row ID is chosen by the caller.
func (s *Service) InsertScore(ctx context.Context, row ScoreRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (id, character_id, snapshot_id, total_score, percentage, grade, breakdown, suggestions, toggles, report_ref)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		row.ID, row.CharacterID, row.SnapshotID, row.TotalScore, row.Percentage, row.Grade,
		[]byte(row.Breakdown), []byte(row.Suggestions), []byte(row.Toggles), row.ReportRef,
	)
	if err != nil {
		return fmt.Errorf("insert score %s: %w", row.ID, err)
	}
	return nil
}

// UpdateScore replaces the computed columns of an existing score row.
func (s *Service) UpdateScore(ctx context.Context, row ScoreRow) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scores
		 SET total_score = $1, percentage = $2, grade = $3, breakdown = $4, suggestions = $5, rescored_at = now()
		 WHERE id = $6`,
		row.TotalScore, row.Percentage, row.Grade, []byte(row.Breakdown), []byte(row.Suggestions), row.ID,
	)
	if err != nil {
		return fmt.Errorf("update score %s: %w", row.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update score %s: %w", row.ID, sql.ErrNoRows)
	}
	return nil
}

const scoreColumns = `id, character_id, snapshot_id, total_score, percentage, grade,
		        breakdown, suggestions, toggles, report_ref, created_at`

func scanScore(sc interface{ Scan(...any) error }, row *ScoreRow) error {
	return sc.Scan(
		&row.ID, &row.CharacterID, &row.SnapshotID, &row.TotalScore, &row.Percentage, &row.Grade,
		&row.Breakdown, &row.Suggestions, &row.Toggles, &row.ReportRef, &row.CreatedAt,
	)
}

// ListScores returns a character's scores, newest first. A limit of zero or
// less returns every score.
func (s *Service) ListScores(ctx context.Context, characterID string, limit int) ([]ScoreRow, error) {
	query := `SELECT ` + scoreColumns + ` FROM scores WHERE character_id = $1 ORDER BY created_at DESC`
	args := []any{characterID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreRow
	for rows.Next() {
		var sc ScoreRow
		if err := scanScore(rows, &sc); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// GetScore returns a single score by ID.
func (s *Service) GetScore(ctx context.Context, scoreID string) (*ScoreRow, error) {
	sc := &ScoreRow{}
	row := s.db.QueryRowContext(ctx, `SELECT `+scoreColumns+` FROM scores WHERE id = $1`, scoreID)
	if err := scanScore(row, sc); err != nil {
		return nil, fmt.Errorf("get score %s: %w", scoreID, err)
	}
	return sc, nil
}

// RescoreTargets returns every score row together with its snapshot
// reference, oldest first. An empty characterID selects all characters.
func (s *Service) RescoreTargets(ctx context.Context, characterID string) ([]RescoreTarget, error) {
	query := `
		SELECT s.id, s.character_id, s.snapshot_id, sn.storage_ref, s.report_ref, s.toggles
		FROM scores s
		JOIN snapshots sn ON sn.id = s.snapshot_id`
	var args []any
	if characterID != "" {
		query += ` WHERE s.character_id = $1`
		args = append(args, characterID)
	}
	query += ` ORDER BY s.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rescore targets: %w", err)
	}
	defer rows.Close()

	var out []RescoreTarget
	for rows.Next() {
		var t RescoreTarget
		if err := rows.Scan(&t.ScoreID, &t.CharacterID, &t.SnapshotID, &t.SnapshotRef, &t.ReportRef, &t.Toggles); err != nil {
			return nil, fmt.Errorf("scan rescore target: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Ping checks database connectivity.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
