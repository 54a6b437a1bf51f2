// Package api implements the aionscope REST API.
// It provides stateless scoring plus ingest and read endpoints backed by
// Postgres and blob storage.
package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/aionscope/aionscope/internal/ingestion"
	"github.com/aionscope/aionscope/internal/roster"
	"github.com/aionscope/aionscope/pkg/character"
	"github.com/aionscope/aionscope/pkg/report"
)

// Store is the read side of the score history. roster.Service implements it.
type Store interface {
	ListCharacters(ctx context.Context) ([]roster.Character, error)
	GetCharacter(ctx context.Context, id string) (*roster.Character, error)
	ListScores(ctx context.Context, characterID string, limit int) ([]roster.ScoreRow, error)
	GetScore(ctx context.Context, scoreID string) (*roster.ScoreRow, error)
	GetSnapshot(ctx context.Context, id string) (*roster.SnapshotRow, error)
}

// Pipeline is the write side. ingestion.Service implements it.
type Pipeline interface {
	Ingest(ctx context.Context, req ingestion.Request) (*ingestion.Result, error)
	LoadReport(ctx context.Context, ref string) (*report.Report, error)
	LoadSnapshot(ctx context.Context, ref string) (*character.Snapshot, error)
	Rescore(ctx context.Context, characterID string) (ingestion.RescoreStats, error)
}

// Handler is the top-level API handler.
type Handler struct {
	store     Store
	pipeline  Pipeline
	generator *report.Generator
	cache     *SnapshotCache
	logger    *slog.Logger
}

// NewHandler creates a new API handler. A nil generator uses the built-in
// tables, a nil cache gets the default size and a nil logger uses
// slog.Default.
func NewHandler(store Store, pipeline Pipeline, generator *report.Generator, cache *SnapshotCache, logger *slog.Logger) *Handler {
	if generator == nil {
		generator = report.Default()
	}
	if cache == nil {
		cache = NewSnapshotCache(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:     store,
		pipeline:  pipeline,
		generator: generator,
		cache:     cache,
		logger:    logger,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealth)

	// Write endpoints
	mux.HandleFunc("POST /api/v1/score", h.handleScore)
	mux.HandleFunc("POST /api/v1/characters/{server}/{character}/snapshots", h.handleIngestSnapshot)
	mux.HandleFunc("POST /api/admin/rescore", h.handleRescore)

	// Read endpoints
	mux.HandleFunc("GET /api/characters", h.handleListCharacters)
	mux.HandleFunc("GET /api/characters/{characterID}/scores", h.handleListScores)
	mux.HandleFunc("GET /api/scores/{scoreID}", h.handleGetScore)
	mux.HandleFunc("GET /api/scores/{scoreID}/ledger", h.handleScoreLedger)
	mux.HandleFunc("GET /api/snapshots/{snapshotID}", h.handleGetSnapshot)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeLookupError answers 404 for missing rows or blobs and 500 otherwise.
func (h *Handler) writeLookupError(w http.ResponseWriter, what string, err error) {
	if isNotFound(err) {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	h.logger.Error("lookup failed", "what", what, "error", err)
	writeError(w, http.StatusInternalServerError, "failed to load "+what)
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, fs.ErrNotExist)
}
