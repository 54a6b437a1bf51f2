package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aionscope/aionscope/internal/ingestion"
	"github.com/aionscope/aionscope/pkg/character"
)

// Pipeline is the part of the ingestion service events drive.
type Pipeline interface {
	Ingest(ctx context.Context, req ingestion.Request) (*ingestion.Result, error)
	Rescore(ctx context.Context, characterID string) (ingestion.RescoreStats, error)
}

// Handler processes incoming webhook events.
type Handler struct {
	secret   []byte
	pipeline Pipeline
	logger   *slog.Logger
}

// NewHandler creates a new webhook Handler.
func NewHandler(secret []byte, pipeline Pipeline, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{secret: secret, pipeline: pipeline, logger: logger}
}

// ServeHTTP handles incoming webhook requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 16<<20))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := VerifySignature(body, r.Header.Get(HeaderSignature), h.secret); err != nil {
		h.logger.Warn("webhook signature verification failed", "error", err)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get(HeaderEvent)
	if eventType == "" {
		http.Error(w, "missing "+HeaderEvent+" header", http.StatusBadRequest)
		return
	}

	event, err := ParseEvent(eventType, body)
	if err != nil {
		h.logger.Warn("webhook parse error", "event", eventType, "error", err)
		http.Error(w, "unsupported event", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var resp any
	switch e := event.(type) {
	case *SnapshotCapturedEvent:
		snap, err := character.Decode(e.Snapshot)
		if err != nil {
			h.logger.Warn("webhook snapshot rejected", "error", err)
			http.Error(w, "invalid snapshot", http.StatusBadRequest)
			return
		}
		res, err := h.handleSnapshot(ctx, e, snap)
		if err != nil {
			h.logger.Error("handle snapshot event", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		resp = map[string]string{
			"status":       "accepted",
			"character_id": res.CharacterID,
			"score_id":     res.ScoreID,
		}

	case *RescoreRequestedEvent:
		stats, err := h.pipeline.Rescore(ctx, e.CharacterID)
		if err != nil {
			h.logger.Error("handle rescore event", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		resp = stats
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) handleSnapshot(ctx context.Context, e *SnapshotCapturedEvent, snap *character.Snapshot) (*ingestion.Result, error) {
	res, err := h.pipeline.Ingest(ctx, ingestion.Request{
		Snapshot:      snap,
		Toggles:       e.Toggles,
		ServerID:      e.ServerID,
		CharacterName: e.CharacterName,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	h.logger.Info("ingested pushed snapshot", "character_id", res.CharacterID, "score_id", res.ScoreID)
	return res, nil
}
