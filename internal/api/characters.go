package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aionscope/aionscope/internal/roster"
	"github.com/aionscope/aionscope/pkg/character"
)

type scoreResponse struct {
	ID          string          `json:"id"`
	CharacterID string          `json:"character_id"`
	SnapshotID  string          `json:"snapshot_id"`
	TotalScore  float64         `json:"total_score"`
	Percentage  int             `json:"percentage"`
	Grade       string          `json:"grade"`
	Breakdown   json.RawMessage `json:"breakdown,omitempty"`
	Suggestions json.RawMessage `json:"suggestions,omitempty"`
	Toggles     json.RawMessage `json:"toggles,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

func scoreRowToResponse(sc *roster.ScoreRow, full bool) scoreResponse {
	resp := scoreResponse{
		ID:          sc.ID,
		CharacterID: sc.CharacterID,
		SnapshotID:  sc.SnapshotID,
		TotalScore:  sc.TotalScore,
		Percentage:  sc.Percentage,
		Grade:       sc.Grade,
		Toggles:     sc.Toggles,
		CreatedAt:   sc.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if full {
		resp.Breakdown = sc.Breakdown
		resp.Suggestions = sc.Suggestions
	}
	return resp
}

func (h *Handler) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	chars, err := h.store.ListCharacters(r.Context())
	if err != nil {
		h.logger.Error("list characters", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list characters")
		return
	}
	if chars == nil {
		chars = []roster.Character{}
	}
	writeJSON(w, http.StatusOK, chars)
}

// handleListScores returns a character's score history, newest first,
// without the per-dimension breakdown.
func (h *Handler) handleListScores(w http.ResponseWriter, r *http.Request) {
	characterID := r.PathValue("characterID")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	if _, err := h.store.GetCharacter(r.Context(), characterID); err != nil {
		h.writeLookupError(w, "character", err)
		return
	}

	scores, err := h.store.ListScores(r.Context(), characterID, limit)
	if err != nil {
		h.logger.Error("list scores", "character_id", characterID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list scores")
		return
	}

	result := make([]scoreResponse, 0, len(scores))
	for i := range scores {
		result = append(result, scoreRowToResponse(&scores[i], false))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetScore(w http.ResponseWriter, r *http.Request) {
	sc, err := h.store.GetScore(r.Context(), r.PathValue("scoreID"))
	if err != nil {
		h.writeLookupError(w, "score", err)
		return
	}
	writeJSON(w, http.StatusOK, scoreRowToResponse(sc, true))
}

// handleScoreLedger serves the stat ledger stored with a score. The default
// JSON form is the row list; format=ledger renders the text table.
func (h *Handler) handleScoreLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sc, err := h.store.GetScore(ctx, r.PathValue("scoreID"))
	if err != nil {
		h.writeLookupError(w, "score", err)
		return
	}
	rep, err := h.pipeline.LoadReport(ctx, sc.ReportRef)
	if err != nil {
		h.writeLookupError(w, "report", err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, rep.Ledger)
	case "ledger":
		renderReport(w, r, http.StatusOK, rep)
	default:
		writeError(w, http.StatusBadRequest, "unsupported format")
	}
}

// loadSnapshot loads a stored snapshot by ID, checking the cache first,
// then falling back to the metadata row and blob storage.
func (h *Handler) loadSnapshot(ctx context.Context, snapshotID string) (*character.Snapshot, error) {
	if snap := h.cache.Get(snapshotID); snap != nil {
		return snap, nil
	}

	row, err := h.store.GetSnapshot(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	snap, err := h.pipeline.LoadSnapshot(ctx, row.StorageRef)
	if err != nil {
		return nil, err
	}

	h.cache.Put(snapshotID, snap)
	return snap, nil
}

func (h *Handler) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.loadSnapshot(r.Context(), r.PathValue("snapshotID"))
	if err != nil {
		h.writeLookupError(w, "snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
