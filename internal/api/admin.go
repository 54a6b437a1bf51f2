package api

import (
	"context"
	"encoding/json"
	"net/http"
)

type rescoreRequest struct {
	CharacterID string `json:"character_id"` // optional filter
}

// handleRescore re-runs the current tables over stored snapshots and
// overwrites the score rows in place.
func (h *Handler) handleRescore(w http.ResponseWriter, r *http.Request) {
	var req rescoreRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	stats, err := h.pipeline.Rescore(r.Context(), req.CharacterID)
	if err != nil {
		h.logger.Error("rescore", "character_id", req.CharacterID, "error", err)
		writeError(w, http.StatusInternalServerError, "rescore: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// handleHealth reports liveness, and database reachability when the store
// can be pinged.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "cached_snapshots": h.cache.Len()})
}
