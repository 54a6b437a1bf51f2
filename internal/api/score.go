package api

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/aionscope/aionscope/internal/ingestion"
	"github.com/aionscope/aionscope/pkg/character"
	"github.com/aionscope/aionscope/pkg/report"
	"github.com/aionscope/aionscope/pkg/surface"
)

// maxBodyBytes caps decoded snapshot documents.
const maxBodyBytes = 16 << 20

// readBody reads the request body, inflating gzip-encoded uploads.
func readBody(r *http.Request) ([]byte, error) {
	var body io.Reader = r.Body
	if r.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			return nil, fmt.Errorf("invalid gzip body: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	data, err := io.ReadAll(io.LimitReader(body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxBodyBytes)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	return data, nil
}

// parseToggles reads exclude_boards and preset from the query string.
// Presets may repeat or be comma-separated.
func parseToggles(r *http.Request) (character.Toggles, error) {
	q := r.URL.Query()
	var t character.Toggles
	if v := q.Get("exclude_boards"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return t, fmt.Errorf("invalid exclude_boards %q", v)
		}
		t.ExcludeBoardBonuses = b
	}
	for _, v := range q["preset"] {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				t.Presets = append(t.Presets, p)
			}
		}
	}
	return t, nil
}

// renderReport writes rep in the format named by the "format" query
// parameter: json (default), markdown or ledger.
func renderReport(w http.ResponseWriter, r *http.Request, status int, rep *report.Report) {
	format := r.URL.Query().Get("format")
	switch format {
	case "", "json":
		writeJSON(w, status, rep)
		return
	case "markdown", "md", "ledger":
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}

	renderer, err := surface.ForFormat(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, rep); err != nil {
		writeError(w, http.StatusInternalServerError, "render: "+err.Error())
		return
	}
	if format == "ledger" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// handleScore runs one pass over the posted snapshot without persisting it.
// Identical bodies reuse the decoded snapshot from the cache.
func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	toggles, err := parseToggles(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := BodyKey(data)
	snap := h.cache.Get(key)
	if snap == nil {
		snap, err = character.Decode(data)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid snapshot: "+err.Error())
			return
		}
		h.cache.Put(key, snap)
	}

	rep, err := h.generator.Generate(snap, toggles)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	renderReport(w, r, http.StatusOK, rep)
}

// handleIngestSnapshot stores, scores and records a snapshot for the
// character named in the path.
func (h *Handler) handleIngestSnapshot(w http.ResponseWriter, r *http.Request) {
	server := r.PathValue("server")
	name := r.PathValue("character")
	if name == "" {
		writeError(w, http.StatusBadRequest, "character is required")
		return
	}

	toggles, err := parseToggles(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := character.Decode(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid snapshot: "+err.Error())
		return
	}

	res, err := h.pipeline.Ingest(r.Context(), ingestion.Request{
		Snapshot:      snap,
		Toggles:       toggles,
		ServerID:      server,
		CharacterName: name,
	})
	if err != nil {
		h.logger.Error("ingest failed", "server", server, "character", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to ingest snapshot: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
