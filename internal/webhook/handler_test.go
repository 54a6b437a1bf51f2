package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/aionscope/aionscope/internal/ingestion"
)

func TestVerifySignature(t *testing.T) {
	secret := []byte("webhook-secret-123")
	payload := []byte(`{"character_name":"Lumiel"}`)

	tests := []struct {
		name      string
		payload   []byte
		signature string
		secret    []byte
		wantErr   bool
	}{
		{
			name:      "valid signature",
			payload:   payload,
			signature: Sign(payload, secret),
			secret:    secret,
			wantErr:   false,
		},
		{
			name:      "wrong secret",
			payload:   payload,
			signature: Sign(payload, []byte("wrong-secret")),
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "tampered payload",
			payload:   []byte(`{"character_name":"Ariel"}`),
			signature: Sign(payload, secret),
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "missing sha256= prefix",
			payload:   payload,
			signature: "not-a-valid-sig",
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "invalid hex after prefix",
			payload:   payload,
			signature: "sha256=zzzz",
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "empty signature",
			payload:   payload,
			signature: "",
			secret:    secret,
			wantErr:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := VerifySignature(tc.payload, tc.signature, tc.secret)
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseEvent_SnapshotCaptured(t *testing.T) {
	payload := []byte(`{"server_id":"2","character_name":"Lumiel","toggles":{"exclude_board_bonuses":true},"snapshot":{"profile":{"name":"Lumiel"}}}`)

	event, err := ParseEvent(EventSnapshotCaptured, payload)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	e, ok := event.(*SnapshotCapturedEvent)
	if !ok {
		t.Fatalf("expected *SnapshotCapturedEvent, got %T", event)
	}
	if e.ServerID != "2" || e.CharacterName != "Lumiel" {
		t.Errorf("event = %+v", e)
	}
	if !e.Toggles.ExcludeBoardBonuses {
		t.Error("expected toggles decoded")
	}
}

func TestParseEvent_Errors(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		payload   string
	}{
		{"unsupported type", "character.deleted", `{}`},
		{"invalid json", EventSnapshotCaptured, `{not json`},
		{"missing snapshot", EventSnapshotCaptured, `{"character_name":"Lumiel"}`},
		{"invalid rescore json", EventRescoreRequested, `[`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseEvent(tc.eventType, []byte(tc.payload)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

type fakePipeline struct {
	ingested []ingestion.Request
	rescored []string
	err      error
}

func (f *fakePipeline) Ingest(_ context.Context, req ingestion.Request) (*ingestion.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.ingested = append(f.ingested, req)
	return &ingestion.Result{CharacterID: "char-1", SnapshotID: "snap-1", ScoreID: "score-1"}, nil
}

func (f *fakePipeline) Rescore(_ context.Context, characterID string) (ingestion.RescoreStats, error) {
	f.rescored = append(f.rescored, characterID)
	return ingestion.RescoreStats{Rescored: 2}, nil
}

func newTestHandler(p Pipeline) *Handler {
	return NewHandler([]byte("s3cret"), p, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func post(h http.Handler, eventType string, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/snapshot", bytes.NewReader(payload))
	if eventType != "" {
		req.Header.Set(HeaderEvent, eventType)
	}
	req.Header.Set(HeaderSignature, signature)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func snapshotPayload(t *testing.T) []byte {
	t.Helper()
	snap, err := os.ReadFile("../../testdata/snapshot_legacy.json")
	if err != nil {
		t.Fatal(err)
	}
	payload, err := json.Marshal(SnapshotCapturedEvent{
		ServerID:      "1",
		CharacterName: "Kaisinel",
		Snapshot:      snap,
	})
	if err != nil {
		t.Fatal(err)
	}
	return payload
}

func TestHandler_SnapshotCaptured(t *testing.T) {
	p := &fakePipeline{}
	h := newTestHandler(p)
	payload := snapshotPayload(t)

	rec := post(h, EventSnapshotCaptured, payload, Sign(payload, []byte("s3cret")))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(p.ingested) != 1 {
		t.Fatalf("expected 1 ingest, got %d", len(p.ingested))
	}
	req := p.ingested[0]
	if req.ServerID != "1" || req.CharacterName != "Kaisinel" {
		t.Errorf("request = %s/%s", req.ServerID, req.CharacterName)
	}
	if req.Snapshot == nil || len(req.Snapshot.EquippedItems) == 0 {
		t.Error("expected the legacy snapshot to be adapted")
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["score_id"] != "score-1" {
		t.Errorf("response = %v", body)
	}
}

func TestHandler_RescoreRequested(t *testing.T) {
	p := &fakePipeline{}
	h := newTestHandler(p)
	payload := []byte(`{"character_id":"char-9"}`)

	rec := post(h, EventRescoreRequested, payload, Sign(payload, []byte("s3cret")))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(p.rescored) != 1 || p.rescored[0] != "char-9" {
		t.Errorf("rescored = %v", p.rescored)
	}
}

func TestHandler_Rejections(t *testing.T) {
	secret := []byte("s3cret")
	valid := snapshotPayload(t)
	badSnapshot := []byte(`{"snapshot":{"equipped_items":"not a list"}}`)

	tests := []struct {
		name      string
		method    string
		eventType string
		payload   []byte
		signature string
		want      int
	}{
		{"wrong method", http.MethodGet, EventSnapshotCaptured, valid, Sign(valid, secret), http.StatusMethodNotAllowed},
		{"bad signature", http.MethodPost, EventSnapshotCaptured, valid, Sign(valid, []byte("other")), http.StatusUnauthorized},
		{"missing event", http.MethodPost, "", valid, Sign(valid, secret), http.StatusBadRequest},
		{"unknown event", http.MethodPost, "character.deleted", valid, Sign(valid, secret), http.StatusBadRequest},
		{"undecodable snapshot", http.MethodPost, EventSnapshotCaptured, badSnapshot, Sign(badSnapshot, secret), http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &fakePipeline{}
			h := newTestHandler(p)
			req := httptest.NewRequest(tc.method, "/v1/webhooks/snapshot", bytes.NewReader(tc.payload))
			if tc.eventType != "" {
				req.Header.Set(HeaderEvent, tc.eventType)
			}
			req.Header.Set(HeaderSignature, tc.signature)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
			if len(p.ingested) != 0 {
				t.Error("rejected request reached the pipeline")
			}
		})
	}
}

func TestHandler_PipelineFailure(t *testing.T) {
	h := newTestHandler(&fakePipeline{err: fmt.Errorf("database down")})
	payload := snapshotPayload(t)

	rec := post(h, EventSnapshotCaptured, payload, Sign(payload, []byte("s3cret")))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
