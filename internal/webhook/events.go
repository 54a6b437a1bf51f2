// Package webhook handles signed push events from snapshot capture clients.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aionscope/aionscope/pkg/character"
)

// Header names carried by every event.
const (
	HeaderEvent     = "X-Aionscope-Event"
	HeaderSignature = "X-Aionscope-Signature-256"
)

// Event types.
const (
	EventSnapshotCaptured = "snapshot.captured"
	EventRescoreRequested = "rescore.requested"
)

// Sign returns the signature header value for payload.
func Sign(payload, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature validates the signature header against the payload.
func VerifySignature(payload []byte, signature string, secret []byte) error {
	if !strings.HasPrefix(signature, "sha256=") {
		return fmt.Errorf("invalid signature format")
	}
	sig, err := hex.DecodeString(signature[7:])
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

// SnapshotCapturedEvent carries a freshly captured snapshot. The snapshot may
// be canonical or in a legacy shape.
type SnapshotCapturedEvent struct {
	ServerID      string            `json:"server_id"`
	CharacterName string            `json:"character_name"`
	Toggles       character.Toggles `json:"toggles"`
	Snapshot      json.RawMessage   `json:"snapshot"`
}

// RescoreRequestedEvent asks for stored scores to be recomputed. An empty
// character ID means every character.
type RescoreRequestedEvent struct {
	CharacterID string `json:"character_id"`
}

// ParseEvent parses a webhook payload based on the event type.
func ParseEvent(eventType string, payload []byte) (any, error) {
	switch eventType {
	case EventSnapshotCaptured:
		var e SnapshotCapturedEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse %s event: %w", eventType, err)
		}
		if len(e.Snapshot) == 0 {
			return nil, fmt.Errorf("parse %s event: snapshot is required", eventType)
		}
		return &e, nil
	case EventRescoreRequested:
		var e RescoreRequestedEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse %s event: %w", eventType, err)
		}
		return &e, nil
	default:
		return nil, fmt.Errorf("unsupported event type: %s", eventType)
	}
}
