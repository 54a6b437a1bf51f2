package character

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveSnapshot writes a canonical snapshot to disk as JSON.
func SaveSnapshot(path string, snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for snapshot: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot reads a snapshot from disk. Both canonical and legacy shapes
// are accepted; legacy shapes are adapted on the way in.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return Decode(data)
}

// Decode parses snapshot JSON, adapting legacy shapes when the document is not
// in canonical form.
func Decode(data []byte) (*Snapshot, error) {
	if IsCanonical(data) {
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("unmarshaling snapshot: %w", err)
		}
		return &snap, nil
	}
	snap, err := Adapt(data)
	if err != nil {
		return nil, fmt.Errorf("adapting snapshot: %w", err)
	}
	return snap, nil
}
