// Package ingestion stores character snapshots, scores them and persists the
// resulting reports and score history.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// Kind is a category of stored blob.
type Kind string

const (
	KindSnapshot Kind = "snapshots"
	KindReport   Kind = "reports"
)

// StorageClient abstracts blob storage for snapshots and reports. Blobs are
// grouped per character.
type StorageClient interface {
	Put(ctx context.Context, characterID string, kind Kind, id string, data []byte) error
	Get(ctx context.Context, characterID string, kind Kind, id string) ([]byte, error)
}

// StorageRef returns the backend-independent reference recorded in the
// database for a blob: "{kind}/{character_id}/{id}.json".
func StorageRef(characterID string, kind Kind, id string) string {
	return path.Join(string(kind), characterID, id+".json")
}

// ParseStorageRef splits a reference produced by StorageRef.
func ParseStorageRef(ref string) (characterID string, kind Kind, id string, err error) {
	dir, file := path.Split(ref)
	kindDir, char := path.Split(path.Clean(dir))
	ext := path.Ext(file)
	if ext != ".json" || char == "" || char == "." || kindDir == "" {
		return "", "", "", fmt.Errorf("malformed storage ref %q", ref)
	}
	return char, Kind(path.Clean(kindDir)), file[:len(file)-len(ext)], nil
}

// objectKey is the key used by the object-store backends.
func objectKey(characterID string, kind Kind, id string) string {
	return characterID + "/" + string(kind) + "/" + id + ".json"
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(characterID string, kind Kind, id string) string {
	return filepath.Join(s.BaseDir, characterID, string(kind), id+".json")
}

// Put stores a blob.
func (s *LocalStorage) Put(ctx context.Context, characterID string, kind Kind, id string, data []byte) error {
	p := s.path(characterID, kind, id)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

// Get retrieves a blob.
func (s *LocalStorage) Get(ctx context.Context, characterID string, kind Kind, id string) ([]byte, error) {
	data, err := os.ReadFile(s.path(characterID, kind, id))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", kind, id, err)
	}
	return data, nil
}
