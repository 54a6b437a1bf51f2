package api_test

import (
	"testing"

	"github.com/aionscope/aionscope/internal/api"
	"github.com/aionscope/aionscope/pkg/character"
)

func TestSnapshotCacheLRU(t *testing.T) {
	c := api.NewSnapshotCache(2)
	a := &character.Snapshot{Profile: character.Profile{Name: "a"}}
	b := &character.Snapshot{Profile: character.Profile{Name: "b"}}
	d := &character.Snapshot{Profile: character.Profile{Name: "d"}}

	c.Put("a", a)
	c.Put("b", b)
	if c.Get("a") != a {
		t.Fatal("expected a cached")
	}
	c.Put("d", d) // evicts b, the least recently used

	if c.Get("b") != nil {
		t.Error("expected b evicted")
	}
	if c.Get("a") != a || c.Get("d") != d {
		t.Error("expected a and d cached")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestSnapshotCacheReplace(t *testing.T) {
	c := api.NewSnapshotCache(0)
	c.Put("k", &character.Snapshot{})
	replacement := &character.Snapshot{Profile: character.Profile{Name: "new"}}
	c.Put("k", replacement)
	if c.Get("k") != replacement || c.Len() != 1 {
		t.Error("expected in-place replacement")
	}
}

func TestBodyKey(t *testing.T) {
	k1 := api.BodyKey([]byte(`{"profile":{}}`))
	k2 := api.BodyKey([]byte(`{"profile":{}}`))
	k3 := api.BodyKey([]byte(`{"profile":{"name":"x"}}`))
	if k1 != k2 {
		t.Error("BodyKey not deterministic")
	}
	if k1 == k3 {
		t.Error("different bodies share a key")
	}
	if len(k1) != len("body:")+16 {
		t.Errorf("unexpected key shape %q", k1)
	}
}
