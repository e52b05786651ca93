package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	tests := []struct {
		name    string
		ttl     time.Duration
		wait    time.Duration
		wantHit bool
	}{
		{"no expiry", 0, 0, true},
		{"fresh", time.Hour, 0, true},
		{"expired", time.Millisecond, 10 * time.Millisecond, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "k-" + tt.name
			if err := c.Set(ctx, key, []byte("png"), tt.ttl); err != nil {
				t.Fatalf("Set: %v", err)
			}
			time.Sleep(tt.wait)
			data, hit, err := c.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && string(data) != "png" {
				t.Errorf("data = %q", data)
			}
		})
	}

	if err := c.Delete(ctx, "k-fresh"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k-fresh"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)
	path := fc.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("Get = hit %v err %v, want clean miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry was not removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := fc.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("cleared %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
	if n, err := ClearDir(filepath.Join(t.TempDir(), "missing")); n != 0 || err != nil {
		t.Errorf("ClearDir(missing) = %d, %v", n, err)
	}
}

func TestFileCachePath(t *testing.T) {
	fc := &FileCache{dir: "/cache"}
	key := NewDefaultKeyer().ThumbKey("abc", 160)

	p := fc.path(key)
	if p != fc.path(key) {
		t.Error("path() should be deterministic")
	}
	if p == fc.path(NewDefaultKeyer().ThumbKey("abc", 320)) {
		t.Error("thumbnails of different sizes share a file")
	}
	rel, err := filepath.Rel("/cache", p)
	if err != nil {
		t.Fatal(err)
	}
	dir, file := filepath.Split(rel)
	if len(dir) != 3 || len(file) != 62+len(".json") {
		t.Errorf("path() = %s, want <2 hex>/<62 hex>.json", rel)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.ThumbKey("abc", 160); got != "thumb:abc:160" {
		t.Errorf("ThumbKey = %s", got)
	}

	base := ArtifactKeyOpts{
		FrameID: 6, Width: 600, Height: 900, Format: "png",
		Slots: []SlotKey{{Photo: "h1", Zoom: 1}, {Photo: "h2", Zoom: 1}},
	}
	variants := map[string]func(o ArtifactKeyOpts) ArtifactKeyOpts{
		"frame":  func(o ArtifactKeyOpts) ArtifactKeyOpts { o.FrameID = 7; return o },
		"format": func(o ArtifactKeyOpts) ArtifactKeyOpts { o.Format = "pdf"; return o },
		"canvas": func(o ArtifactKeyOpts) ArtifactKeyOpts { o.Width = 900; o.Height = 600; return o },
		"zoom": func(o ArtifactKeyOpts) ArtifactKeyOpts {
			o.Slots = []SlotKey{{Photo: "h1", Zoom: 1.5}, {Photo: "h2", Zoom: 1}}
			return o
		},
		"order": func(o ArtifactKeyOpts) ArtifactKeyOpts {
			o.Slots = []SlotKey{{Photo: "h2", Zoom: 1}, {Photo: "h1", Zoom: 1}}
			return o
		},
	}
	baseKey := k.ArtifactKey(base)
	if !strings.HasPrefix(baseKey, "artifact:png:") {
		t.Errorf("ArtifactKey = %s", baseKey)
	}
	if baseKey != k.ArtifactKey(base) {
		t.Error("ArtifactKey should be deterministic")
	}
	for name, mutate := range variants {
		t.Run(name, func(t *testing.T) {
			if k.ArtifactKey(mutate(base)) == baseKey {
				t.Errorf("changing %s should change the key", name)
			}
		})
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "booth:1:")
	if got := scoped.ThumbKey("abc", 80); got != "booth:1:thumb:abc:80" {
		t.Errorf("ThumbKey = %s", got)
	}
	if got := scoped.ArtifactKey(ArtifactKeyOpts{Format: "pdf"}); !strings.HasPrefix(got, "booth:1:artifact:pdf:") {
		t.Errorf("ArtifactKey = %s", got)
	}
}

func TestScopedKeyerBoothID(t *testing.T) {
	for _, booth := range []string{"lobby", "lobby:"} {
		scoped := NewScopedKeyer(nil, booth)
		if key := scoped.ThumbKey("h", 1); key != "lobby:thumb:h:1" {
			t.Errorf("NewScopedKeyer(nil, %q).ThumbKey = %s, want lobby:thumb:h:1", booth, key)
		}
	}
}
