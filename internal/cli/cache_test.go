package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/photobooth/pkg/cache"
	"github.com/matzehuels/photobooth/pkg/config"
)

func quietCLI() *CLI { return New(io.Discard, LogInfo) }

func TestNewCache(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		backend  string
		noCache  bool
		wantFile bool
	}{
		{"no-cache flag wins", config.BackendFile, true, false},
		{"none backend", config.BackendNone, false, false},
		{"file backend", config.BackendFile, false, true},
		{"unreachable redis degrades", config.BackendRedis, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Cache.Backend = tt.backend
			cfg.Cache.Dir = dir
			cfg.Cache.RedisAddr = "127.0.0.1:1"

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			c := quietCLI().newCache(ctx, cfg, tt.noCache)
			defer c.Close()

			fc, isFile := c.(*cache.FileCache)
			if isFile != tt.wantFile {
				t.Fatalf("newCache() = %T, want file cache %v", c, tt.wantFile)
			}
			if isFile && fc.Dir() != dir {
				t.Errorf("FileCache.Dir() = %q, want %q", fc.Dir(), dir)
			}
			if !isFile {
				if _, ok := c.(*cache.NullCache); !ok {
					t.Errorf("newCache() = %T, want *cache.NullCache", c)
				}
			}
		})
	}
}

func TestNewRunnerTTL(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.BackendNone
	cfg.Cache.TTL = config.Duration(time.Hour)

	r := quietCLI().newRunner(context.Background(), cfg, false)
	if r.TTL != time.Hour {
		t.Errorf("runner TTL = %v, want %v", r.TTL, time.Hour)
	}
}

func TestNewRunnerPrefix(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.BackendNone

	plain := quietCLI().newRunner(context.Background(), cfg, false)
	if _, ok := plain.Keyer.(cache.DefaultKeyer); !ok {
		t.Errorf("runner keyer = %T, want cache.DefaultKeyer", plain.Keyer)
	}

	cfg.Cache.Prefix = "lobby"
	scoped := quietCLI().newRunner(context.Background(), cfg, false)
	key := scoped.Keyer.ThumbKey("abc", 256)
	if want := "lobby:" + plain.Keyer.ThumbKey("abc", 256); key != want {
		t.Errorf("scoped ThumbKey = %q, want %q", key, want)
	}
}

func TestFileCacheDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	c := quietCLI()
	dir, err := c.fileCacheDir()
	if err != nil {
		t.Fatalf("fileCacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("fileCacheDir() = %q, want %q", dir, want)
	}

	custom := filepath.Join(t.TempDir(), "artifacts")
	cfgPath := filepath.Join(t.TempDir(), "booth.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\ndir = \""+filepath.ToSlash(custom)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.configPath = cfgPath
	dir, err = c.fileCacheDir()
	if err != nil {
		t.Fatalf("fileCacheDir() error: %v", err)
	}
	if dir != filepath.ToSlash(custom) {
		t.Errorf("fileCacheDir() = %q, want %q", dir, custom)
	}
}

func TestCacheClearCommand(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	fc, err := cache.NewFileCache(filepath.Join(xdg, appName))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		if err := fc.Set(ctx, key, []byte(key), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	root := quietCLI().RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	root.SetOut(io.Discard)
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}

	if _, ok, _ := fc.Get(ctx, "a"); ok {
		t.Error("entry survived cache clear")
	}
}
