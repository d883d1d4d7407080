package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Viewport.MinBlockSize != 100 || cfg.LoadDebounce() != 200*time.Millisecond {
		t.Fatalf("defaults not applied: %+v", cfg.Viewport)
	}
	if cfg.FlyoverDebounce() != 100*time.Millisecond || cfg.LoadTimeout() != 30*time.Second {
		t.Fatalf("durations wrong: %v %v", cfg.FlyoverDebounce(), cfg.LoadTimeout())
	}
}

func TestLoadFrom_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[viewport]\nmin_block_size = 250\n\n[display]\nwrap = true\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Viewport.MinBlockSize != 250 || !cfg.Display.Wrap {
		t.Fatalf("file values lost: %+v %+v", cfg.Viewport, cfg.Display)
	}
	if cfg.Viewport.LoadDebounceMs != 200 || cfg.Display.MaxColWidth != 60 {
		t.Fatal("missing keys should keep defaults")
	}
}

func TestSetValue(t *testing.T) {
	cfg := Default()

	if err := cfg.SetValue("viewport.min_block_size", "500"); err != nil {
		t.Fatal(err)
	}
	if v, _ := cfg.GetValue("viewport.block_size"); v != "500" {
		t.Fatalf("alias lookup = %q", v)
	}
	if err := cfg.SetValue("display.wrap", "true"); err != nil || !cfg.Display.Wrap {
		t.Fatalf("bool set failed: %v", err)
	}

	bad := []struct{ key, value string }{
		{"viewport.min_block_size", "5"},
		{"viewport.min_block_size", "lots"},
		{"viewport.load_timeout", "soon"},
		{"log.level", "chatty"},
		{"display.wrap", "maybe"},
		{"nope.key", "1"},
	}
	for _, b := range bad {
		if err := cfg.SetValue(b.key, b.value); err == nil {
			t.Errorf("SetValue(%q, %q) should fail", b.key, b.value)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Database.URL = "postgres://localhost/app"
	cfg.Log.File = "~/pgrid.log"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Database.URL != cfg.Database.URL {
		t.Fatalf("url = %q", loaded.Database.URL)
	}
	if strings.HasPrefix(loaded.LogFile(), "~") {
		t.Fatalf("home not expanded: %q", loaded.LogFile())
	}
}

func TestDatabaseURLEnvOverride(t *testing.T) {
	cfg := Default()
	cfg.Database.URL = "postgres://from-config/db"
	t.Setenv("PGRID_URL", "postgres://from-env/db")
	if got := cfg.DatabaseURL(); got != "postgres://from-env/db" {
		t.Fatalf("got %q", got)
	}
}

func TestHelpTextListsEveryKey(t *testing.T) {
	help := GenerateHelpText()
	for _, key := range ListKeys() {
		if !strings.Contains(help, key) {
			t.Errorf("help text misses %s", key)
		}
	}
}
