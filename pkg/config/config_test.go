package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	def := DefaultConfig()
	if cfg.SerialLength != def.SerialLength || cfg.DefaultSort != def.DefaultSort {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadClampsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("serial_length: 2\ndefault_sort: bogus\nwatch_debounce_ms: -1\nhistory_limit: 0\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SerialLength != 6 {
		t.Errorf("serial_length = %d, want clamped 6", cfg.SerialLength)
	}
	if cfg.DefaultSort != "path" {
		t.Errorf("default_sort = %q, want path", cfg.DefaultSort)
	}
	if cfg.WatchDebounceMS != 500 {
		t.Errorf("watch_debounce_ms = %d, want 500", cfg.WatchDebounceMS)
	}
	if cfg.HistoryLimit != 20 {
		t.Errorf("history_limit = %d, want 20", cfg.HistoryLimit)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.SerialLength = 8
	cfg.ColorTheme = "dark"
	cfg.ListKeys = []string{"os", "warranty"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.SerialLength != 8 || loaded.ColorTheme != "dark" {
		t.Errorf("round trip changed values: %+v", loaded)
	}
	if len(loaded.ListKeys) != 2 || loaded.ListKeys[0] != "os" {
		t.Errorf("list_keys = %v", loaded.ListKeys)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("serial_length: [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
