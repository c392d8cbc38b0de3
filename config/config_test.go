// ABOUTME: Tests for configuration load/save functionality
// ABOUTME: Validates TOML and YAML parsing and default config fallback behavior

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Lookahead != 10 {
		t.Errorf("Expected Lookahead 10, got %d", cfg.Lookahead)
	}

	if cfg.HarmonicWeight != 1.0 || cfg.TempoWeight != 1.0 {
		t.Errorf("Expected unit weights, got %.2f/%.2f", cfg.HarmonicWeight, cfg.TempoWeight)
	}

	if cfg.LibraryDB == "" {
		t.Error("Expected a default library database path")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	for _, name := range []string{"config.toml", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := DefaultConfig()
			cfg.Lookahead = 4
			cfg.TempoWeight = 0.5
			cfg.WatchExports = true

			if err := SaveConfig(path, cfg); err != nil {
				t.Fatalf("SaveConfig failed: %v", err)
			}

			loaded, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}

			if loaded != cfg {
				t.Errorf("round trip mismatch: got %+v, want %+v", loaded, cfg)
			}
		})
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	if err := os.WriteFile(path, []byte("lookahead = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Lookahead != 3 {
		t.Errorf("Expected Lookahead 3, got %d", cfg.Lookahead)
	}

	if cfg.HarmonicWeight != 1.0 {
		t.Errorf("Missing keys should keep defaults, got HarmonicWeight %.2f", cfg.HarmonicWeight)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"broken.toml":   "lookahead = = 3",
		"negative.yaml": "lookahead: -2\n",
	}

	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err == nil {
			t.Errorf("%s: expected error", name)
		}

		if cfg != DefaultConfig() {
			t.Errorf("%s: expected defaults on error, got %+v", name, cfg)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Errorf("Expected no error for non-existent file, got: %v", err)
	}

	if cfg != DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}
