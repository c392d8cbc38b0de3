// ABOUTME: Configuration management for the sidecar: look-ahead, cost weights and library paths
// ABOUTME: Handles loading/saving TOML or YAML config files with fallback to defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const fileName = "setlist-sidecar.toml"

// Config holds all user-tunable settings
type Config struct {
	// Insertion search
	Lookahead int `toml:"lookahead" yaml:"lookahead"`

	// Transition cost weights (1.0 / 1.0 = harmonic distance + raw BPM difference)
	HarmonicWeight float64 `toml:"harmonic_weight" yaml:"harmonic_weight"`
	TempoWeight    float64 `toml:"tempo_weight" yaml:"tempo_weight"`

	// Track library
	LibraryDB    string `toml:"library_db" yaml:"library_db"`
	ExportDir    string `toml:"export_dir" yaml:"export_dir"`
	WatchExports bool   `toml:"watch_exports" yaml:"watch_exports"`

	// Remote playlists
	YTDLPPath string `toml:"ytdlp_path" yaml:"ytdlp_path"` // empty = look up yt-dlp on PATH
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/setlist-sidecar/config.toml
func GetConfigPath() string {
	if _, err := os.Stat("./" + fileName); err == nil {
		return "./" + fileName
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./" + fileName
	}

	return filepath.Join(home, ".config", "setlist-sidecar", "config.toml")
}

// LoadConfig loads configuration from a TOML or YAML file (chosen by extension).
// Keys missing from the file keep their default values.
// If the file doesn't exist, returns default config without error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}

		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()

	if isYAML(path) {
		err = yaml.Unmarshal(data, &config)
	} else {
		err = toml.Unmarshal(data, &config)
	}

	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Lookahead < 0 {
		return DefaultConfig(), fmt.Errorf("invalid lookahead %d: must not be negative", config.Lookahead)
	}

	return config, nil
}

// SaveConfig saves configuration to a TOML or YAML file (chosen by extension)
func SaveConfig(path string, config Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		defer func() { _ = enc.Close() }()

		if err := enc.Encode(config); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		return nil
	}

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	dataDir := "data"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "setlist-sidecar")
	}

	return Config{
		Lookahead:      10,
		HarmonicWeight: 1.0,
		TempoWeight:    1.0,
		LibraryDB:      filepath.Join(dataDir, "track_info.db"),
		ExportDir:      dataDir,
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	return ext == ".yaml" || ext == ".yml"
}
