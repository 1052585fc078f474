package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputDir = "/tmp/music"

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
	if cfg.ParallelJobs != 4 || cfg.CoverFormat != "jpg" || cfg.CoverCropMode != "auto" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.UseCatalog {
		t.Error("catalog matching should default on")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.InputDir = "/tmp/music"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty input dir", func(c *Config) { c.InputDir = "" }},
		{"zero jobs", func(c *Config) { c.ParallelJobs = 0 }},
		{"too many jobs", func(c *Config) { c.ParallelJobs = 11 }},
		{"bad cover format", func(c *Config) { c.CoverFormat = "gif" }},
		{"bad crop mode", func(c *Config) { c.CoverCropMode = "stretch" }},
		{"zero cache ttl", func(c *Config) { c.CacheTTLMinutes = 0 }},
		{"zero cache size", func(c *Config) { c.CacheSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
input_dir: /music/downloads
parallel_jobs: 2
cover_format: png
exclude_tags:
  - lyrics
  - cover
fetch_lyrics: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error: %v", err)
	}
	if cfg.InputDir != "/music/downloads" {
		t.Errorf("InputDir = %q", cfg.InputDir)
	}
	if cfg.ParallelJobs != 2 || cfg.CoverFormat != "png" || !cfg.FetchLyrics {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.CoverCropMode != "auto" || cfg.CacheSize != 256 {
		t.Errorf("defaults lost: %+v", cfg)
	}

	set := cfg.ExcludeSet()
	if !set["lyrics"] || !set["cover"] || len(set) != 2 {
		t.Errorf("ExcludeSet() = %v", set)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
	if cfg.ParallelJobs != DefaultConfig().ParallelJobs {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("input_dir: [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Error("LoadConfigFile() should fail on bad YAML")
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.InputDir = "/music"
	cfg.ExcludeTags = []string{"cover"}
	if err := SaveConfigFile(cfg, path); err != nil {
		t.Fatalf("SaveConfigFile() error: %v", err)
	}

	loaded, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error: %v", err)
	}
	if loaded.InputDir != "/music" || len(loaded.ExcludeTags) != 1 {
		t.Errorf("round trip lost data: %+v", loaded)
	}
}

func TestExcludeSetNormalizes(t *testing.T) {
	cfg := Config{ExcludeTags: []string{" Lyrics ", "COVER"}}
	set := cfg.ExcludeSet()
	if !set["lyrics"] || !set["cover"] {
		t.Errorf("ExcludeSet() = %v, want lowercase trimmed keys", set)
	}

	empty := Config{}
	if empty.ExcludeSet() != nil {
		t.Error("empty exclude list should yield nil set")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := ExpandHome("~/music"); got != filepath.Join(home, "music") {
		t.Errorf("ExpandHome(~/music) = %q", got)
	}
	if got := ExpandHome("/abs/music"); got != "/abs/music" {
		t.Errorf("ExpandHome(/abs/music) = %q", got)
	}
}
