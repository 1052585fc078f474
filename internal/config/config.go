package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config contains the program configuration
type Config struct {
	InputDir        string   `yaml:"input_dir"`
	Verbose         bool     `yaml:"verbose"`
	DryRun          bool     `yaml:"dry_run"`
	ParallelJobs    int      `yaml:"parallel_jobs"`
	CoverFormat     string   `yaml:"cover_format"`    // jpg or png
	CoverCropMode   string   `yaml:"cover_crop_mode"` // auto, crop or pad
	ExcludeTags     []string `yaml:"exclude_tags"`
	UseCatalog      bool     `yaml:"use_catalog"`
	UseCatalogData  bool     `yaml:"use_catalog_data"` // overwrite tags with catalog strings, not just ids
	FetchLyrics     bool     `yaml:"fetch_lyrics"`
	CacheTTLMinutes int      `yaml:"cache_ttl_minutes"`
	CacheSize       int      `yaml:"cache_size"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		ParallelJobs:    4,
		CoverFormat:     "jpg",
		CoverCropMode:   "auto",
		UseCatalog:      true,
		UseCatalogData:  true,
		FetchLyrics:     false,
		CacheTTLMinutes: 60,
		CacheSize:       256,
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.InputDir = ExpandHome(cfg.InputDir)

	return cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./tigertag.yaml",
		"./tigertag.yml",
		filepath.Join(home, ".config", "tigertag", "config.yaml"),
		filepath.Join(home, ".config", "tigertag", "config.yml"),
		filepath.Join(home, ".tigertag.yaml"),
		filepath.Join(home, ".tigertag.yml"),
	}

	for _, path := range locations {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "tigertag", "config.yaml")
}

// GetDefaultLogPath returns the default log directory path
func GetDefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "share", "tigertag", "logs")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// ExcludeSet returns the excluded tag keys as a lookup set.
func (c *Config) ExcludeSet() map[string]bool {
	if len(c.ExcludeTags) == 0 {
		return nil
	}
	set := make(map[string]bool, len(c.ExcludeTags))
	for _, key := range c.ExcludeTags {
		set[strings.ToLower(strings.TrimSpace(key))] = true
	}
	return set
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input directory cannot be empty")
	}

	if c.ParallelJobs < 1 {
		return fmt.Errorf("parallel jobs must be at least 1, got %d", c.ParallelJobs)
	}
	if c.ParallelJobs > 10 {
		return fmt.Errorf("parallel jobs cannot exceed 10 (to avoid rate limiting), got %d", c.ParallelJobs)
	}

	switch c.CoverFormat {
	case "jpg", "png":
	default:
		return fmt.Errorf("unsupported cover format %q, valid formats: jpg, png", c.CoverFormat)
	}

	switch c.CoverCropMode {
	case "auto", "crop", "pad":
	default:
		return fmt.Errorf("unknown cover crop mode %q, valid modes: auto, crop, pad", c.CoverCropMode)
	}

	if c.CacheTTLMinutes < 1 {
		return fmt.Errorf("cache TTL must be at least 1 minute, got %d", c.CacheTTLMinutes)
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("cache size must be at least 1, got %d", c.CacheSize)
	}

	return nil
}
