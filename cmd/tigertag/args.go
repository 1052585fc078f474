package main

import (
	"fmt"
	"os"

	"tigertag/internal/config"
)

// parseArgs parses command-line arguments and loads configuration.
// Priority: CLI flags > config file > defaults
func parseArgs() (config.Config, string, error) {
	args := os.Args[1:]

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			printUsage()
			os.Exit(0)
		}
		if arg == "--init-config" {
			return config.Config{}, "", initConfigFile()
		}
	}

	var configPath string
	var cfg config.Config
	var err error

	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--config requires a path argument")
			}
			configPath = args[i+1]
			break
		}
	}

	cfg, err = config.LoadConfigFile(configPath)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("failed to load config: %w", err)
	}
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--verbose", "-v":
			cfg.Verbose = true

		case "--dry-run", "-n":
			cfg.DryRun = true

		case "--parallel", "-p":
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--parallel requires a number argument")
			}
			i++
			var jobs int
			if _, err := fmt.Sscanf(args[i], "%d", &jobs); err != nil {
				return config.Config{}, "", fmt.Errorf("invalid parallel jobs value: %s", args[i])
			}
			cfg.ParallelJobs = jobs

		case "--cover-format", "-f":
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--cover-format requires a format name")
			}
			i++
			cfg.CoverFormat = args[i]

		case "--crop-mode", "-m":
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--crop-mode requires a mode name")
			}
			i++
			cfg.CoverCropMode = args[i]

		case "--exclude", "-x":
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--exclude requires a tag key")
			}
			i++
			cfg.ExcludeTags = append(cfg.ExcludeTags, args[i])

		case "--no-catalog":
			cfg.UseCatalog = false

		case "--ids-only":
			cfg.UseCatalogData = false

		case "--lyrics", "-l":
			cfg.FetchLyrics = true

		case "--config", "-c":
			i++

		default:
			if len(arg) > 0 && arg[0] == '-' {
				return config.Config{}, "", fmt.Errorf("unknown flag: %s", arg)
			}
			cfg.InputDir = config.ExpandHome(arg)
		}
	}

	return cfg, configPath, nil
}

// initConfigFile creates a new config file with default values
func initConfigFile() error {
	path := config.GetDefaultConfigPath()

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists at: %s\n", path)
		fmt.Println("Delete it first if you want to recreate it.")
		os.Exit(0)
	}

	cfg := config.DefaultConfig()

	if err := config.SaveConfigFile(cfg, path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created default config file at: %s\n", path)
	fmt.Println("\nYou can now edit this file to customize your settings.")
	fmt.Println("Available options:")
	fmt.Println("  parallel_jobs: 1-10 (number of tracks tagged in parallel)")
	fmt.Println("  cover_format: jpg or png")
	fmt.Println("  cover_crop_mode: auto, crop or pad")
	fmt.Println("  exclude_tags: tag keys to omit (e.g. cover, mb_artistid)")
	fmt.Println("  use_catalog: true/false (MusicBrainz enrichment)")
	fmt.Println("  fetch_lyrics: true/false (LRCLib lyrics)")

	os.Exit(0)
	return nil
}

// printUsage displays the help message
func printUsage() {
	fmt.Println("tigertag - reconcile noisy media metadata into clean music tags")
	fmt.Println()
	fmt.Println("Usage: tigertag [options] <directory>")
	fmt.Println()
	fmt.Println("The directory is scanned for yt-dlp style *.info.json records; each is")
	fmt.Println("paired with the audio file sharing its name, given a reconciled tag set")
	fmt.Println("(voting over the raw fields, MusicBrainz enrichment, square cover art)")
	fmt.Println("and written in place.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose              Show detailed output")
	fmt.Println("  -n, --dry-run              Print the reconciled tags without writing")
	fmt.Println("  -p, --parallel <n>         Tracks tagged in parallel (1-10, default: 4)")
	fmt.Println("  -f, --cover-format <fmt>   Cover format: jpg or png (default: jpg)")
	fmt.Println("  -m, --crop-mode <mode>     Cover squaring: auto, crop or pad (default: auto)")
	fmt.Println("  -x, --exclude <key>        Omit a tag key (repeatable)")
	fmt.Println("      --no-catalog           Skip MusicBrainz enrichment")
	fmt.Println("      --ids-only             Attach catalog ids but keep the voted tags")
	fmt.Println("  -l, --lyrics               Fetch lyrics from LRCLib")
	fmt.Println("  -c, --config <path>        Path to config file")
	fmt.Println("  -h, --help                 Show this help message")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  --init-config              Create a default config file")
	fmt.Println()
	fmt.Println("Config file locations (checked in order):")
	fmt.Println("  ./tigertag.yaml")
	fmt.Println("  ~/.config/tigertag/config.yaml")
	fmt.Println("  ~/.tigertag.yaml")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Preview the reconciled tags")
	fmt.Println("  tigertag --dry-run ~/Music/incoming")
	fmt.Println()
	fmt.Println("  # Tag with PNG covers, no catalog enrichment")
	fmt.Println("  tigertag -f png --no-catalog ~/Music/incoming")
}
