package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"tigertag/internal/catalog/musicbrainz"
	"tigertag/internal/config"
	"tigertag/internal/cover"
	"tigertag/internal/fetch"
	"tigertag/internal/logger"
	"tigertag/internal/lyrics"
	"tigertag/internal/metadata"
	"tigertag/internal/pipeline"
	"tigertag/internal/shutdown"
	"tigertag/pkg/utils"
)

func main() {
	cfg, configPath, err := parseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	sh := shutdown.New()
	sh.Listen()

	log := logger.New(cfg.Verbose)
	defer log.Close()
	// The signal path exits without running defers.
	sh.AddCleanup(func() { log.Close() })

	if !cfg.Verbose {
		logDir := config.GetDefaultLogPath()
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to create log directory: %v\n", err)
		} else {
			logFile := filepath.Join(logDir, fmt.Sprintf("tigertag_%s.log", time.Now().Format("2006-01-02_15-04-05")))
			if err := log.SetFileLog(logFile); err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] Failed to setup file logging: %v\n", err)
			} else {
				log.Debug("Logging to file: %s", logFile)
			}
		}
	}

	if cfg.Verbose && configPath != "" {
		log.Debug("Loaded configuration from: %s", configPath)
	}

	tracks, err := utils.FindTracks(cfg.InputDir)
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	if len(tracks) == 0 {
		log.Error("no *.info.json records found in %s", cfg.InputDir)
		os.Exit(1)
	}
	log.Info("=== Tagging %d tracks from %s ===", len(tracks), cfg.InputDir)

	cacheTTL := time.Duration(cfg.CacheTTLMinutes) * time.Minute

	// MusicBrainz etiquette: one request per second. Thumbnails and covers
	// come from CDN hosts and only need the cache, not the limiter.
	catalogFetch := fetch.New(fetch.Options{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cacheTTL,
		RateLimit: rate.Every(time.Second),
	})
	imageFetch := fetch.New(fetch.Options{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cacheTTL,
	})

	coverProc := cover.NewProcessor(imageFetch, cfg.CoverFormat, cfg.CoverCropMode, log)
	synth := metadata.NewSynthesizer(imageFetch, coverProc, log)

	var catalog metadata.Catalog
	if cfg.UseCatalog {
		catalog = musicbrainz.New(catalogFetch, log)
	}
	var lyr *lyrics.Client
	if cfg.FetchLyrics {
		lyr = lyrics.NewClient()
	}

	result, err := pipeline.New(cfg, log, synth, catalog, lyr).Run(sh.Context(), tracks)
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	for _, f := range result.Failures {
		log.Warn("failed: %v", f)
	}
	log.Info("=== Tagged %d of %d tracks ===", result.Tagged, len(tracks))
	if len(result.Failures) > 0 {
		os.Exit(1)
	}
}
