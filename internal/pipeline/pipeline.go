// Package pipeline drives the per-track tagging flow: raw info record →
// synthesized draft tags → optional catalog and lyrics enrichment → tag
// write. Tracks are independent; one track's failure never aborts its
// siblings.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/semaphore"

	"tigertag/internal/config"
	"tigertag/internal/logger"
	"tigertag/internal/lyrics"
	"tigertag/internal/metadata"
	"tigertag/internal/rawinfo"
	"tigertag/pkg/utils"
)

// Stage names the pipeline step a failure happened in, so batch reports can
// say what broke, not just that something did.
type Stage string

const (
	StageParse     Stage = "parse"
	StageSynthesis Stage = "synthesis"
	StageCatalog   Stage = "catalog"
	StageLyrics    Stage = "lyrics"
	StageWrite     Stage = "write"
)

// Failure describes one track that could not be tagged.
type Failure struct {
	ID    string
	Stage Stage
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s stage: %v", f.ID, f.Stage, f.Err)
}

// Result summarizes a batch run.
type Result struct {
	Tagged   int
	Skipped  int
	Failures []Failure
}

// Pipeline wires the synthesizer, catalog matcher and lyrics provider
// together for batch runs. Catalog and lyrics are optional.
type Pipeline struct {
	cfg     config.Config
	log     *logger.Logger
	synth   *metadata.Synthesizer
	catalog metadata.Catalog
	lyrics  *lyrics.Client
}

// New creates a Pipeline. catalog and lyr may be nil to disable enrichment.
func New(cfg config.Config, log *logger.Logger, synth *metadata.Synthesizer, catalog metadata.Catalog, lyr *lyrics.Client) *Pipeline {
	return &Pipeline{cfg: cfg, log: log, synth: synth, catalog: catalog, lyrics: lyr}
}

// Run processes tracks with bounded parallelism. Per-track failures are
// collected, not propagated; the returned error is non-nil only when the
// whole batch failed or the context was cancelled.
func (p *Pipeline) Run(ctx context.Context, tracks []utils.Track) (Result, error) {
	sem := semaphore.NewWeighted(int64(p.cfg.ParallelJobs))
	var mu sync.Mutex
	var result Result

	for i, track := range tracks {
		if err := sem.Acquire(ctx, 1); err != nil {
			return result, err
		}
		go func(n int, track utils.Track) {
			defer sem.Release(1)

			id, err := p.processTrack(ctx, track)
			mu.Lock()
			defer mu.Unlock()
			var failure Failure
			switch {
			case err == nil:
				result.Tagged++
				p.log.Debug("[%d/%d] tagged %s", n+1, len(tracks), id)
			case errors.As(err, &failure):
				result.Failures = append(result.Failures, failure)
				p.log.Warn("[%d/%d] %v", n+1, len(tracks), failure)
			default:
				result.Failures = append(result.Failures, Failure{ID: id, Stage: StageParse, Err: err})
				p.log.Warn("[%d/%d] %s: %v", n+1, len(tracks), id, err)
			}
		}(i, track)
	}

	// Draining the semaphore waits for all workers.
	if err := sem.Acquire(ctx, int64(p.cfg.ParallelJobs)); err != nil {
		return result, err
	}

	if len(tracks) > 0 && len(result.Failures) == len(tracks) {
		return result, fmt.Errorf("all %d tracks failed", len(tracks))
	}
	return result, nil
}

// processTrack runs one track end to end. Returns the track's identifier
// for reporting and a Failure-typed error naming the failing stage.
func (p *Pipeline) processTrack(ctx context.Context, track utils.Track) (string, error) {
	id := track.InfoPath

	data, err := os.ReadFile(track.InfoPath)
	if err != nil {
		return id, Failure{ID: id, Stage: StageParse, Err: err}
	}
	rec, err := rawinfo.Parse(data)
	if err != nil {
		return id, Failure{ID: id, Stage: StageParse, Err: err}
	}
	if rid := rec.ID(); rid != "" {
		id = rid
	}
	if rec.IsPlaylist() {
		return id, Failure{ID: id, Stage: StageParse,
			Err: fmt.Errorf("playlist records must be expanded before tagging (%d entries)", len(rec.Entries()))}
	}

	tags, err := p.ProcessRecord(ctx, rec)
	if err != nil {
		return id, err
	}

	if p.cfg.DryRun {
		p.log.Info("%s: %s - %s (%s)", id, tags.ArtistString(), tags.Title, tags.Album)
		return id, nil
	}
	if track.AudioPath == "" {
		return id, Failure{ID: id, Stage: StageWrite, Err: fmt.Errorf("no audio file next to %s", track.InfoPath)}
	}
	if err := metadata.WriteTags(track.AudioPath, tags, p.cfg.ExcludeSet()); err != nil {
		return id, Failure{ID: id, Stage: StageWrite, Err: err}
	}
	return id, nil
}

// ProcessRecord builds the final tag set for one raw record: synthesis,
// then catalog and lyrics enrichment. Enrichment failures degrade to the
// draft tags, matching the rule that upstream outages cost enrichment,
// never the track.
func (p *Pipeline) ProcessRecord(ctx context.Context, rec *rawinfo.Record) (*metadata.TagSet, error) {
	tags, err := p.synth.Synthesize(ctx, rec)
	if err != nil {
		return nil, Failure{ID: rec.ID(), Stage: StageSynthesis, Err: err}
	}

	if p.catalog != nil && p.cfg.UseCatalog {
		res, err := p.catalog.Match(ctx, tags.Title, tags.ArtistString(), tags.Album)
		if err != nil {
			p.log.Warn("%s: catalog enrichment skipped: %v", rec.ID(), err)
		} else {
			tags.ApplyMatch(res, metadata.EnrichOptions{
				UseCatalogData: p.cfg.UseCatalogData,
				Exclude:        p.cfg.ExcludeSet(),
			})
		}
	}

	if p.lyrics != nil && p.cfg.FetchLyrics {
		res, err := p.lyrics.Fetch(ctx, tags.ArtistString(), tags.Title, tags.Album)
		if err != nil {
			p.log.Debug("%s: lyrics lookup failed: %v", rec.ID(), err)
		} else {
			tags.Lyrics = res.Best()
		}
	}
	return tags, nil
}
