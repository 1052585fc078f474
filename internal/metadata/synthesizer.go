package metadata

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tigertag/internal/logger"
	"tigertag/internal/rawinfo"
)

// Prober is the slice of the caching HTTP client the synthesizer needs to
// verify thumbnail URLs. Implemented by fetch.Client.
type Prober interface {
	Status(ctx context.Context, url string) (int, error)
}

// CoverSource produces square cover bytes for a URL. Implemented by
// cover.Processor.
type CoverSource interface {
	SquareCover(ctx context.Context, url string) ([]byte, error)
}

// Synthesizer turns one raw info record into a draft TagSet by voting over
// the candidate values a site extractor collects.
type Synthesizer struct {
	prober Prober
	cover  CoverSource
	log    *logger.Logger
}

// NewSynthesizer creates a Synthesizer. prober and cover may be nil, in
// which case thumbnail verification and cover bytes are skipped.
func NewSynthesizer(prober Prober, cover CoverSource, log *logger.Logger) *Synthesizer {
	return &Synthesizer{prober: prober, cover: cover, log: log}
}

// Synthesize builds a draft TagSet from a raw record. Title and Album are
// guaranteed non-empty on success. Network failures while probing
// thumbnails or fetching the cover degrade gracefully and never fail the
// synthesis.
func (s *Synthesizer) Synthesize(ctx context.Context, rec *rawinfo.Record) (*TagSet, error) {
	ballots := ForDomain(rec.Domain(), s.log).Ballots(rec)

	tags := &TagSet{
		Track:      1,
		TrackTotal: 1,
		CoverURL:   s.resolveThumbnail(ctx, rec),
	}

	// Playlist entries carry their position; loose tracks stay 1/1.
	if idx := rec.Text("playlist_index"); idx != "" {
		if n, err := strconv.Atoi(idx); err == nil && n > 0 {
			tags.Track = n
		}
	}
	if count := rec.Text("n_entries"); count != "" {
		if n, err := strconv.Atoi(count); err == nil && n > 0 {
			tags.TrackTotal = n
		}
	}

	// Age-gated uploads carry the explicit advisory.
	if limit, err := strconv.Atoi(rec.Text("age_limit")); err == nil && limit >= 18 {
		tags.Rating = 1
	}

	titleWin, _, err := Vote(ballots.Title)
	if err != nil {
		return nil, fmt.Errorf("no title candidates in record %q: %w", rec.ID(), err)
	}
	artistWin, _, err := Vote(ballots.Artist)
	if err != nil {
		return nil, fmt.Errorf("no artist candidates in record %q: %w", rec.ID(), err)
	}
	// The album-artist ballot is seeded with the artist winner, so it can
	// never come up empty.
	albumArtistBallot := append([]Candidate{artistWin}, ballots.AlbumArtist...)
	albumArtistWin, _, err := Vote(albumArtistBallot)
	if err != nil {
		return nil, err
	}

	tags.Title = CleanTitle(titleWin.Value())
	tags.Artist = []string{artistWin.Value()}
	tags.AlbumArtist = []string{albumArtistWin.Value()}

	albumBallot := ballots.Album
	if !rec.Field("album").Ok() && len(albumBallot) == 0 {
		albumBallot = append(albumBallot, TextCandidate(tags.Title+" (Single)"))
	}
	albumWin, _, err := Vote(albumBallot)
	if err != nil {
		// Album key present but null: fall back to the single form so the
		// album invariant holds.
		albumWin = TextCandidate(tags.Title + " (Single)")
	}
	tags.Album = albumWin.Value()

	s.deriveDate(rec, tags)

	if strings.Contains(tags.Album, "(Single)") {
		tags.Comment = SingleComment
	}

	if s.cover != nil && tags.CoverURL != "" {
		cover, err := s.cover.SquareCover(ctx, tags.CoverURL)
		if err != nil {
			s.log.Warn("cover processing failed for %q: %v", rec.ID(), err)
		} else {
			tags.CoverBytes = cover
		}
	}
	return tags, nil
}

// deriveDate fills Year and Date from release_date/upload_date (YYYYMMDD)
// or an explicit release year, defaulting month and day to 01.
func (s *Synthesizer) deriveDate(rec *rawinfo.Record, tags *TagSet) {
	parts := DateParts{Month: "01", Day: "01"}

	raw := rec.Text("release_date")
	if raw == "" {
		raw = rec.Text("upload_date")
	}
	if raw != "" {
		parsed, err := ParseDateString(raw)
		if err != nil {
			s.log.Warn("record %q: %v", rec.ID(), err)
		} else {
			parts = parsed
		}
	}
	if parts.Year == "" {
		parts.Year = rec.Text("release_year")
	}
	if parts.Year == "" {
		s.log.Debug("record %q has no date signal, leaving year unset", rec.ID())
		return
	}
	tags.Year = parts.Year
	tags.Date = parts.ISO() + "T00:00:00Z"
}

// resolveThumbnail walks the record's thumbnail variants from most to least
// preferred: first any maxres variant that actually resolves, then any
// jpg/png that does, finally the record's default thumbnail field. Probe
// failures skip to the next candidate.
func (s *Synthesizer) resolveThumbnail(ctx context.Context, rec *rawinfo.Record) string {
	thumbs := rec.Thumbnails()
	if s.prober == nil || len(thumbs) == 0 {
		return rec.Text("thumbnail")
	}

	// yt-dlp lists thumbnails least-preferred first.
	ordered := make([]rawinfo.Thumbnail, len(thumbs))
	for i, t := range thumbs {
		ordered[len(thumbs)-1-i] = t
	}

	probed := make(map[string]bool)
	probe := func(url string) bool {
		if probed[url] {
			return false
		}
		probed[url] = true
		status, err := s.prober.Status(ctx, url)
		if err != nil {
			s.log.Debug("thumbnail probe failed for %s: %v", url, err)
			return false
		}
		return status != http.StatusNotFound
	}

	for _, t := range ordered {
		if isMaxRes(t.URL) && probe(t.URL) {
			return t.URL
		}
	}
	for _, t := range ordered {
		if hasImageExt(t.URL) && probe(t.URL) {
			return t.URL
		}
	}
	return rec.Text("thumbnail")
}

func isMaxRes(url string) bool {
	return strings.HasSuffix(url, "/maxresdefault.jpg") || strings.HasSuffix(url, "/maxresdefault.png")
}

func hasImageExt(url string) bool {
	return strings.HasSuffix(url, ".jpg") || strings.HasSuffix(url, ".png")
}
