// Package musicbrainz implements catalog matching against the MusicBrainz
// Web API: fuzzy-matching search candidates and extracting canonical
// identifiers, titles and dates.
package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"tigertag/internal/fetch"
	"tigertag/internal/logger"
	"tigertag/internal/metadata"
)

// ErrEmptyTitle is returned when a match is attempted without a title seed.
// This is an input error and propagates; it is never coerced into an empty
// result.
var ErrEmptyTitle = errors.New("musicbrainz: title seed is required")

// Client is a MusicBrainz catalog matcher implementing metadata.Catalog.
// All requests go through the shared caching fetch client, so identical
// queries within the cache TTL never re-hit the network.
type Client struct {
	fetch  *fetch.Client
	apiURL string
	log    *logger.Logger
}

// New creates a Client on top of a fetch client.
func New(f *fetch.Client, log *logger.Logger) *Client {
	return &Client{
		fetch:  f,
		apiURL: "https://musicbrainz.org/ws/2",
		log:    log,
	}
}

func (c *Client) Name() string { return "musicbrainz" }

// Match searches the recording endpoint with the given seeds and scans the
// candidates for a fuzzy match. The title is normalized before searching.
// When no recording is accepted, falls back to an artist-only search so at
// least an artist identifier can be recovered.
func (c *Client) Match(ctx context.Context, title, artist, album string) (*metadata.MatchResult, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	title = metadata.CleanTitle(title)

	query := fmt.Sprintf("%s artist:%q release:%q", title, artist, album)
	var searchResp struct {
		Recordings []recording `json:"recordings"`
	}
	reqURL := fmt.Sprintf("%s/recording?query=%s&fmt=json", c.apiURL, url.QueryEscape(query))
	if err := c.getJSON(ctx, reqURL, &searchResp); err != nil {
		return nil, fmt.Errorf("recording search failed: %w", err)
	}

	result, accepted := scanRecordings(title, artist, album, searchResp.Recordings, c.log)
	if !accepted && len(result.ArtistIDs) == 0 {
		if err := c.matchArtist(ctx, artist, result); err != nil {
			c.log.Debug("artist fallback search failed: %v", err)
		}
	}
	return result, nil
}

// matchArtist bare-matches candidates from the artist search endpoint.
func (c *Client) matchArtist(ctx context.Context, artist string, result *metadata.MatchResult) error {
	var searchResp struct {
		Artists []artistInfo `json:"artists"`
	}
	reqURL := fmt.Sprintf("%s/artist?query=%s&fmt=json", c.apiURL, url.QueryEscape(artist))
	if err := c.getJSON(ctx, reqURL, &searchResp); err != nil {
		return err
	}
	for _, a := range searchResp.Artists {
		if bareArtistMatch(artist, a) {
			result.ArtistIDs = []string{a.ID}
			break
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	body, status, err := c.fetch.Get(ctx, url)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("musicbrainz returned %d: %s", status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode musicbrainz response: %w", err)
	}
	return nil
}

// MusicBrainz API response types.

type recording struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	FirstReleaseDate string         `json:"first-release-date"`
	ArtistCredit     []artistCredit `json:"artist-credit"`
	Releases         []release      `json:"releases"`
}

type artistCredit struct {
	Name       string     `json:"name"`
	JoinPhrase string     `json:"joinphrase"`
	Artist     artistInfo `json:"artist"`
}

type artistInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SortName string `json:"sort-name"`
}

type release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	ArtistCredit []artistCredit `json:"artist-credit"`
	ReleaseGroup releaseGroup   `json:"release-group"`
}

type releaseGroup struct {
	ID string `json:"id"`
}
