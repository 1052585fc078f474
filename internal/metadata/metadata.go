package metadata

import (
	"context"
	"strings"
)

// SingleComment marks a track whose album was synthesized from the title
// because the source had no album concept for it.
const SingleComment = "tigertag:is_single:true"

// TagSet is the canonical tag bundle destined for an audio container.
// Built empty by the Synthesizer, progressively filled, optionally
// overwritten by catalog enrichment, and finally consumed read-only by the
// tag writer.
type TagSet struct {
	Title       string
	Artist      []string
	AlbumArtist []string
	Album       string
	Track       int
	TrackTotal  int
	Year        string // 4-digit string
	Date        string // ISO-8601 date-time at UTC midnight
	CoverURL    string
	CoverBytes  []byte
	Rating      int // explicit advisory: 1 for age-gated uploads
	Comment     string
	Lyrics      string

	// External catalog identifiers, attached by enrichment.
	CatalogTrackID        string
	CatalogReleaseGroupID string
	CatalogArtistIDs      []string
	CatalogAlbumArtistID  string
}

// ArtistString renders the artist list the way video platforms credit
// collaborations, which is also what the catalog matcher expects as a seed.
func (t *TagSet) ArtistString() string {
	return strings.Join(t.Artist, " & ")
}

// MatchResult is what one catalog match attempt recovered. Zero-valued
// fields mean the corresponding entity did not match; TrackID is only set
// when title, artist and album all matched the same recording.
type MatchResult struct {
	Title   string   // canonical recording title, set on full match
	Artists []string // canonical credited names, set on artist match
	Album   string   // canonical release title, set on album match
	Date    string   // YYYY-MM-DD, set when the catalog knew a date

	TrackID        string
	ReleaseGroupID string
	ArtistIDs      []string
}

// Catalog is implemented by external music catalog clients.
type Catalog interface {
	Name() string
	Match(ctx context.Context, title, artist, album string) (*MatchResult, error)
}
