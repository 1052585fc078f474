package metadata

import "slices"

// EnrichOptions controls how a catalog match is folded into a TagSet.
type EnrichOptions struct {
	// UseCatalogData overwrites title/artist/album/date with the catalog's
	// canonical strings. Identifier fields are attached regardless.
	UseCatalogData bool
	// Exclude names tag keys that must not be written (user-facing keys
	// like "mb_releasetrackid" or "cover").
	Exclude map[string]bool
}

// ApplyMatch folds a catalog match into the tag set in place. Only fields
// the match actually recovered are touched; multi-artist identifier lists
// collapse to the first credited artist for the album-artist identifier,
// since common tag consumers accept a single value there.
func (t *TagSet) ApplyMatch(res *MatchResult, opts EnrichOptions) {
	if res == nil {
		return
	}

	if opts.UseCatalogData {
		if len(res.Artists) > 0 {
			t.Artist = slices.Clone(res.Artists)
			t.AlbumArtist = []string{res.Artists[0]}
		}
		if res.Album != "" {
			t.Album = res.Album
		}
		if res.Title != "" {
			t.Title = res.Title
		}
		if res.Date != "" {
			t.Date = res.Date + "T00:00:00Z"
			t.Year = res.Date[:4]
		}
	}

	excluded := func(key string) bool { return opts.Exclude[key] }
	if res.TrackID != "" && !excluded("mb_releasetrackid") {
		t.CatalogTrackID = res.TrackID
	}
	if res.ReleaseGroupID != "" && !excluded("mb_releasegroupid") {
		t.CatalogReleaseGroupID = res.ReleaseGroupID
	}
	if len(res.ArtistIDs) > 0 {
		if !excluded("mb_artistid") {
			t.CatalogArtistIDs = slices.Clone(res.ArtistIDs)
		}
		if !excluded("mb_albumartistid") {
			t.CatalogAlbumArtistID = res.ArtistIDs[0]
		}
	}
}
