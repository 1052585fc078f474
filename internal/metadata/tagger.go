package metadata

import (
	"fmt"
	"strconv"
	"time"

	"go.senan.xyz/taglib"
)

// TagLib property keys without a named constant in the taglib bindings.
const (
	propTrackTotal       = "TRACKTOTAL"
	propAdvisory         = "ITUNESADVISORY"
	propComment          = "COMMENT"
	propLyrics           = "LYRICS"
	propMBTrackID        = "MUSICBRAINZ_TRACKID"
	propMBReleaseGroupID = "MUSICBRAINZ_RELEASEGROUPID"
	propMBArtistID       = "MUSICBRAINZ_ARTISTID"
	propMBAlbumArtistID  = "MUSICBRAINZ_ALBUMARTISTID"
)

// WriteTags replaces the audio file's tags with the given tag set.
// Keys named in exclude are skipped; "cover" excludes artwork embedding.
// Existing tags are cleared first so stale source-provider tags never
// survive next to the reconciled ones.
func WriteTags(path string, t *TagSet, exclude map[string]bool) error {
	tags := make(map[string][]string)

	set := func(key, excludeKey string, values ...string) {
		if exclude[excludeKey] || len(values) == 0 {
			return
		}
		for _, v := range values {
			if v == "" {
				return
			}
		}
		tags[key] = values
	}

	set(taglib.Title, "title", t.Title)
	set(taglib.Artist, "artist", t.Artist...)
	set(taglib.AlbumArtist, "albumartist", t.AlbumArtist...)
	set(taglib.Album, "album", t.Album)
	if t.Track > 0 {
		set(taglib.TrackNumber, "track", strconv.Itoa(t.Track))
	}
	if t.TrackTotal > 0 {
		set(propTrackTotal, "tracktotal", strconv.Itoa(t.TrackTotal))
	}
	set(taglib.Date, "date", tagDate(t))
	if t.Rating > 0 {
		set(propAdvisory, "rating", strconv.Itoa(t.Rating))
	}
	set(propComment, "comments", t.Comment)
	set(propLyrics, "lyrics", t.Lyrics)

	set(propMBTrackID, "mb_releasetrackid", t.CatalogTrackID)
	set(propMBReleaseGroupID, "mb_releasegroupid", t.CatalogReleaseGroupID)
	set(propMBArtistID, "mb_artistid", t.CatalogArtistIDs...)
	set(propMBAlbumArtistID, "mb_albumartistid", t.CatalogAlbumArtistID)

	// Single disc, always. Matches what the tag consumers downstream expect
	// for loose tracks.
	tags[taglib.DiscNumber] = []string{"1"}

	if err := taglib.WriteTags(path, tags, taglib.Clear); err != nil {
		return fmt.Errorf("failed to write tags to %s: %w", path, err)
	}

	if !exclude["cover"] && len(t.CoverBytes) > 0 {
		if err := taglib.WriteImage(path, t.CoverBytes); err != nil {
			return fmt.Errorf("failed to write artwork to %s: %w", path, err)
		}
	}
	return nil
}

// tagDate renders the date tag: the full date when known, else the year.
func tagDate(t *TagSet) string {
	if t.Date != "" {
		if parsed, err := time.Parse(time.RFC3339, t.Date); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return t.Year
}
