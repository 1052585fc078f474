package musicbrainz

import (
	"regexp"
	"strings"

	"tigertag/internal/logger"
	"tigertag/internal/metadata"
)

// scanRecordings walks search candidates in order and extracts whatever
// matches: artist identifiers on an artist match, release-group id on an
// album match, and the track id once title, artist and album all match the
// same recording, at which point the scan stops. Returns the accumulated
// result and whether a recording was fully accepted.
func scanRecordings(title, artist, album string, recordings []recording, log *logger.Logger) (*metadata.MatchResult, bool) {
	result := &metadata.MatchResult{}

	for _, rec := range recordings {
		if len(rec.ArtistCredit) == 0 || len(rec.Releases) == 0 {
			continue
		}

		titleOK := titleMatch(title, rec.Title)
		artistOK := artistMatch(artist, rec.ArtistCredit)
		if artistOK {
			result.Artists = creditNames(rec.ArtistCredit)
			result.ArtistIDs = creditIDs(rec.ArtistCredit)
		}

		albumOK := false
		for _, rel := range rec.Releases {
			if albumMatch(album, rel.Title, titleOK && artistOK) {
				result.Album = rel.Title
				result.ReleaseGroupID = rel.ReleaseGroup.ID
				albumOK = true
				break
			}
		}

		if titleOK && artistOK && albumOK {
			result.TrackID = rec.ID
			result.Title = rec.Title
			if date, ok := canonicalDate(rec, log); ok {
				result.Date = date
			}
			return result, true
		}
	}
	return result, false
}

func creditNames(credits []artistCredit) []string {
	names := make([]string, 0, len(credits))
	for _, c := range credits {
		names = append(names, c.Artist.Name)
	}
	return names
}

func creditIDs(credits []artistCredit) []string {
	ids := make([]string, 0, len(credits))
	for _, c := range credits {
		ids = append(ids, c.Artist.ID)
	}
	return ids
}

// leadingZeros strips zero padding from numeral tokens so "02:09" compares
// equal to "2:09".
var leadingZeros = regexp.MustCompile(`\b0+([1-9])`)

func digitsMatch(a, b string) bool {
	strip := func(s string) string {
		return leadingZeros.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "$1")
	}
	return strip(a) == strip(b)
}

// hyphenVariants folds unicode hyphen/dash lookalikes to ASCII.
var hyphenVariants = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
)

// trailing "feat. X" / "ft. X" clauses, bracketed or bare.
var featClause = regexp.MustCompile(`(?i)\s*[([]?\s*(?:feat\.?|ft\.?)\s+[^)\]]*[)\]]?\s*$`)

func normalizeTitle(s string) string {
	s = hyphenVariants.Replace(s)
	s = featClause.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// titleMatch compares a title seed against a catalog recording title:
// exact, case-insensitive, or equivalent after digit/hyphen/feat-clause
// normalization.
func titleMatch(seed, catalogTitle string) bool {
	if seed == catalogTitle || strings.EqualFold(seed, catalogTitle) {
		return true
	}
	return digitsMatch(normalizeTitle(seed), normalizeTitle(catalogTitle))
}

// bareArtistMatch is a direct comparison between a plain artist-name string
// and one catalog artist entity, by primary name or sort-name.
func bareArtistMatch(name string, a artistInfo) bool {
	return name == a.Name || strings.EqualFold(name, a.Name) ||
		name == a.SortName || strings.EqualFold(name, a.SortName)
}

// artistMatch handles multi-artist credits: the seed string is split on the
// credit's first join-phrase (video platforms join collaborators with "&")
// and every split name must bare-match some credited artist, in any order.
// Single-artist credits bare-match the whole seed.
func artistMatch(seed string, credits []artistCredit) bool {
	if len(credits) == 1 {
		return bareArtistMatch(seed, credits[0].Artist)
	}

	join := strings.TrimSpace(credits[0].JoinPhrase)
	if join == "" {
		join = "&"
	}
	for _, part := range strings.Split(seed, join) {
		part = strings.TrimSpace(part)
		found := false
		for _, credit := range credits {
			if bareArtistMatch(part, credit.Artist) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// albumMatch compares an album seed against a catalog release title:
// exact, case-insensitive, "(Single)"-suffix-stripped, or digit-normalized.
// Once title and artist have already matched, the rule loosens to
// containment so catalog titles with edition suffixes still match. That
// asymmetry can false-positive on very short album names; accepted risk.
func albumMatch(seed, releaseTitle string, loose bool) bool {
	stripped := strings.TrimSpace(strings.ReplaceAll(seed, "(Single)", ""))
	if seed == releaseTitle || strings.EqualFold(seed, releaseTitle) ||
		stripped == releaseTitle || strings.EqualFold(stripped, releaseTitle) ||
		digitsMatch(seed, releaseTitle) {
		return true
	}
	if loose {
		return strings.Contains(
			strings.ToLower(normalizeTitle(releaseTitle)),
			strings.ToLower(normalizeTitle(stripped)),
		)
	}
	return false
}

// canonicalDate extracts the recording's canonical date: the
// first-release-date when present, else the first release carrying a date.
// Partial dates are normalized to YYYY-MM-DD; unrecognized formats are
// logged and skipped.
func canonicalDate(rec recording, log *logger.Logger) (string, bool) {
	try := func(raw string) (string, bool) {
		if raw == "" {
			return "", false
		}
		date, ok := normalizePartialDate(raw)
		if !ok && log != nil {
			log.Warn("unrecognized catalog date %q for recording %s", raw, rec.ID)
		}
		return date, ok
	}

	if date, ok := try(rec.FirstReleaseDate); ok {
		return date, true
	}
	for _, rel := range rec.Releases {
		if date, ok := try(rel.Date); ok {
			return date, true
		}
	}
	return "", false
}

var (
	yearOnly    = regexp.MustCompile(`^\d{4}$`)
	yearMonth   = regexp.MustCompile(`^\d{4}-?\d{2}$`)
	fullCompact = regexp.MustCompile(`^\d{8}$`)
	fullDashed  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// normalizePartialDate expands YYYY, YYYYMM, YYYY-MM, YYYYMMDD and
// YYYY-MM-DD to a full YYYY-MM-DD, defaulting missing month and day to 01.
func normalizePartialDate(s string) (string, bool) {
	switch {
	case yearOnly.MatchString(s):
		return s + "-01-01", true
	case fullDashed.MatchString(s):
		return s, true
	case fullCompact.MatchString(s):
		return s[0:4] + "-" + s[4:6] + "-" + s[6:8], true
	case yearMonth.MatchString(s):
		if strings.Contains(s, "-") {
			return s + "-01", true
		}
		return s[0:4] + "-" + s[4:6] + "-01", true
	default:
		return "", false
	}
}
