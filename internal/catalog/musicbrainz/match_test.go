package musicbrainz

import "testing"

func TestDigitsMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Track 2", "Track 02", true},
		{"2:09", "02:09", true},
		{"Track 2", "track 2", true},
		{"Track 2", "Track 3", false},
		{"100", "100", true},
		{"10", "100", false},
	}
	for _, tt := range tests {
		if got := digitsMatch(tt.a, tt.b); got != tt.want {
			t.Errorf("digitsMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTitleMatch(t *testing.T) {
	tests := []struct {
		seed, catalog string
		want          bool
	}{
		{"Song Name", "Song Name", true},
		{"song name", "Song Name", true},
		{"Song – Part 2", "Song - Part 02", true}, // en dash and zero padding
		{"Song Name (feat. Someone)", "Song Name", true},
		{"Song Name ft. Someone", "Song Name", true},
		{"Song Name", "Other Song", false},
	}
	for _, tt := range tests {
		if got := titleMatch(tt.seed, tt.catalog); got != tt.want {
			t.Errorf("titleMatch(%q, %q) = %v, want %v", tt.seed, tt.catalog, got, tt.want)
		}
	}
}

func TestBareArtistMatch(t *testing.T) {
	a := artistInfo{ID: "id", Name: "Kikuo", SortName: "Kikuo"}
	if !bareArtistMatch("Kikuo", a) {
		t.Error("exact name should match")
	}
	if !bareArtistMatch("kikuo", a) {
		t.Error("case-insensitive name should match")
	}
	b := artistInfo{ID: "id", Name: "The Beatles", SortName: "Beatles, The"}
	if !bareArtistMatch("Beatles, The", b) {
		t.Error("sort-name should match")
	}
	if bareArtistMatch("Rolling Stones", b) {
		t.Error("unrelated name should not match")
	}
}

func TestArtistMatchMultiCredit(t *testing.T) {
	credits := []artistCredit{
		{Name: "A", JoinPhrase: " & ", Artist: artistInfo{ID: "a1", Name: "A"}},
		{Name: "B", Artist: artistInfo{ID: "b1", Name: "B"}},
	}

	if !artistMatch("A & B", credits) {
		t.Error("seed in credit order should match")
	}
	if !artistMatch("B & A", credits) {
		t.Error("seed in reverse order should match")
	}
	if artistMatch("A & C", credits) {
		t.Error("an unknown collaborator should reject the credit")
	}
}

func TestArtistMatchSingleCredit(t *testing.T) {
	credits := []artistCredit{{Name: "A & B", Artist: artistInfo{ID: "x", Name: "A & B"}}}
	// A single credit is matched whole, even when the name contains the
	// default join phrase.
	if !artistMatch("A & B", credits) {
		t.Error("single-credit whole-name match failed")
	}
}

func TestAlbumMatch(t *testing.T) {
	tests := []struct {
		name    string
		seed    string
		release string
		loose   bool
		want    bool
	}{
		{"exact", "Great Album", "Great Album", false, true},
		{"case fold", "great album", "Great Album", false, true},
		{"single suffix stripped", "Song Name (Single)", "Song Name", false, true},
		{"digit padding", "Volume 2", "Volume 02", false, true},
		{"strict rejects edition suffix", "Great Album", "Great Album (Deluxe Edition)", false, false},
		{"loose accepts edition suffix", "Great Album", "Great Album (Deluxe Edition)", true, true},
		{"loose still rejects unrelated", "Great Album", "Something Else", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := albumMatch(tt.seed, tt.release, tt.loose); got != tt.want {
				t.Errorf("albumMatch(%q, %q, %v) = %v, want %v",
					tt.seed, tt.release, tt.loose, got, tt.want)
			}
		})
	}
}

func TestNormalizePartialDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2021", "2021-01-01", true},
		{"2021-10", "2021-10-01", true},
		{"202110", "2021-10-01", true},
		{"2021-10-19", "2021-10-19", true},
		{"20211019", "2021-10-19", true},
		{"next year", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizePartialDate(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("normalizePartialDate(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestScanRecordings(t *testing.T) {
	recordings := []recording{
		{
			// No releases: skipped entirely.
			ID:           "skip-me",
			Title:        "Song Name",
			ArtistCredit: []artistCredit{{Artist: artistInfo{ID: "a1", Name: "Artist"}}},
		},
		{
			ID:               "rec-1",
			Title:            "Song Name",
			FirstReleaseDate: "2021-10",
			ArtistCredit:     []artistCredit{{Artist: artistInfo{ID: "a1", Name: "Artist"}}},
			Releases: []release{
				{ID: "rel-1", Title: "Song Name", Date: "2021-10-19",
					ReleaseGroup: releaseGroup{ID: "rg-1"}},
			},
		},
	}

	result, accepted := scanRecordings("Song Name", "Artist", "Song Name (Single)", recordings, nil)
	if !accepted {
		t.Fatal("expected a full match")
	}
	if result.TrackID != "rec-1" {
		t.Errorf("TrackID = %q", result.TrackID)
	}
	if result.ReleaseGroupID != "rg-1" {
		t.Errorf("ReleaseGroupID = %q", result.ReleaseGroupID)
	}
	if len(result.ArtistIDs) != 1 || result.ArtistIDs[0] != "a1" {
		t.Errorf("ArtistIDs = %v", result.ArtistIDs)
	}
	if result.Date != "2021-10-01" {
		t.Errorf("Date = %q, want the padded first-release-date", result.Date)
	}
}

func TestScanRecordingsPartial(t *testing.T) {
	recordings := []recording{
		{
			ID:           "rec-1",
			Title:        "Different Song",
			ArtistCredit: []artistCredit{{Artist: artistInfo{ID: "a1", Name: "Artist"}}},
			Releases:     []release{{ID: "rel-1", Title: "Unrelated Album"}},
		},
	}

	result, accepted := scanRecordings("Song Name", "Artist", "Album", recordings, nil)
	if accepted {
		t.Fatal("nothing should fully match")
	}
	if result.TrackID != "" {
		t.Errorf("TrackID = %q, want empty on partial match", result.TrackID)
	}
	if len(result.ArtistIDs) != 1 || result.ArtistIDs[0] != "a1" {
		t.Errorf("ArtistIDs = %v, artist alone still matched", result.ArtistIDs)
	}
}
