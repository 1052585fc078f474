package metadata

import (
	"strings"

	"tigertag/internal/logger"
	"tigertag/internal/rawinfo"
)

// Ballots holds the per-field candidate lists one source extractor
// collected from a raw record. Ephemeral: lives only for one synthesis.
type Ballots struct {
	Title       []Candidate
	Artist      []Candidate
	AlbumArtist []Candidate
	Album       []Candidate
}

// Extractor maps one source domain's raw keys and derived values onto
// per-field ballots. The supported sources form a closed set; unknown
// domains fall back to the video-host extractor.
type Extractor interface {
	Name() string
	Ballots(rec *rawinfo.Record) Ballots
}

// ForDomain selects the extractor for a source domain.
func ForDomain(domain string, log *logger.Logger) Extractor {
	switch domain {
	case "soundcloud.com":
		return audioHostExtractor{}
	case "youtube.com", "music.youtube.com":
		return videoHostExtractor{}
	default:
		if log != nil {
			log.Warn("unsupported domain %q, using video-host extractor as fallback", domain)
		}
		return videoHostExtractor{}
	}
}

// collect appends a candidate per key. Keys holding null are kept as nil
// candidates so the vote filter, not the lookup, discards them.
func collect(ballot *[]Candidate, rec *rawinfo.Record, keys ...string) {
	for _, key := range keys {
		switch f := rec.Field(key); f.State {
		case rawinfo.Set:
			*ballot = append(*ballot, TextCandidate(f.Text()))
		case rawinfo.Null:
			*ballot = append(*ballot, NullCandidate())
		}
	}
}

// videoHostExtractor handles YouTube-style records: uploads routinely carry
// an "Artist - Title" display title worth splitting.
type videoHostExtractor struct{}

func (videoHostExtractor) Name() string { return "videohost" }

func (videoHostExtractor) Ballots(rec *rawinfo.Record) Ballots {
	var b Ballots

	// Derived candidates go first: on a tie they beat the raw display
	// title, which still carries the "Artist - " prefix.
	for _, key := range []string{"title", "fulltitle"} {
		f := rec.Field(key)
		if !f.Ok() {
			continue
		}
		dashSplit(f.Text(), rec.Text("channel"), &b)
	}

	collect(&b.Title, rec, "title", "track", "alt_title")
	collect(&b.Artist, rec, "artist", "channel", "creator")
	collect(&b.Album, rec, "album")
	return b
}

// dashSplit derives artist and title candidates from a single "A - B"
// display title. Remix and animatic uploads are credited to the uploader
// rather than the left-hand label, since those titles name the reworked
// song, not its performer.
func dashSplit(raw, channel string, b *Ballots) {
	if strings.Count(raw, " - ") != 1 {
		return
	}
	left, right, _ := strings.Cut(raw, " - ")
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "animatic") || strings.Contains(lower, "remix") {
		b.Artist = append(b.Artist, TextCandidate(channel))
		b.Title = append(b.Title, TextCandidate(left))
		return
	}
	b.Artist = append(b.Artist, TextCandidate(left))
	b.Title = append(b.Title, TextCandidate(right))
}

// audioHostExtractor handles SoundCloud-style records. The platform has no
// album concept, and the uploader is the only artist signal.
type audioHostExtractor struct{}

func (audioHostExtractor) Name() string { return "audiohost" }

func (audioHostExtractor) Ballots(rec *rawinfo.Record) Ballots {
	var b Ballots
	collect(&b.Title, rec, "title", "fulltitle")
	collect(&b.Artist, rec, "uploader")
	collect(&b.AlbumArtist, rec, "uploader")
	return b
}
