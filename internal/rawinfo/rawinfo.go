// Package rawinfo parses the raw metadata bundle a source provider (yt-dlp
// style info JSON) produces for one track or playlist. All "key present vs
// key is null vs key holds something" decisions happen here so the rest of
// the code never touches loosely-typed maps.
package rawinfo

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// State classifies a raw key lookup.
type State int

const (
	// Missing means the key is not present in the record.
	Missing State = iota
	// Null means the key is present but holds JSON null.
	Null
	// Set means the key holds a usable value.
	Set
)

// Field is the result of a single raw key lookup.
type Field struct {
	State State
	value any
}

// Ok reports whether the field holds a usable value.
func (f Field) Ok() bool { return f.State == Set }

// Text renders the field value as a string. JSON numbers are rendered
// without an exponent so upload years survive the float64 round trip.
func (f Field) Text() string {
	if f.State != Set {
		return ""
	}
	switch v := f.value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Thumbnail is one entry of a record's thumbnail list.
type Thumbnail struct {
	URL        string
	Preference int
	Width      int
	Height     int
}

// Record is one track's (or playlist's) raw info bundle. Read-only.
type Record struct {
	data map[string]any
}

// Parse decodes a raw info JSON document.
func Parse(data []byte) (*Record, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse info record: %w", err)
	}
	return &Record{data: m}, nil
}

// FromMap wraps an already-decoded info object.
func FromMap(m map[string]any) *Record {
	return &Record{data: m}
}

// Field looks up a raw key and classifies the result.
func (r *Record) Field(key string) Field {
	v, ok := r.data[key]
	if !ok {
		return Field{State: Missing}
	}
	if v == nil {
		return Field{State: Null}
	}
	return Field{State: Set, value: v}
}

// Text is a convenience lookup returning "" for missing or null keys.
func (r *Record) Text(key string) string {
	return r.Field(key).Text()
}

// ID returns the record's source-side identifier.
func (r *Record) ID() string { return r.Text("id") }

// Domain returns the source domain tag, falling back to the host of the
// record's webpage URL when the provider omits the dedicated key.
func (r *Record) Domain() string {
	if d := r.Text("webpage_url_domain"); d != "" {
		return d
	}
	if raw := r.Text("webpage_url"); raw != "" {
		if u, err := url.Parse(raw); err == nil {
			return u.Hostname()
		}
	}
	return ""
}

// Thumbnails returns the record's thumbnail variants in provider order
// (least preferred first, matching yt-dlp's convention).
func (r *Record) Thumbnails() []Thumbnail {
	f := r.Field("thumbnails")
	if !f.Ok() {
		return nil
	}
	list, ok := f.value.([]any)
	if !ok {
		return nil
	}
	var thumbs []Thumbnail
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		t := Thumbnail{}
		if u, ok := m["url"].(string); ok {
			t.URL = u
		}
		if p, ok := m["preference"].(float64); ok {
			t.Preference = int(p)
		}
		if w, ok := m["width"].(float64); ok {
			t.Width = int(w)
		}
		if h, ok := m["height"].(float64); ok {
			t.Height = int(h)
		}
		if t.URL != "" {
			thumbs = append(thumbs, t)
		}
	}
	return thumbs
}

// Entries returns playlist children as records. Nil for single tracks.
func (r *Record) Entries() []*Record {
	f := r.Field("entries")
	if !f.Ok() {
		return nil
	}
	list, ok := f.value.([]any)
	if !ok {
		return nil
	}
	var entries []*Record
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			entries = append(entries, &Record{data: m})
		}
	}
	return entries
}

// IsPlaylist reports whether the record wraps multiple entries.
func (r *Record) IsPlaylist() bool {
	return len(r.Entries()) > 0
}
