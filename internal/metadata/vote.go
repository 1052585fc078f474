package metadata

import (
	"errors"
	"sort"
	"strconv"
)

// ErrNoCandidates is returned when a ballot has no usable candidate left
// after filtering. Callers must seed every ballot with at least one real
// value, so hitting this is a programming error, not bad input.
var ErrNoCandidates = errors.New("vote: no valid candidates")

// DateParts is a structured year/month/day candidate. Month and day are
// zero-padded 2-digit strings, year a 4-digit string.
type DateParts struct {
	Year  string
	Month string
	Day   string
}

// ISO renders the parts as YYYY-MM-DD.
func (d DateParts) ISO() string {
	return d.Year + "-" + d.Month + "-" + d.Day
}

// Candidate is one vote for a field value: either plain text or a
// structured date. Nil candidates survive until Vote so that "key present
// but null" sources stay visible to the filter step.
type Candidate struct {
	Text string
	Date *DateParts
	Nil  bool
}

// TextCandidate wraps a plain string vote.
func TextCandidate(s string) Candidate { return Candidate{Text: s} }

// IntCandidate stringifies an integer vote before counting.
func IntCandidate(n int) Candidate { return Candidate{Text: strconv.Itoa(n)} }

// DateCandidate wraps a structured date vote.
func DateCandidate(year, month, day string) Candidate {
	return Candidate{Date: &DateParts{Year: year, Month: month, Day: day}}
}

// NullCandidate marks a source that was present but held null.
func NullCandidate() Candidate { return Candidate{Nil: true} }

// Value renders the candidate for tag use. Date candidates collapse to
// their year, which is all a voted field ever consumes of them.
func (c Candidate) Value() string {
	if c.Date != nil {
		return c.Date.Year
	}
	return c.Text
}

// key is the counting identity. Dates live in their own keyspace so a year
// string and a full date with the same year stay distinct ballot entries.
func (c Candidate) key() string {
	if c.Date != nil {
		return "\x00date\x00" + c.Date.ISO()
	}
	return c.Text
}

// Vote picks the most frequent candidate. Nil candidates and the literal
// string "null" are discarded first. Ties resolve to the first-encountered
// value, except that a bare string beats a structured date at equal count:
// the simpler representation wins the field and the richer one stays
// available for separate date derivation.
//
// Returns the winner and the filtered candidate list (duplicates kept) for
// traceability.
func Vote(candidates []Candidate) (Candidate, []Candidate, error) {
	var cleaned []Candidate
	for _, c := range candidates {
		if c.Nil || c.Text == "null" {
			continue
		}
		cleaned = append(cleaned, c)
	}
	if len(cleaned) == 0 {
		return Candidate{}, nil, ErrNoCandidates
	}

	counts := make(map[string]int)
	byKey := make(map[string]Candidate)
	var order []string
	for _, c := range cleaned {
		k := c.key()
		if counts[k] == 0 {
			order = append(order, k)
			byKey[k] = c
		}
		counts[k]++
	}

	// Stable sort keeps insertion order among equal counts.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	winner := byKey[order[0]]
	if len(order) > 1 && counts[order[0]] == counts[order[1]] {
		second := byKey[order[1]]
		if winner.Date != nil && second.Date == nil {
			winner = second
		}
	}
	return winner, cleaned, nil
}
