package domain

import (
	"cmp"
	"encoding/json"
	"slices"
	"time"
)

// CanonicalSeries is an ordered, immutable sequence of normalized steps paired
// with the provider's issue time. Every accessor returns a copy.
type CanonicalSeries struct {
	entries  []SeriesEntry
	issuedAt time.Time
}

// NewCanonicalSeries stable-sorts entries ascending by timestamp and wraps a
// private copy of them.
func NewCanonicalSeries(entries []SeriesEntry, issuedAt time.Time) CanonicalSeries {
	owned := slices.Clone(entries)
	slices.SortStableFunc(owned, func(a, b SeriesEntry) int {
		return cmp.Compare(a.Step.TimestampMillis, b.Step.TimestampMillis)
	})
	return CanonicalSeries{entries: owned, issuedAt: issuedAt}
}

// IssuedAt returns the provider's declared issue or update time. Zero if unknown.
func (s CanonicalSeries) IssuedAt() time.Time { return s.issuedAt }

// Len returns the number of steps.
func (s CanonicalSeries) Len() int { return len(s.entries) }

// At returns the entry at index i. It panics if i is out of range.
func (s CanonicalSeries) At(i int) SeriesEntry { return s.entries[i] }

// Entries returns a copy of all entries.
func (s CanonicalSeries) Entries() []SeriesEntry {
	return slices.Clone(s.entries)
}

// Timestamps returns the step timestamps in series order.
func (s CanonicalSeries) Timestamps() []int64 {
	out := make([]int64, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Step.TimestampMillis
	}
	return out
}

// Last returns the most recent entry, or false for an empty series.
func (s CanonicalSeries) Last() (SeriesEntry, bool) {
	if len(s.entries) == 0 {
		return SeriesEntry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Window returns up to size entries starting at the valid index for now.
// Fewer entries are returned when the series runs out.
func (s CanonicalSeries) Window(now time.Time, size int) []SeriesEntry {
	if len(s.entries) == 0 || size <= 0 {
		return []SeriesEntry{}
	}
	start := SelectValidIndex(s.Timestamps(), now)
	end := min(start+size, len(s.entries))
	return slices.Clone(s.entries[start:end])
}

// MarshalJSON encodes the series as {"issued_at": ..., "steps": [...]}.
func (s CanonicalSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		IssuedAt time.Time     `json:"issued_at"`
		Steps    []SeriesEntry `json:"steps"`
	}{IssuedAt: s.issuedAt, Steps: s.Entries()})
}
