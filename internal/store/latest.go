// Package store holds the most recent good series per provider for the read API.
package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/couchcryptid/weather-series-etl/internal/domain"
)

var errNoSeries = errors.New("no series stored yet")

// LatestStore keeps the last successfully normalized series for each provider.
// It implements pipeline.BatchLoader. Failed payloads never reach it, so a bad
// update leaves the previous series in place.
type LatestStore struct {
	mu     sync.RWMutex
	latest map[string]domain.SeriesEvent
}

// NewLatestStore creates an empty store.
func NewLatestStore() *LatestStore {
	return &LatestStore{latest: make(map[string]domain.SeriesEvent)}
}

// LoadBatch publishes every event in order. Within a provider an event only
// replaces the stored one if it was issued no earlier, so a replayed old
// payload does not roll the series back.
func (s *LatestStore) LoadBatch(_ context.Context, events []domain.SeriesEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		s.publishLocked(e)
	}
	return nil
}

// Publish stores a single event.
func (s *LatestStore) Publish(e domain.SeriesEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(e)
}

func (s *LatestStore) publishLocked(e domain.SeriesEvent) {
	if cur, ok := s.latest[e.Provider]; ok && e.IssuedAt.Before(cur.IssuedAt) {
		return
	}
	s.latest[e.Provider] = cloneEvent(e)
}

// Latest returns a deep copy of the stored event for provider.
func (s *LatestStore) Latest(provider string) (domain.SeriesEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.latest[provider]
	if !ok {
		return domain.SeriesEvent{}, false
	}
	return cloneEvent(e), true
}

// cloneEvent copies e so that it shares no memory with the original.
func cloneEvent(e domain.SeriesEvent) domain.SeriesEvent {
	e.Steps = slices.Clone(e.Steps)
	e.Window = slices.Clone(e.Window)
	if e.Current != nil {
		row := e.Current.Clone()
		e.Current = &row
	}
	if e.CurrentIcon != nil {
		icon := *e.CurrentIcon
		e.CurrentIcon = &icon
	}
	return e
}

// CheckReadiness reports whether at least one series has been stored.
func (s *LatestStore) CheckReadiness(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.latest) == 0 {
		return errNoSeries
	}
	return nil
}
