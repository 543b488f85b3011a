package planner

import (
	"context"
	"fmt"
	gosync "sync"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/internal/model"
	"github.com/nhle/tripflow/internal/store"
)

// Session performs the blocking store I/O around the engine: snapshot
// loads with offline fallback, and reorder commits with reload-based
// recovery. It never touches an Engine directly; callers apply the
// returned snapshots on the update goroutine.
//
// The client is guarded by a mutex because settings changes swap it
// while the background refresher may be mid-fetch.
type Session struct {
	mu     gosync.RWMutex
	client *api.Client
	cache  store.Store
}

// NewSession creates a session over the given trip store client. The
// cache may be nil, which disables offline fallback.
func NewSession(client *api.Client, cache store.Store) *Session {
	return &Session{client: client, cache: cache}
}

// SetClient replaces the trip store client, used after the connection
// settings change.
func (s *Session) SetClient(client *api.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
}

// Client returns the current trip store client.
func (s *Session) Client() *api.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Trips lists all trips, writing through to the cache on success. When
// the store is unreachable it falls back to the cached list; the bool
// reports whether the result came from the cache.
func (s *Session) Trips(ctx context.Context) ([]model.Trip, bool, error) {
	trips, err := s.Client().ListTrips(ctx)
	if err == nil {
		if s.cache != nil {
			// Best effort; a failed cache write never fails the load.
			_ = s.cache.SaveTrips(ctx, trips)
		}
		return trips, false, nil
	}

	if s.cache != nil {
		cached, cacheErr := s.cache.GetTrips(ctx)
		if cacheErr == nil && len(cached) > 0 {
			return cached, true, nil
		}
	}
	return nil, false, err
}

// Fetch loads the full snapshot of one trip, writing through to the
// cache on success. When the store is unreachable it falls back to the
// cached snapshot; the bool reports whether the result came from the
// cache. A not-found response is terminal and never falls back, since
// the trip genuinely no longer exists.
func (s *Session) Fetch(ctx context.Context, tripID string) (*api.Snapshot, bool, error) {
	snap, err := s.Client().GetTrip(ctx, tripID)
	if err == nil {
		if s.cache != nil {
			_ = s.cache.SaveSnapshot(ctx, snap)
		}
		return snap, false, nil
	}
	if api.IsNotFound(err) {
		return nil, false, err
	}

	if s.cache != nil {
		cached, cacheErr := s.cache.GetSnapshot(ctx, tripID)
		if cacheErr == nil && cached != nil {
			return cached, true, nil
		}
	}
	return nil, false, err
}

// Commit persists a completed drag gesture in one batch request. On
// failure the local ordering is not rolled back; instead the trip is
// reloaded from the store and the fresh snapshot is returned alongside
// the commit error so the caller can replace its optimistic state. The
// snapshot is nil when the recovery reload itself failed.
func (s *Session) Commit(
	ctx context.Context,
	tripID string,
	updates []api.ReorderUpdate,
) (*api.Snapshot, error) {
	if err := s.Client().Reorder(ctx, updates); err != nil {
		snap, _, fetchErr := s.Fetch(ctx, tripID)
		if fetchErr != nil {
			return nil, fmt.Errorf("committing reorder: %w (reload also failed: %v)", err, fetchErr)
		}
		return snap, fmt.Errorf("committing reorder: %w", err)
	}
	return nil, nil
}
