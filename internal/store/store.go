package store

import (
	"context"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/internal/model"
)

// Store defines the local snapshot cache. It mirrors the trip store's
// read surface so the app can keep browsing itineraries while the store
// is unreachable; writes always go to the trip store first and are
// mirrored here afterwards.
type Store interface {
	// SaveTrips replaces the cached trip list.
	SaveTrips(ctx context.Context, trips []model.Trip) error

	// GetTrips returns the cached trip list, newest first.
	GetTrips(ctx context.Context) ([]model.Trip, error)

	// SaveSnapshot replaces the cached state of one trip: its record,
	// days, and activities.
	SaveSnapshot(ctx context.Context, snap *api.Snapshot) error

	// GetSnapshot returns the cached snapshot of one trip, or nil when
	// the trip is not cached.
	GetSnapshot(ctx context.Context, tripID string) (*api.Snapshot, error)

	// DeleteTrip removes a trip and everything it owns from the cache.
	DeleteTrip(ctx context.Context, tripID string) error

	Close() error
}
