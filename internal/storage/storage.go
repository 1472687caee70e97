// Package storage defines the persistence boundary for saved trips.
package storage

import (
	"context"

	"github.com/tripcraft/tripcraft/internal/types"
)

// Storage is the persistence collaborator behind the trip session. Every
// write is a full trip snapshot; implementations never store diffs, so a
// crash mid-write can lose at most the latest edit, never corrupt a trip.
type Storage interface {
	// ListTrips returns every saved trip in collection order (newest
	// upserts first). Rows that fail to decode are skipped, not fatal.
	ListTrips(ctx context.Context) ([]*types.Trip, error)

	// GetTrip returns the trip with the given id, or nil if absent.
	GetTrip(ctx context.Context, id string) (*types.Trip, error)

	// UpsertTrip replaces a trip with the same id in place; a new id is
	// prepended to the collection.
	UpsertTrip(ctx context.Context, trip *types.Trip) error

	// DeleteTrip removes a trip. Deleting an absent id is not an error.
	DeleteTrip(ctx context.Context, id string) error

	// CurrentTripID returns the remembered current trip id, or "" if none
	// was recorded.
	CurrentTripID(ctx context.Context) (string, error)

	// SetCurrentTripID records (or with "" clears) the current trip id.
	SetCurrentTripID(ctx context.Context, id string) error

	// Close releases the backend.
	Close() error
}
