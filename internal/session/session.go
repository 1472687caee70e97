// Package session owns the live trip state: the saved collection, the
// current trip, and the autosave discipline. All trip edits flow through
// Apply, which runs a pure schedule mutation and then persists the result,
// so the stored collection and the live current trip never diverge.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tripcraft/tripcraft/internal/share"
	"github.com/tripcraft/tripcraft/internal/storage"
	"github.com/tripcraft/tripcraft/internal/types"
)

// Mutation is a pure trip transform, typically one of the schedule package's
// operations partially applied.
type Mutation func(*types.Trip) (*types.Trip, error)

// Session is the single owner of trip state for one running process. The
// engine itself is synchronous; the lock only guards against the HTTP server
// dispatching two handlers at once.
type Session struct {
	mu      sync.Mutex
	store   storage.Storage
	trips   []*types.Trip
	current *types.Trip
}

// New creates an empty session over the given persistence backend.
func New(store storage.Storage) *Session {
	return &Session{store: store}
}

// Load restores the saved collection and the remembered current trip.
// Corrupt or missing data degrades to an empty session; startup never fails
// on bad persisted state.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trips, err := s.store.ListTrips(ctx)
	if err != nil {
		slog.Warn("failed to load saved trips; starting empty", "error", err)
		trips = nil
	}
	s.trips = trips

	currentID, err := s.store.CurrentTripID(ctx)
	if err != nil {
		slog.Warn("failed to load current trip id", "error", err)
		return nil
	}
	if currentID != "" {
		if t := s.findLocked(currentID); t != nil {
			s.current = t
		}
	}
	return nil
}

// ImportShared decodes a share payload and makes it the current trip,
// upserting it into the collection. This is the startup override path for
// trips arriving via a shared link.
func (s *Session) ImportShared(ctx context.Context, payload string) (*types.Trip, error) {
	trip, err := share.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid share payload: %w", err)
	}
	if err := s.Adopt(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// Adopt makes a trip (freshly generated or imported) current and persists
// it.
func (s *Session) Adopt(ctx context.Context, trip *types.Trip) error {
	if err := trip.Validate(); err != nil {
		return fmt.Errorf("refusing to adopt invalid trip: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(trip)
	s.current = trip
	return s.persistLocked(ctx, trip)
}

// Current returns the current trip, or nil. Callers treat the result as
// read-only; edits go through Apply.
func (s *Session) Current() *types.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Trips returns the saved collection in order, newest first.
func (s *Session) Trips() []*types.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Trip, len(s.trips))
	copy(out, s.trips)
	return out
}

// Find returns the saved trip with the given id, or nil.
func (s *Session) Find(id string) *types.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

// SetCurrent switches the current trip to a saved one.
func (s *Session) SetCurrent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findLocked(id)
	if t == nil {
		return fmt.Errorf("no saved trip with id %s", id)
	}
	s.current = t
	return s.store.SetCurrentTripID(ctx, id)
}

// ClearCurrent drops the current pointer without touching the collection.
func (s *Session) ClearCurrent(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	return s.store.SetCurrentTripID(ctx, "")
}

// Apply runs a mutation against the current trip, replaces it with the
// result, and persists the snapshot. The mutation's error passes through
// unchanged so callers can distinguish e.g. a locked selection from a
// storage failure.
func (s *Session) Apply(ctx context.Context, m Mutation) (*types.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, fmt.Errorf("no current trip")
	}
	updated, err := m(s.current)
	if err != nil {
		return nil, err
	}
	s.upsertLocked(updated)
	s.current = updated
	if err := s.persistLocked(ctx, updated); err != nil {
		// The edit is applied in memory; persistence is best-effort.
		slog.Warn("failed to persist trip after edit", "trip", updated.ID, "error", err)
	}
	return updated, nil
}

// ApplyTo is Apply against a saved trip addressed by id; the edited trip
// also becomes current, mirroring how opening a saved trip focuses it.
func (s *Session) ApplyTo(ctx context.Context, id string, m Mutation) (*types.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findLocked(id)
	if t == nil {
		return nil, fmt.Errorf("no saved trip with id %s", id)
	}
	updated, err := m(t)
	if err != nil {
		return nil, err
	}
	s.upsertLocked(updated)
	s.current = updated
	if err := s.persistLocked(ctx, updated); err != nil {
		slog.Warn("failed to persist trip after edit", "trip", updated.ID, "error", err)
	}
	return updated, nil
}

// Delete removes a trip from the collection; if it was current, the pointer
// clears.
func (s *Session) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.trips {
		if t.ID == id {
			s.trips = append(s.trips[:i], s.trips[i+1:]...)
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = nil
		if err := s.store.SetCurrentTripID(ctx, ""); err != nil {
			return err
		}
	}
	return s.store.DeleteTrip(ctx, id)
}

func (s *Session) findLocked(id string) *types.Trip {
	for _, t := range s.trips {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Session) upsertLocked(trip *types.Trip) {
	for i, t := range s.trips {
		if t.ID == trip.ID {
			s.trips[i] = trip
			return
		}
	}
	s.trips = append([]*types.Trip{trip}, s.trips...)
}

func (s *Session) persistLocked(ctx context.Context, trip *types.Trip) error {
	if err := s.store.UpsertTrip(ctx, trip); err != nil {
		return err
	}
	return s.store.SetCurrentTripID(ctx, trip.ID)
}
