package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tripcraft/tripcraft/internal/schedule"
	"github.com/tripcraft/tripcraft/internal/share"
	"github.com/tripcraft/tripcraft/internal/types"
)

// memStorage is an in-memory Storage for tests.
type memStorage struct {
	trips     []*types.Trip
	currentID string
	failList  bool
}

func (m *memStorage) ListTrips(ctx context.Context) ([]*types.Trip, error) {
	if m.failList {
		return nil, errors.New("boom")
	}
	out := make([]*types.Trip, len(m.trips))
	copy(out, m.trips)
	return out, nil
}

func (m *memStorage) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	for _, t := range m.trips {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (m *memStorage) UpsertTrip(ctx context.Context, trip *types.Trip) error {
	for i, t := range m.trips {
		if t.ID == trip.ID {
			m.trips[i] = trip
			return nil
		}
	}
	m.trips = append([]*types.Trip{trip}, m.trips...)
	return nil
}

func (m *memStorage) DeleteTrip(ctx context.Context, id string) error {
	for i, t := range m.trips {
		if t.ID == id {
			m.trips = append(m.trips[:i], m.trips[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memStorage) CurrentTripID(ctx context.Context) (string, error)   { return m.currentID, nil }
func (m *memStorage) SetCurrentTripID(ctx context.Context, id string) error {
	m.currentID = id
	return nil
}
func (m *memStorage) Close() error { return nil }

func sessionTrip(id string) *types.Trip {
	return &types.Trip{
		ID:       id,
		TripName: "Trip " + id,
		Days: []types.Day{
			{
				DayNumber: 1,
				StartTime: "09:00",
				Stops: []types.Stop{
					{ID: id + "-s1", Name: "Stop one", Time: "09:00", Duration: 30, IsSelected: true},
					{ID: id + "-s2", Name: "Stop two", Time: "10:00", Duration: 45, IsSelected: true},
				},
			},
		},
		LastUpdated: time.Now(),
	}
}

func TestLoadRestoresCurrent(t *testing.T) {
	store := &memStorage{
		trips:     []*types.Trip{sessionTrip("t2"), sessionTrip("t1")},
		currentID: "t1",
	}
	s := New(store)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cur := s.Current(); cur == nil || cur.ID != "t1" {
		t.Errorf("current = %v, want t1", cur)
	}
	if len(s.Trips()) != 2 {
		t.Errorf("collection size = %d, want 2", len(s.Trips()))
	}
}

func TestLoadToleratesCorruptStore(t *testing.T) {
	s := New(&memStorage{failList: true, currentID: "t1"})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load must not fail on a broken backend: %v", err)
	}
	if s.Current() != nil {
		t.Error("broken backend should yield an empty session")
	}
}

func TestLoadIgnoresDanglingCurrentID(t *testing.T) {
	s := New(&memStorage{currentID: "ghost"})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Current() != nil {
		t.Error("a current id with no matching trip must be ignored")
	}
}

func TestAdoptPersistsAndFocuses(t *testing.T) {
	store := &memStorage{}
	s := New(store)
	trip := sessionTrip("new")

	if err := s.Adopt(context.Background(), trip); err != nil {
		t.Fatalf("Adopt failed: %v", err)
	}
	if cur := s.Current(); cur == nil || cur.ID != "new" {
		t.Error("adopted trip did not become current")
	}
	if store.currentID != "new" || len(store.trips) != 1 {
		t.Error("adopted trip was not persisted")
	}
}

func TestAdoptRejectsInvalidTrip(t *testing.T) {
	s := New(&memStorage{})
	bad := sessionTrip("bad")
	bad.Days[0].DayNumber = 9
	if err := s.Adopt(context.Background(), bad); err == nil {
		t.Error("expected Adopt to reject an invalid trip")
	}
}

func TestApplyMutatesAndAutosaves(t *testing.T) {
	store := &memStorage{}
	s := New(store)
	if err := s.Adopt(context.Background(), sessionTrip("t1")); err != nil {
		t.Fatalf("Adopt failed: %v", err)
	}

	updated, err := s.Apply(context.Background(), func(tr *types.Trip) (*types.Trip, error) {
		return schedule.SetDayStartTime(tr, 0, "10:00")
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if updated.Days[0].StartTime != "10:00" {
		t.Error("mutation was not applied")
	}
	if s.Current() != updated {
		t.Error("current trip was not replaced with the mutation result")
	}
	if store.trips[0].Days[0].StartTime != "10:00" {
		t.Error("mutation result was not persisted")
	}
}

func TestApplyPropagatesMutationError(t *testing.T) {
	store := &memStorage{}
	s := New(store)
	trip := sessionTrip("t1")
	trip.IsActive = true
	if err := s.Adopt(context.Background(), trip); err != nil {
		t.Fatalf("Adopt failed: %v", err)
	}

	_, err := s.Apply(context.Background(), func(tr *types.Trip) (*types.Trip, error) {
		return schedule.ToggleStopSelection(tr, 0, 0)
	})
	if !errors.Is(err, schedule.ErrTripActive) {
		t.Errorf("error = %v, want ErrTripActive", err)
	}
	// Failed mutation leaves both the session and the store untouched.
	if !s.Current().Days[0].Stops[0].IsSelected {
		t.Error("failed mutation must not change the current trip")
	}
}

func TestApplyWithoutCurrentTrip(t *testing.T) {
	s := New(&memStorage{})
	_, err := s.Apply(context.Background(), func(tr *types.Trip) (*types.Trip, error) {
		return tr, nil
	})
	if err == nil {
		t.Error("expected error when no trip is current")
	}
}

func TestImportShared(t *testing.T) {
	store := &memStorage{}
	s := New(store)

	payload, err := share.Encode(sessionTrip("shared"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	trip, err := s.ImportShared(context.Background(), payload)
	if err != nil {
		t.Fatalf("ImportShared failed: %v", err)
	}
	if trip.ID != "shared" || s.Current().ID != "shared" {
		t.Error("shared trip did not become current")
	}
	if len(store.trips) != 1 {
		t.Error("shared trip was not upserted into the collection")
	}

	if _, err := s.ImportShared(context.Background(), "garbage!!"); err == nil {
		t.Error("expected error for a malformed payload")
	}
}

func TestDeleteClearsCurrent(t *testing.T) {
	store := &memStorage{}
	s := New(store)
	if err := s.Adopt(context.Background(), sessionTrip("t1")); err != nil {
		t.Fatalf("Adopt failed: %v", err)
	}
	if err := s.Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if s.Current() != nil {
		t.Error("deleting the current trip must clear the pointer")
	}
	if store.currentID != "" || len(store.trips) != 0 {
		t.Error("delete did not reach the store")
	}
}

func TestSetCurrent(t *testing.T) {
	store := &memStorage{}
	s := New(store)
	if err := s.Adopt(context.Background(), sessionTrip("t1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Adopt(context.Background(), sessionTrip("t2")); err != nil {
		t.Fatal(err)
	}

	if err := s.SetCurrent(context.Background(), "t1"); err != nil {
		t.Fatalf("SetCurrent failed: %v", err)
	}
	if s.Current().ID != "t1" || store.currentID != "t1" {
		t.Error("switch to t1 did not stick")
	}
	if err := s.SetCurrent(context.Background(), "ghost"); err == nil {
		t.Error("expected error for unknown trip id")
	}
}
