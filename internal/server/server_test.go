package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcraft/tripcraft/internal/ai"
	"github.com/tripcraft/tripcraft/internal/session"
	"github.com/tripcraft/tripcraft/internal/share"
	"github.com/tripcraft/tripcraft/internal/types"
)

// memStore is an in-memory Storage for handler tests.
type memStore struct {
	trips   []*types.Trip
	current string
}

func (m *memStore) ListTrips(ctx context.Context) ([]*types.Trip, error) {
	return append([]*types.Trip(nil), m.trips...), nil
}

func (m *memStore) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	for _, t := range m.trips {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpsertTrip(ctx context.Context, trip *types.Trip) error {
	for i, t := range m.trips {
		if t.ID == trip.ID {
			m.trips[i] = trip
			return nil
		}
	}
	m.trips = append([]*types.Trip{trip}, m.trips...)
	return nil
}

func (m *memStore) DeleteTrip(ctx context.Context, id string) error {
	for i, t := range m.trips {
		if t.ID == id {
			m.trips = append(m.trips[:i], m.trips[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memStore) CurrentTripID(ctx context.Context) (string, error) { return m.current, nil }

func (m *memStore) SetCurrentTripID(ctx context.Context, id string) error {
	m.current = id
	return nil
}

func (m *memStore) Close() error { return nil }

// stubGenerator returns canned planning results.
type stubGenerator struct {
	trip    *types.Trip
	packing *types.PackingList
	places  []string
	err     error
}

func (g *stubGenerator) GenerateTrip(ctx context.Context, prefs *types.Preferences) (*types.Trip, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.trip, nil
}

func (g *stubGenerator) GeneratePackingList(ctx context.Context, trip *types.Trip) (*types.PackingList, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.packing, nil
}

func (g *stubGenerator) SuggestPlaces(ctx context.Context, input string) ([]string, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.places, nil
}

func serverTrip(id string) *types.Trip {
	return &types.Trip{
		ID:       id,
		TripName: "Seattle to Portland",
		Days: []types.Day{
			{
				DayNumber: 1,
				StartTime: "09:00",
				Stops: []types.Stop{
					{ID: id + "-a", Name: "Pike Place Market", Time: "09:00", Duration: 60, IsSelected: true},
					{ID: id + "-b", Name: "Olympia Rest Stop", Time: "11:00", Duration: 30, IsSelected: true},
				},
			},
		},
		LastUpdated: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newTestServer(t *testing.T, gen ai.Generator, trips ...*types.Trip) *Server {
	t.Helper()
	store := &memStore{}
	sess := session.New(store)
	require.NoError(t, sess.Load(context.Background()))
	for i := len(trips) - 1; i >= 0; i-- {
		require.NoError(t, sess.Adopt(context.Background(), trips[i]))
	}
	return New(sess, gen)
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestPlanAdoptsGeneratedTrip(t *testing.T) {
	gen := &stubGenerator{trip: serverTrip("t1")}
	s := newTestServer(t, gen)

	rec := do(t, s, http.MethodPost, "/api/plan", types.Preferences{
		Source:          "Seattle, WA",
		Destinations:    []string{"Portland, OR"},
		DailyDriveLimit: 4,
		MaxLegDuration:  1.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	trip := decode[types.Trip](t, rec)
	assert.Equal(t, "t1", trip.ID)

	list := do(t, s, http.MethodGet, "/api/trips", nil)
	payload := decode[struct {
		Trips     []types.Trip `json:"trips"`
		CurrentID string       `json:"currentId"`
	}](t, list)
	assert.Equal(t, "t1", payload.CurrentID)
	require.Len(t, payload.Trips, 1)
}

func TestPlanRejectsInvalidPreferences(t *testing.T) {
	s := newTestServer(t, &stubGenerator{trip: serverTrip("t1")})
	rec := do(t, s, http.MethodPost, "/api/plan", types.Preferences{Source: "Seattle"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanWhileOffline(t *testing.T) {
	s := newTestServer(t, &stubGenerator{err: ai.ErrOffline})
	rec := do(t, s, http.MethodPost, "/api/plan", types.Preferences{
		Source:          "Seattle, WA",
		Destinations:    []string{"Portland, OR"},
		DailyDriveLimit: 4,
		MaxLegDuration:  1.5,
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetTrip(t *testing.T) {
	s := newTestServer(t, &stubGenerator{}, serverTrip("t1"))

	rec := do(t, s, http.MethodGet, "/api/trips/t1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t1", decode[types.Trip](t, rec).ID)

	rec = do(t, s, http.MethodGet, "/api/trips/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetCurrent(t *testing.T) {
	s := newTestServer(t, &stubGenerator{}, serverTrip("t1"), serverTrip("t2"))

	rec := do(t, s, http.MethodPut, "/api/trips/current/t2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t2", decode[types.Trip](t, rec).ID)

	rec = do(t, s, http.MethodPut, "/api/trips/current/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTrip(t *testing.T) {
	s := newTestServer(t, &stubGenerator{}, serverTrip("t1"))

	rec := do(t, s, http.MethodDelete, "/api/trips/t1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/trips/t1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDayStartTimeShiftsStops(t *testing.T) {
	s := newTestServer(t, &stubGenerator{}, serverTrip("t1"))

	rec := do(t, s, http.MethodPost, "/api/trips/t1/days/1/start-time", M{"startTime": "10:30"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	trip := decode[types.Trip](t, rec)
	assert.Equal(t, "10:30", trip.Days[0].Stops[0].Time)
	assert.Equal(t, "12:30", trip.Days[0].Stops[1].Time)
}

func TestDayStartTimeUnknownDay(t *testing.T) {
	s := newTestServer(t, &stubGenerator{}, serverTrip("t1"))
	rec := do(t, s, http.MethodPost, "/api/trips/t1/days/7/start-time", M{"startTime": "10:30"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStopDuration(t *testing.T) {
	s := newTestServer(t, &stubGenerator{}, serverTrip("t1"))

	rec := do(t, s, http.MethodPost, "/api/trips/t1/stops/t1-a/duration", M{"duration": 90})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	trip := decode[types.Trip](t, rec)
	assert.Equal(t, 90, trip.Days[0].Stops[0].Duration)
	assert.Equal(t, "11:30", trip.Days[0].Stops[1].Time, "later stop shifts by the delta")

	rec = do(t, s, http.MethodPost, "/api/trips/t1/stops/ghost/duration", M{"duration": 90})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStopToggleBlockedWhileActive(t *testing.T) {
	trip := serverTrip("t1")
	trip.IsActive = true
	s := newTestServer(t, &stubGenerator{}, trip)

	rec := do(t, s, http.MethodPost, "/api/trips/t1/stops/t1-a/toggle", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStopCompleteWhileActive(t *testing.T) {
	trip := serverTrip("t1")
	trip.IsActive = true
	s := newTestServer(t, &stubGenerator{}, trip)

	rec := do(t, s, http.MethodPost, "/api/trips/t1/stops/t1-a/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[types.Trip](t, rec).Days[0].Stops[0].IsCompleted)
}

func TestSetActive(t *testing.T) {
	s := newTestServer(t, &stubGenerator{}, serverTrip("t1"))

	rec := do(t, s, http.MethodPost, "/api/trips/t1/active", M{"active": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[types.Trip](t, rec).IsActive)
}

func TestViews(t *testing.T) {
	s := newTestServer(t, &stubGenerator{}, serverTrip("t1"))

	rec := do(t, s, http.MethodGet, "/api/trips/t1/views", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	views := decode[struct {
		AllStops []json.RawMessage `json:"allStops"`
		Progress int               `json:"progress"`
		Journey  string            `json:"journey"`
	}](t, rec)
	assert.Len(t, views.AllStops, 2)
	assert.Equal(t, 0, views.Progress)
	assert.Contains(t, views.Journey, "active journey")
}

func TestGenerateAndTogglePacking(t *testing.T) {
	gen := &stubGenerator{packing: &types.PackingList{Categories: []types.PackingCategory{
		{Name: "Clothing", Items: []types.PackingItem{{ID: "p1", Name: "Rain jacket"}}},
	}}}
	s := newTestServer(t, gen, serverTrip("t1"))

	rec := do(t, s, http.MethodPost, "/api/trips/t1/packing", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, decode[types.Trip](t, rec).PackingList)

	rec = do(t, s, http.MethodPost, "/api/trips/t1/packing/items/p1/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	trip := decode[types.Trip](t, rec)
	assert.True(t, trip.PackingList.Categories[0].Items[0].IsPacked)
}

func TestShareAndImport(t *testing.T) {
	s := newTestServer(t, &stubGenerator{}, serverTrip("t1"))

	rec := do(t, s, http.MethodGet, "/api/trips/t1/share", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decode[struct {
		URL     string `json:"url"`
		Payload string `json:"payload"`
	}](t, rec)
	assert.True(t, strings.HasPrefix(payload.URL, DefaultShareBase))
	assert.Contains(t, payload.URL, share.ShareParam+"=")

	fresh := newTestServer(t, &stubGenerator{})
	rec = do(t, fresh, http.MethodPost, "/api/import", M{"payload": payload.URL})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "t1", decode[types.Trip](t, rec).ID)

	rec = do(t, fresh, http.MethodPost, "/api/import", M{"payload": "not-a-share-link"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShareQR(t *testing.T) {
	s := newTestServer(t, &stubGenerator{}, serverTrip("t1"))

	rec := do(t, s, http.MethodGet, "/api/trips/t1/share/qr.png", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.NotEmpty(t, rec.Body.Bytes())
	assert.Equal(t, byte(0x89), rec.Body.Bytes()[0])
}

func TestSuggest(t *testing.T) {
	gen := &stubGenerator{places: []string{"Moab, UT"}}
	s := newTestServer(t, gen)

	rec := do(t, s, http.MethodGet, "/api/suggest?q=moa", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decode[struct {
		Suggestions []string `json:"suggestions"`
	}](t, rec)
	assert.Equal(t, []string{"Moab, UT"}, payload.Suggestions)
}

func TestSuggestRateLimited(t *testing.T) {
	s := newTestServer(t, &stubGenerator{places: []string{"x"}})

	limited := 0
	for i := 0; i < 30; i++ {
		rec := do(t, s, http.MethodGet, fmt.Sprintf("/api/suggest?q=m%d", i), nil)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Greater(t, limited, 0, "rapid calls from one client must be shed")
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := do(t, s, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
