package suggest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tripcraft/tripcraft/internal/types"
)

// recordingGenerator records SuggestPlaces inputs and returns them echoed.
type recordingGenerator struct {
	mu     sync.Mutex
	inputs []string
	block  chan struct{} // when set, SuggestPlaces waits on it or ctx
	err    error
}

func (g *recordingGenerator) GenerateTrip(ctx context.Context, prefs *types.Preferences) (*types.Trip, error) {
	return nil, errors.New("not implemented")
}

func (g *recordingGenerator) GeneratePackingList(ctx context.Context, trip *types.Trip) (*types.PackingList, error) {
	return nil, errors.New("not implemented")
}

func (g *recordingGenerator) SuggestPlaces(ctx context.Context, input string) ([]string, error) {
	g.mu.Lock()
	g.inputs = append(g.inputs, input)
	block := g.block
	err := g.err
	g.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []string{input + ", USA"}, nil
}

func (g *recordingGenerator) calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.inputs...)
}

type delivery struct {
	input  string
	places []string
	err    error
}

func collector() (func(string, []string, error), chan delivery) {
	ch := make(chan delivery, 8)
	return func(input string, places []string, err error) {
		ch <- delivery{input, places, err}
	}, ch
}

func TestQueryWaitsOutTheDebounceWindow(t *testing.T) {
	gen := &recordingGenerator{}
	s := New(gen, 30*time.Millisecond)
	deliver, got := collector()

	s.Query(context.Background(), "portland", deliver)

	if calls := gen.calls(); len(calls) != 0 {
		t.Fatalf("provider called before the window elapsed: %v", calls)
	}

	select {
	case d := <-got:
		if d.err != nil {
			t.Fatalf("unexpected error: %v", d.err)
		}
		if d.input != "portland" || len(d.places) != 1 || d.places[0] != "portland, USA" {
			t.Fatalf("unexpected delivery: %+v", d)
		}
	case <-time.After(time.Second):
		t.Fatal("no delivery")
	}
}

func TestRapidQueriesCollapseToTheLast(t *testing.T) {
	gen := &recordingGenerator{}
	s := New(gen, 40*time.Millisecond)
	deliver, got := collector()

	for _, input := range []string{"p", "po", "por", "port"} {
		s.Query(context.Background(), input, deliver)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case d := <-got:
		if d.input != "port" {
			t.Fatalf("delivered %q, want the final query", d.input)
		}
	case <-time.After(time.Second):
		t.Fatal("no delivery")
	}

	if calls := gen.calls(); len(calls) != 1 || calls[0] != "port" {
		t.Fatalf("provider calls = %v, want just the final query", calls)
	}

	select {
	case d := <-got:
		t.Fatalf("unexpected extra delivery: %+v", d)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestInFlightQueryIsCancelledBySuccessor(t *testing.T) {
	block := make(chan struct{})
	gen := &recordingGenerator{block: block}
	s := New(gen, 5*time.Millisecond)
	deliver, got := collector()

	s.Query(context.Background(), "slow", deliver)

	// Wait until the first request is in flight.
	deadline := time.Now().Add(time.Second)
	for len(gen.calls()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first request never started")
		}
		time.Sleep(time.Millisecond)
	}

	s.Query(context.Background(), "fast", deliver)
	gen.mu.Lock()
	gen.block = nil
	gen.mu.Unlock()
	close(block)

	select {
	case d := <-got:
		if d.input != "fast" {
			t.Fatalf("delivered %q, want the superseding query", d.input)
		}
	case <-time.After(time.Second):
		t.Fatal("no delivery")
	}

	select {
	case d := <-got:
		t.Fatalf("stale delivery leaked through: %+v", d)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCancelDropsPendingQuery(t *testing.T) {
	gen := &recordingGenerator{}
	s := New(gen, 20*time.Millisecond)
	deliver, got := collector()

	s.Query(context.Background(), "reno", deliver)
	s.Cancel()

	select {
	case d := <-got:
		t.Fatalf("cancelled query delivered: %+v", d)
	case <-time.After(100 * time.Millisecond):
	}
	if calls := gen.calls(); len(calls) != 0 {
		t.Fatalf("cancelled query reached the provider: %v", calls)
	}
}

func TestProviderErrorsAreDelivered(t *testing.T) {
	gen := &recordingGenerator{err: errors.New("offline")}
	s := New(gen, 5*time.Millisecond)
	deliver, got := collector()

	s.Query(context.Background(), "moab", deliver)

	select {
	case d := <-got:
		if d.err == nil {
			t.Fatal("expected the provider error to be delivered")
		}
	case <-time.After(time.Second):
		t.Fatal("no delivery")
	}
}

func TestFetchBypassesDebounce(t *testing.T) {
	gen := &recordingGenerator{}
	s := New(gen, time.Hour)

	places, err := s.Fetch(context.Background(), "boise")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 1 || places[0] != "boise, USA" {
		t.Fatalf("unexpected places: %v", places)
	}
}

func TestNewDefaultsDelay(t *testing.T) {
	s := New(&recordingGenerator{}, 0)
	if s.delay != DefaultDelay {
		t.Fatalf("delay = %v, want %v", s.delay, DefaultDelay)
	}
}
