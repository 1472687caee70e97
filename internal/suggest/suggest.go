// Package suggest debounces place autocomplete queries so that rapid
// typing produces a single provider call for the final input, and results
// for superseded inputs are dropped.
package suggest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tripcraft/tripcraft/internal/ai"
)

// DefaultDelay is how long input must stay unchanged before a provider
// call is issued.
const DefaultDelay = 600 * time.Millisecond

// Suggester debounces SuggestPlaces calls against a Generator. Each new
// query resets the timer and cancels any in-flight request, so at most one
// request is outstanding and only the latest query's results are delivered.
type Suggester struct {
	gen   ai.Generator
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	seq    uint64
}

// New creates a suggester with the given debounce delay. A non-positive
// delay uses DefaultDelay.
func New(gen ai.Generator, delay time.Duration) *Suggester {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Suggester{gen: gen, delay: delay}
}

// Query schedules a suggestion lookup for input. After the debounce window
// elapses without a newer query, the generator is called and deliver
// receives the results on a background goroutine. A query superseded
// before its window elapses never reaches the provider; one superseded
// while in flight is cancelled and its results are discarded.
func (s *Suggester) Query(ctx context.Context, input string, deliver func(input string, places []string, err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked()
	s.seq++
	seq := s.seq

	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.timer = time.AfterFunc(s.delay, func() {
		places, err := s.gen.SuggestPlaces(reqCtx, input)
		cancel()
		if errors.Is(err, context.Canceled) {
			return
		}
		if s.stale(seq) {
			return
		}
		deliver(input, places, err)
	})
}

// Fetch bypasses the debounce window and calls the provider directly. The
// REPL uses it when the user explicitly asks for suggestions rather than
// typing through an autocomplete field.
func (s *Suggester) Fetch(ctx context.Context, input string) ([]string, error) {
	s.Cancel()
	return s.gen.SuggestPlaces(ctx, input)
}

// Cancel drops any pending or in-flight query.
func (s *Suggester) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked()
	s.seq++
}

func (s *Suggester) supersedeLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Suggester) stale(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq != s.seq
}
