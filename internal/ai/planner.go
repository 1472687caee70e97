package ai

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tripcraft/tripcraft/internal/types"
	"golang.org/x/time/rate"
)

// Generator is the external planning collaborator consumed by the CLI, REPL,
// and HTTP server.
type Generator interface {
	// GenerateTrip plans a full itinerary from the traveler's preferences.
	GenerateTrip(ctx context.Context, prefs *types.Preferences) (*types.Trip, error)

	// GeneratePackingList enriches an existing trip. Callers treat failure
	// as "no packing list", never as a failed trip.
	GeneratePackingList(ctx context.Context, trip *types.Trip) (*types.PackingList, error)

	// SuggestPlaces autocompletes a partially typed location. May return an
	// empty slice.
	SuggestPlaces(ctx context.Context, input string) ([]string, error)
}

// completer is one provider's raw text-in, text-out surface. The Planner
// owns everything above it: prompts, retries, parsing, finalization.
type completer interface {
	complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	name() string
}

// Config holds planner configuration.
type Config struct {
	Provider string // "anthropic" (default) or "gemini"
	APIKey   string // falls back to the provider's conventional env var
	Model    string // provider default when empty
	Retry    RetryConfig
}

// Planner implements Generator over a single configured provider.
type Planner struct {
	completer completer
	retry     RetryConfig
	breaker   *circuitBreaker
	limiter   *rate.Limiter
	probe     func(ctx context.Context) error
}

// NewPlanner creates a planner for the configured provider.
func NewPlanner(cfg *Config) (*Planner, error) {
	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	var (
		c   completer
		err error
	)
	switch cfg.Provider {
	case "", ProviderAnthropic:
		c, err = newAnthropicCompleter(cfg.APIKey, cfg.Model)
	case ProviderGemini:
		c, err = newGeminiCompleter(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider %q (want %s or %s)", cfg.Provider, ProviderAnthropic, ProviderGemini)
	}
	if err != nil {
		return nil, err
	}

	return &Planner{
		completer: c,
		retry:     retry,
		breaker:   newCircuitBreaker(retry),
		// Generation is user-initiated and slow; 1 req/s with a small burst
		// keeps suggestion bursts from tripping provider rate limits.
		limiter: rate.NewLimiter(rate.Limit(1), 3),
		probe:   probeConnectivity,
	}, nil
}

// JSON re-prompt attempts for malformed model output, on top of the
// network-level retry ladder.
const maxJSONRetries = 2

// tripResponse is the wire shape the generation prompt asks for. Identity,
// naming, and traveler state are stamped on afterwards; the model never
// controls them.
type tripResponse struct {
	Summary       string        `json:"summary"`
	TotalDistance string        `json:"totalDistance"`
	TotalDuration string        `json:"totalDuration"`
	Days          []types.Day   `json:"days"`
	Sources       []types.Source `json:"sources,omitempty"`
}

// GenerateTrip plans an itinerary. The overall call is bounded at five
// minutes regardless of retries.
func (p *Planner) GenerateTrip(ctx context.Context, prefs *types.Preferences) (*types.Trip, error) {
	if err := prefs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preferences: %w", err)
	}
	if err := p.probe(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	prompt := buildTripPrompt(prefs)
	resp, err := completeJSON[tripResponse](ctx, p, "trip generation", prompt, 8192)
	if err != nil {
		return nil, err
	}
	trip := finalizeTrip(resp, prefs)
	if err := trip.Validate(); err != nil {
		return nil, fmt.Errorf("generated trip failed validation: %w", err)
	}
	return trip, nil
}

// GeneratePackingList enriches a trip with a packing list.
func (p *Planner) GeneratePackingList(ctx context.Context, trip *types.Trip) (*types.PackingList, error) {
	if err := p.probe(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	prompt := buildPackingPrompt(trip)
	list, err := completeJSON[types.PackingList](ctx, p, "packing list", prompt, 4096)
	if err != nil {
		return nil, err
	}
	finalizePackingList(&list)
	return &list, nil
}

// SuggestPlaces autocompletes a location. Inputs shorter than two
// characters return nothing without a provider call.
func (p *Planner) SuggestPlaces(ctx context.Context, input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if len(input) < 2 {
		return nil, nil
	}
	if err := p.probe(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	suggestions, err := completeJSON[[]string](ctx, p, "place suggestions", buildSuggestPrompt(input), 1024)
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}

// completeJSON calls the provider and parses the response as T, re-prompting
// with the parse error when the model returns malformed JSON.
func completeJSON[T any](ctx context.Context, p *Planner, op, prompt string, maxTokens int) (T, error) {
	var zero T
	if err := p.limiter.Wait(ctx); err != nil {
		return zero, err
	}

	currentPrompt := prompt
	var lastParseErr error
	for jsonRetry := 0; jsonRetry <= maxJSONRetries; jsonRetry++ {
		if jsonRetry > 0 {
			currentPrompt = fmt.Sprintf(`%s

IMPORTANT - your previous response failed to parse: %v
Respond with ONLY raw JSON matching the requested shape. No markdown fences, no commentary.`, prompt, lastParseErr)
			fmt.Fprintf(os.Stderr, "warning: %s returned malformed JSON (attempt %d/%d), re-prompting\n",
				op, jsonRetry, maxJSONRetries+1)
		}

		var text string
		err := p.retryWithBackoff(ctx, op, func(attemptCtx context.Context) error {
			out, apiErr := p.completer.complete(attemptCtx, currentPrompt, maxTokens)
			if apiErr != nil {
				return apiErr
			}
			text = out
			return nil
		})
		if err != nil {
			return zero, fmt.Errorf("%s provider call failed: %w", p.completer.name(), err)
		}

		result, parseErr := parseJSON[T](text, op)
		if parseErr == nil {
			return result, nil
		}
		lastParseErr = parseErr
	}
	return zero, fmt.Errorf("%s: %w", op, lastParseErr)
}

// finalizeTrip stamps identity and traveler state onto raw generator
// output: a fresh trip id, stable per-stop ids, contiguous day numbers,
// everything selected and nothing completed, the derived trip name, and the
// originating preferences.
func finalizeTrip(resp tripResponse, prefs *types.Preferences) *types.Trip {
	trip := &types.Trip{
		ID:            uuid.NewString(),
		TripName:      prefs.TripName(),
		Summary:       resp.Summary,
		TotalDistance: resp.TotalDistance,
		TotalDuration: resp.TotalDuration,
		Days:          resp.Days,
		Sources:       resp.Sources,
		LastUpdated:   time.Now(),
		IsActive:      false,
		Preferences:   prefs.Clone(),
	}
	for i := range trip.Days {
		day := &trip.Days[i]
		day.DayNumber = i + 1
		for j := range day.Stops {
			stop := &day.Stops[j]
			if stop.ID == "" {
				stop.ID = uuid.NewString()
			}
			if stop.Duration <= 0 {
				stop.Duration = types.DefaultStopDuration
			}
			stop.IsSelected = true
			stop.IsCompleted = false
		}
	}
	return trip
}

// finalizePackingList backfills item ids and resets packed state.
func finalizePackingList(list *types.PackingList) {
	for i := range list.Categories {
		for j := range list.Categories[i].Items {
			item := &list.Categories[i].Items[j]
			if item.ID == "" {
				item.ID = uuid.NewString()
			}
			item.IsPacked = false
		}
	}
}
