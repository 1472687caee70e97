// Package share turns a trip into an opaque, URL-safe payload and back.
// The payload is JSON wrapped in raw-URL base64, so free-form text in any
// script round-trips intact.
package share

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/tripcraft/tripcraft/internal/types"
)

// ShareParam is the query parameter carrying an encoded trip.
const ShareParam = "share"

// Encode serializes a trip into an opaque URL-safe string.
func Encode(trip *types.Trip) (string, error) {
	data, err := json.Marshal(trip)
	if err != nil {
		return "", fmt.Errorf("failed to encode trip: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode reverses Encode and validates the result. Payloads also arrive
// from pasted links, so standard base64 and URL-escaped padding are
// tolerated.
func Decode(payload string) (*types.Trip, error) {
	if payload == "" {
		return nil, fmt.Errorf("empty share payload")
	}
	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.StdEncoding.DecodeString(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("share payload is not valid base64: %w", err)
	}
	var trip types.Trip
	if err := json.Unmarshal(data, &trip); err != nil {
		return nil, fmt.Errorf("share payload is not a trip: %w", err)
	}
	if err := trip.Validate(); err != nil {
		return nil, fmt.Errorf("shared trip is invalid: %w", err)
	}
	return &trip, nil
}

// URL builds the full shareable link for a trip against a base address such
// as "https://trips.example.com/".
func URL(base string, trip *types.Trip) (string, error) {
	payload, err := Encode(trip)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	q := u.Query()
	q.Set(ShareParam, payload)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// PayloadFromURL extracts the share payload from a full link, or returns
// the input unchanged when it is already a bare payload.
func PayloadFromURL(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	if p := u.Query().Get(ShareParam); p != "" {
		return p
	}
	return s
}
