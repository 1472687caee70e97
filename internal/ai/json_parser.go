// Package ai talks to generative-model providers to produce trips, packing
// lists, and place suggestions. The providers are opaque collaborators: this
// package owns prompting, resilient JSON parsing of model output, retries,
// and the offline preflight, and hands back validated model types.
package ai

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Models wrap JSON in prose or markdown fences often enough that a direct
// json.Unmarshal is the happy path, not the only path. Patterns are
// pre-compiled; parsing runs on every generation.
var (
	codeFenceRegex     = regexp.MustCompile("(?s)```(?:json)?\\s*\n?([\\s\\S]*?)\n?```")
	trailingCommaRegex = regexp.MustCompile(`,(\s*[}\]])`)
	objectRegex        = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	arrayRegex         = regexp.MustCompile(`(?s)\[[\s\S]*\]`)
)

// parseJSON decodes model output into T with fallback strategies:
//
//  1. direct parse
//  2. strip a markdown code fence and retry
//  3. remove trailing commas and retry
//  4. extract the outermost object or array from mixed content and retry
//
// context names the call site for diagnostics.
func parseJSON[T any](text, context string) (T, error) {
	var zero T
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return zero, fmt.Errorf("%s: empty response", context)
	}

	candidates := []string{trimmed}
	if m := codeFenceRegex.FindStringSubmatch(trimmed); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	for _, c := range candidates {
		candidates = append(candidates, trailingCommaRegex.ReplaceAllString(c, "$1"))
	}
	if m := objectRegex.FindString(trimmed); m != "" {
		candidates = append(candidates, m, trailingCommaRegex.ReplaceAllString(m, "$1"))
	} else if m := arrayRegex.FindString(trimmed); m != "" {
		candidates = append(candidates, m, trailingCommaRegex.ReplaceAllString(m, "$1"))
	}

	var lastErr error
	for _, c := range candidates {
		var out T
		if err := json.Unmarshal([]byte(c), &out); err == nil {
			return out, nil
		} else {
			lastErr = err
		}
	}

	preview := trimmed
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	slog.Warn("failed to parse model JSON", "context", context, "error", lastErr, "preview", preview)
	return zero, fmt.Errorf("%s: unparseable JSON: %w", context, lastErr)
}
