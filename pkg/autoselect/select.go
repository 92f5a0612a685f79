// Package autoselect picks the best provider for a piece of content using a
// cheap local heuristic: estimated token count with a safety margin against
// each provider's current model context window, action capability tags, and
// a preference for keeping the active provider when it qualifies.
package autoselect

import (
	"sort"

	"inkwell/scribe/pkg/providers"
	"inkwell/scribe/pkg/runtime"
)

const (
	// charsPerToken is the rough character-to-token ratio used for
	// estimation. Deliberately conservative; no tokenizer is involved.
	charsPerToken = 4

	// contextMargin is the headroom factor: a model qualifies only when its
	// context window holds at least this multiple of the estimated tokens,
	// leaving room for the system prompt and the response.
	contextMargin = 2
)

// EstimateTokens approximates the token count of content by length.
func EstimateTokens(contentLength int) int {
	if contentLength <= 0 {
		return 0
	}
	return (contentLength + charsPerToken - 1) / charsPerToken
}

// Select picks a provider id for the given content and action. It returns
// activeID unchanged when fewer than two candidates are ready, so a single
// configured provider is never second-guessed.
//
// Among ready candidates the heuristic works in passes: drop providers whose
// current model cannot hold the content with margin, then prefer providers
// tagged with the action's capability, then keep the active provider when it
// survived. If nothing fits the margin, the ready provider with the largest
// context window is returned as the least-bad option.
func Select(contentLength int, actionID string, candidates []runtime.ProviderStatus, activeID string) string {
	ready := make([]runtime.ProviderStatus, 0, len(candidates))
	for _, c := range candidates {
		if c.Ready {
			ready = append(ready, c)
		}
	}
	if len(ready) < 2 {
		return activeID
	}

	required := EstimateTokens(contentLength) * contextMargin

	fits := make([]runtime.ProviderStatus, 0, len(ready))
	for _, c := range ready {
		if contextWindow(c) >= required {
			fits = append(fits, c)
		}
	}
	if len(fits) == 0 {
		return largestContext(ready)
	}

	if actionID != "" {
		capable := make([]runtime.ProviderStatus, 0, len(fits))
		for _, c := range fits {
			if hasCapability(c, providers.Capability(actionID)) {
				capable = append(capable, c)
			}
		}
		if len(capable) > 0 {
			fits = capable
		}
	}

	for _, c := range fits {
		if c.ID == activeID {
			return activeID
		}
	}
	return largestContext(fits)
}

// contextWindow returns the context window of the candidate's current model,
// falling back to its largest model when the current one is not listed.
func contextWindow(c runtime.ProviderStatus) int {
	largest := 0
	for _, m := range c.Models {
		if m.ID == c.Model {
			return m.ContextWindow
		}
		if m.ContextWindow > largest {
			largest = m.ContextWindow
		}
	}
	return largest
}

// hasCapability reports whether the candidate carries the capability tag.
func hasCapability(c runtime.ProviderStatus, cap providers.Capability) bool {
	for _, have := range c.Capabilities {
		if have == cap {
			return true
		}
	}
	return false
}

// largestContext picks the candidate with the biggest context window,
// breaking ties by id so the choice is deterministic.
func largestContext(candidates []runtime.ProviderStatus) string {
	sorted := make([]runtime.ProviderStatus, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		wi, wj := contextWindow(sorted[i]), contextWindow(sorted[j])
		if wi != wj {
			return wi > wj
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted[0].ID
}
