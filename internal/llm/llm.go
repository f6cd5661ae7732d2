// Package llm implements the optional LLM tier of the conversion entity
// extractor: a client for an OpenAI-compatible chat completions API that
// requests a structured JSON object from free text.
//
// Calls are best-effort. Every error here is recovered by the rule-based
// extraction tier, never surfaced to the user.
package llm

import "errors"

// Common errors returned by the extractor client.
var (
	ErrNoAPIKey     = errors.New("llm: API key not configured")
	ErrRateLimit    = errors.New("llm: rate limit exceeded")
	ErrProviderDown = errors.New("llm: provider unavailable")
	ErrMalformed    = errors.New("llm: malformed extraction response")
)
