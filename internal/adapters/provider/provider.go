// Package provider adapts external text-generation services into the
// decomposition provider contract consumed by the non-deterministic
// strategies.
package provider

import (
	"context"
	"errors"
)

// Generator is the decomposition provider contract. Generate must be safe to
// retry: a call has no side effects on the provider beyond billing.
type Generator interface {
	// Generate produces a completion for prompt, honoring ctx for
	// cancellation. Implementations bound each call with their own timeout.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Sentinel kinds for provider failures. Callers fall back on any of them;
// the distinction exists for metrics and logs.
var (
	ErrCall    = errors.New("provider call failed")
	ErrTimeout = errors.New("provider call timed out")
	ErrQuota   = errors.New("provider quota exhausted")
	ErrEmpty   = errors.New("provider returned no text")
)

// Outcome classifies err for metrics labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrQuota):
		return "quota"
	default:
		return "error"
	}
}

// Func adapts a plain function into a Generator, mainly for tests.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate implements Generator.
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
