package ai

import (
	"context"
	"time"

	"craftmyprep-backend/logger"
)

// Source records where a generated payload came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
)

// Result is either a validated provider payload or the fixed fallback.
// Reason carries the failure that caused a fallback.
type Result[T any] struct {
	Value  T
	Source Source
	Reason error
}

func (r Result[T]) IsFallback() bool { return r.Source == SourceFallback }

// Generator runs provider calls with a deadline detached from the caller's
// cancellation: a client that goes away does not abort a generation that is
// already in flight.
type Generator struct {
	provider Provider
	timeout  time.Duration
	log      *logger.Logger
}

func NewGenerator(provider Provider, timeout time.Duration, log *logger.Logger) *Generator {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Generator{provider: provider, timeout: timeout, log: log.With("service", "Generator")}
}

// Structured calls the provider and decodes its answer into T. Any provider
// error, unparseable text or failed validation yields fallback() instead; the
// caller never sees an error.
func Structured[T any](ctx context.Context, g *Generator, req Request, validate Validator[T], fallback func() T) Result[T] {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	resp, err := g.provider.Generate(callCtx, req)
	if err != nil {
		g.log.Warn("Using fallback payload", "task", req.Task, "reason", err)
		return Result[T]{Value: fallback(), Source: SourceFallback, Reason: err}
	}

	value, err := ExtractJSON(resp.Text, validate)
	if err != nil {
		g.log.Warn("Using fallback payload", "task", req.Task, "reason", err)
		return Result[T]{Value: fallback(), Source: SourceFallback, Reason: err}
	}
	return Result[T]{Value: value, Source: SourceProvider}
}
