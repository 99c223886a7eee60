package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"craftmyprep-backend/config"
	"craftmyprep-backend/logger"
)

// Task identifies what a generation call is for. It selects token limits and
// shows up in call logs.
type Task string

const (
	TaskPlan      Task = "plan"
	TaskChallenge Task = "challenge"
	TaskProject   Task = "project"
	TaskQuestions Task = "questions"
)

// maxTokens per task; plans are by far the largest payload.
var maxTokens = map[Task]int{
	TaskPlan:      4096,
	TaskChallenge: 1024,
	TaskProject:   2048,
	TaskQuestions: 3072,
}

type Request struct {
	Task         Task
	SystemPrompt string
	Prompt       string
	MaxTokens    int // 0 uses the task default
}

func (r Request) tokenLimit() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	if n, ok := maxTokens[r.Task]; ok {
		return n
	}
	return 1024
}

type Response struct {
	Text    string
	Model   string
	Latency time.Duration
}

// Provider is a generative text endpoint: prompt in, free text out.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Name() string
}

// NewProvider builds the provider selected by cfg, wrapped with retries and
// call logging. A missing API key yields the disabled provider so the
// service still runs on fallback payloads.
func NewProvider(ctx context.Context, cfg config.AI, log *logger.Logger) (Provider, error) {
	var inner Provider
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		if cfg.APIKey == "" {
			log.Warn("GEMINI_API_KEY is not set, AI generation disabled")
			inner = Disabled{}
			break
		}
		p, err := NewGeminiProvider(ctx, cfg)
		if err != nil {
			return nil, err
		}
		inner = p
	case "openai":
		if cfg.APIKey == "" {
			log.Warn("OPENAI_API_KEY is not set, AI generation disabled")
			inner = Disabled{}
			break
		}
		inner = NewOpenAIProvider(cfg)
	case "disabled", "":
		inner = Disabled{}
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
	return &observed{
		inner:    inner,
		attempts: 1 + cfg.MaxRetries,
		log:      log.With("service", "AIProvider", "provider", inner.Name()),
	}, nil
}

// Disabled always fails with ErrProviderDisabled.
type Disabled struct{}

func (Disabled) Generate(context.Context, Request) (*Response, error) {
	return nil, ErrProviderDisabled
}

func (Disabled) Name() string { return "disabled" }

// observed retries transient failures and logs one line per call.
type observed struct {
	inner    Provider
	attempts int
	log      *logger.Logger
}

func (o *observed) Name() string { return o.inner.Name() }

func (o *observed) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	var (
		resp    *Response
		lastErr error
	)
	for i := 0; i < max(o.attempts, 1); i++ {
		resp, lastErr = o.inner.Generate(ctx, req)
		if lastErr == nil {
			break
		}
		if !retryable(ctx, lastErr) {
			break
		}
	}

	latency := time.Since(start)
	if lastErr == nil {
		if strings.TrimSpace(resp.Text) == "" {
			lastErr = ErrEmptyResponse
		} else {
			resp.Latency = latency
			o.log.Info("AI call", "task", req.Task, "model", resp.Model, "latency_ms", latency.Milliseconds(), "status", "ok")
			return resp, nil
		}
	}

	lastErr = classify(ctx, lastErr)
	o.log.Warn("AI call", "task", req.Task, "latency_ms", latency.Milliseconds(), "status", "err", "error", lastErr)
	return nil, lastErr
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, ErrProviderDisabled) && !errors.Is(err, ErrInvalidOutput)
}

// classify maps transport failures onto the package sentinels.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrProviderDisabled), errors.Is(err, ErrTimeout),
		errors.Is(err, ErrUnavailable), errors.Is(err, ErrEmptyResponse):
		return err
	case ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
