package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftmyprep-backend/config"
	"craftmyprep-backend/logger"
)

type scripted struct {
	errs  []error
	text  string
	calls int
}

func (s *scripted) Name() string { return "scripted" }

func (s *scripted) Generate(ctx context.Context, req Request) (*Response, error) {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	return &Response{Text: s.text, Model: "m"}, nil
}

func wrap(p Provider, attempts int) *observed {
	return &observed{inner: p, attempts: attempts, log: logger.NewNop()}
}

func TestObserved_RetriesTransientFailure(t *testing.T) {
	inner := &scripted{errs: []error{errors.New("connection reset")}, text: `{"ok":true}`}

	resp, err := wrap(inner, 2).Generate(context.Background(), Request{Task: TaskChallenge})

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Text)
	assert.Equal(t, 2, inner.calls)
}

func TestObserved_ExhaustsRetries(t *testing.T) {
	boom := errors.New("boom")
	inner := &scripted{errs: []error{boom, boom, boom}}

	_, err := wrap(inner, 2).Generate(context.Background(), Request{Task: TaskPlan})

	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, 2, inner.calls)
}

func TestObserved_DoesNotRetryDisabled(t *testing.T) {
	inner := &scripted{errs: []error{ErrProviderDisabled}}

	_, err := wrap(inner, 3).Generate(context.Background(), Request{})

	assert.ErrorIs(t, err, ErrProviderDisabled)
	assert.Equal(t, 1, inner.calls)
}

func TestObserved_BlankTextIsEmptyResponse(t *testing.T) {
	_, err := wrap(&scripted{text: "  \n"}, 1).Generate(context.Background(), Request{})

	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestObserved_CancelledContextIsTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inner := &scripted{errs: []error{context.Canceled, context.Canceled}}

	_, err := wrap(inner, 2).Generate(ctx, Request{})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, inner.calls)
}

func TestNewProvider_Selection(t *testing.T) {
	log := logger.NewNop()
	ctx := context.Background()

	p, err := NewProvider(ctx, config.AI{Provider: "disabled"}, log)
	require.NoError(t, err)
	assert.Equal(t, "disabled", p.Name())

	p, err = NewProvider(ctx, config.AI{Provider: "gemini"}, log)
	require.NoError(t, err)
	assert.Equal(t, "disabled", p.Name(), "missing key disables generation")

	p, err = NewProvider(ctx, config.AI{Provider: "OpenAI", APIKey: "k"}, log)
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = NewProvider(ctx, config.AI{Provider: "claude"}, log)
	assert.Error(t, err)
}

func TestRequest_TokenLimit(t *testing.T) {
	assert.Equal(t, 4096, Request{Task: TaskPlan}.tokenLimit())
	assert.Equal(t, 1024, Request{Task: TaskChallenge}.tokenLimit())
	assert.Equal(t, 100, Request{Task: TaskPlan, MaxTokens: 100}.tokenLimit())
	assert.Equal(t, 1024, Request{Task: "other"}.tokenLimit())
}
