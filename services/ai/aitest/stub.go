// Package aitest provides a scripted ai.Provider for tests.
package aitest

import (
	"context"
	"sync"

	"craftmyprep-backend/services/ai"
)

// Stub returns canned responses in order; the last one repeats. Err, when
// set, is returned instead of any text.
type Stub struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Requests  []ai.Request
}

func Text(responses ...string) *Stub { return &Stub{Responses: responses} }

func Failing(err error) *Stub { return &Stub{Err: err} }

func (s *Stub) Name() string { return "stub" }

func (s *Stub) Generate(ctx context.Context, req ai.Request) (*ai.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Responses) == 0 {
		return nil, ai.ErrEmptyResponse
	}
	text := s.Responses[0]
	if len(s.Responses) > 1 {
		s.Responses = s.Responses[1:]
	}
	return &ai.Response{Text: text, Model: "stub"}, nil
}

// Calls reports how many requests the stub has served.
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}
