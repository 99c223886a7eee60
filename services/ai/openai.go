package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"craftmyprep-backend/config"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, Groq, AIML API).
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(cfg config.AI) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if baseURL := strings.TrimRight(cfg.BaseURL, "/"); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	clientCfg.HTTPClient = &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}

	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(clientCfg), model: model}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var messages []openai.ChatCompletionMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.model,
		Messages:  messages,
		MaxTokens: req.tokenLimit(),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, openAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	model := resp.Model
	if model == "" {
		model = p.model
	}
	return &Response{Text: resp.Choices[0].Message.Content, Model: model}, nil
}

// openAIError marks upstream 5xx replies as unavailable; everything else,
// including 429, is returned as is so the status stays visible in logs.
func openAIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
