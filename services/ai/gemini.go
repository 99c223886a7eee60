package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"craftmyprep-backend/config"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider calls generateContent on the Gemini Developer API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider builds the client from cfg. A non-empty cfg.BaseURL
// replaces the public endpoint.
func NewGeminiProvider(ctx context.Context, cfg config.AI) (*GeminiProvider, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = strings.TrimRight(cfg.BaseURL, "/") + "/"
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" || !strings.HasPrefix(model, "gemini") {
		model = defaultGeminiModel
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	genCfg := &genai.GenerateContentConfig{
		MaxOutputTokens:  int32(req.tokenLimit()),
		ResponseMIMEType: "application/json",
	}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		if code := geminiStatus(err); code >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: gemini returned status %d", ErrUnavailable, code)
		}
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	return &Response{Text: text.String(), Model: p.model}, nil
}

func geminiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
