package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider asks Google Gemini models for structured tutor replies.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg VendorConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: resolveModel("gemini", cfg)}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.Schema == nil {
		return nil, errNoSchema
	}
	config := &genai.GenerateContentConfig{
		MaxOutputTokens:  int32(req.MaxTokens),
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiSchema(req.Schema),
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}}}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) {
			return nil, httpFailure(p.Name(), apiErr.Code, err)
		}
		return nil, httpFailure(p.Name(), 0, err)
	}

	r := reply{text: result.Text(), model: p.model}
	if len(result.Candidates) > 0 {
		r.truncated = result.Candidates[0].FinishReason == "MAX_TOKENS"
	}
	if u := result.UsageMetadata; u != nil {
		r.usage = Usage{InputTokens: int(u.PromptTokenCount), OutputTokens: int(u.CandidatesTokenCount)}
	}
	return finish(p.Name(), req, r)
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) ModelID() string { return p.model }

// geminiSchema renders a Schema in Gemini's own schema type, which has no
// additionalProperties or minLength.
func geminiSchema(s *Schema) *genai.Schema {
	out := &genai.Schema{
		Type:        genai.TypeObject,
		Description: s.Description,
		Properties:  make(map[string]*genai.Schema, len(s.Fields)),
	}
	for _, f := range s.Fields {
		out.Properties[f.Name] = &genai.Schema{Type: genai.TypeString, Description: f.Description}
		out.Required = append(out.Required, f.Name)
	}
	return out
}
