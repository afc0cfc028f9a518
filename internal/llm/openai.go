package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenAIProvider talks to OpenAI or any API compatible with its chat
// completions endpoint, such as OpenRouter.
type OpenAIProvider struct {
	client *openai.Client
	name   string
	model  string
	// strict asks for exact schema adherence, which OpenRouter's upstream
	// models do not all accept.
	strict bool
}

func NewOpenAIProvider(cfg VendorConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	return newChatProvider("openai", cfg, true), nil
}

// NewOpenRouterProvider targets OpenRouter unless cfg.BaseURL says otherwise.
func NewOpenRouterProvider(cfg VendorConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = openRouterBaseURL
	}
	return newChatProvider("openrouter", cfg, false), nil
}

func newChatProvider(name string, cfg VendorConfig, strict bool) *OpenAIProvider {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(oc),
		name:   name,
		model:  resolveModel(name, cfg),
		strict: strict,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.Schema == nil {
		return nil, errNoSchema
	}
	def, err := json.Marshal(req.Schema.Definition())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            messages,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      p.strict,
			},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, httpFailure(p.name, apiErr.HTTPStatusCode, err)
		}
		return nil, httpFailure(p.name, 0, err)
	}
	if len(resp.Choices) == 0 {
		return nil, &Error{Failure: FailureMalformed, Provider: p.name, Err: errors.New("no choices")}
	}

	choice := resp.Choices[0]
	return finish(p.name, req, reply{
		text:      choice.Message.Content,
		truncated: choice.FinishReason == openai.FinishReasonLength,
		model:     resp.Model,
		usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	})
}

func (p *OpenAIProvider) Name() string { return p.name }

func (p *OpenAIProvider) ModelID() string { return p.model }
