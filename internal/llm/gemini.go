package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// contentGenerator is the slice of the genai Models service the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiClient struct {
	cfg      LLMConfig
	models   contentGenerator
	observer Observer
}

// NewGeminiClient creates an LLMClient backed by the Gemini API.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required (set GEMINI_API_KEY)")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return newGeminiClient(cfg, client.Models, observer), nil
}

func newGeminiClient(cfg LLMConfig, models contentGenerator, observer Observer) *geminiClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Model == "" || cfg.Model == DefaultConfig().Model {
		cfg.Model = DefaultGeminiModel
	}
	return &geminiClient{cfg: cfg, models: models, observer: observer}
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return generateWithRetries(ctx, c.cfg, c.observer, req, func(ctx context.Context, p callParams) (string, string, error) {
		gc := &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(p.temperature)),
			MaxOutputTokens: int32(p.maxTokens),
		}
		if p.SystemPrompt != "" {
			gc.SystemInstruction = genai.NewContentFromText(p.SystemPrompt, genai.RoleUser)
		}
		if p.JSON {
			gc.ResponseMIMEType = "application/json"
		}
		resp, err := c.models.GenerateContent(ctx, c.cfg.Model, genai.Text(p.UserPrompt), gc)
		if err != nil {
			return "", "", err
		}
		text := resp.Text()
		if text == "" {
			return "", "", fmt.Errorf("%w: empty response", ErrInvalidOutput)
		}
		return text, c.cfg.Model, nil
	})
}

// Available reports true once the client is configured; the Gemini API has
// no cheap health probe.
func (c *geminiClient) Available(context.Context) bool {
	return c.cfg.APIKey != ""
}
