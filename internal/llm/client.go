// Package llm wraps the generative text API used by keyword extraction and roadmap
// generation, plus the lenient JSON parsing both of them share.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/resumate/resumate/pkg/logger"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrMissingAPIKey is returned per request when no API key was configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not configured")

// Options tune one generation call.
type Options struct {
	Temperature     float32
	MaxOutputTokens int32
	// JSON asks the model for an application/json response.
	JSON bool
	// RelaxedSafety disables harm-category blocking. Job descriptions routinely
	// trip the default filters.
	RelaxedSafety bool
}

// Client is an abstraction over the generative API.
type Client interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
	Close() error
}

// New returns a GeminiClient, or an Unconfigured client when apiKey is empty so
// the server can still start and fail the affected requests individually.
func New(ctx context.Context, apiKey, model string) (Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return Unconfigured{}, nil
	}
	return NewGeminiClient(ctx, apiKey, model)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(opts.Temperature)
	if opts.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(opts.MaxOutputTokens)
	}
	if opts.JSON {
		model.ResponseMIMEType = "application/json"
	}
	if opts.RelaxedSafety {
		model.SafetySettings = relaxedSafety()
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractText(resp)
}

func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func relaxedSafety() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	out := make([]*genai.SafetySetting, 0, len(categories))
	for _, cat := range categories {
		out = append(out, &genai.SafetySetting{Category: cat, Threshold: genai.HarmBlockNone})
	}
	return out
}

// extractText joins the text parts of the first candidate. A truncated answer is
// returned as-is (and logged); the caller's parser decides whether it is usable.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", errors.New("no candidates in response")
	}

	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case genai.FinishReasonMaxTokens:
		logger.Warnf("llm: response truncated at max output tokens")
	case genai.FinishReasonSafety:
		logger.Warnf("llm: response stopped by safety filter")
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response (finish reason %s)", candidate.FinishReason)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no text parts in response")
	}
	return sb.String(), nil
}

// Unconfigured is the Client used when no API key is set.
type Unconfigured struct{}

func (Unconfigured) Generate(context.Context, string, Options) (string, error) {
	return "", ErrMissingAPIKey
}

func (Unconfigured) Close() error { return nil }
