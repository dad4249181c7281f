package extract

import (
	"context"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.5-flash"

// Generator is the opaque text-in/text-out model gateway. It may be slow,
// wrong, or unavailable; every call site handles both hard failure and
// malformed output.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGateway implements Generator against the Gemini API.
type GeminiGateway struct {
	client *genai.Client
	model  string
}

// NewGeminiGateway creates a gateway using ambient credentials
// (GEMINI_API_KEY, or Vertex AI via GOOGLE_GENAI_USE_VERTEXAI).
func NewGeminiGateway(ctx context.Context, model string) (*GeminiGateway, error) {
	if model == "" {
		model = DefaultModelName
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, &Error{Code: CodeModelUnavailable, Message: "create genai client", Cause: err}
	}
	return &GeminiGateway{client: client, model: model}, nil
}

// Generate sends the prompt and returns the model's raw text. Any
// transport or quota failure surfaces as CodeModelUnavailable; callers
// decide whether that is fatal or triggers the fallback.
func (g *GeminiGateway) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", &Error{Code: CodeModelUnavailable, Message: "generate content", Cause: err}
	}

	text := resp.Text()
	if text == "" {
		return "", &Error{Code: CodeModelUnavailable, Message: "empty response from model"}
	}
	return text, nil
}
