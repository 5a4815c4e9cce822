// internal/adapters/suggest/gemini.go
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/elikagan/objectlesson-api/internal/core/ports"
)

const defaultModel = "gemini-2.5-flash"

// maxImages caps how many photos go to the model per suggestion call.
const maxImages = 4

const suggestPrompt = `You are cataloging items for an antique gallery. Based on these photos, provide: a short title (2-5 words, title case, just what the object is), a description that flows naturally from the title as a continuation (1 simple descriptive sentence. Do NOT repeat the title. No flowery language, no marketing speak), a category (exactly one of: wall-art, object, ceramic, furniture, light, sculpture, misc), a maker or brand if identifiable (empty string if unknown), and condition (exactly one of: excellent, good, fair, as-is). Return ONLY valid JSON: {"title": "string", "description": "string", "category": "string", "maker": "string", "condition": "string"}`

// GeminiSuggester infers catalog fields from product photos using the
// Gemini API. Every suggested field is optional; a response the model
// cannot produce comes back as an empty suggestion, not an error.
type GeminiSuggester struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// Statically assert that *GeminiSuggester implements the port.
var _ ports.Suggester = (*GeminiSuggester)(nil)

// NewGeminiSuggester creates a new Gemini-backed suggester
func NewGeminiSuggester(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiSuggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiSuggester{
		client: client,
		model:  model,
		logger: logger.With(slog.String("suggester", "gemini")),
	}, nil
}

// Suggest asks the model for catalog fields from the given JPEG images
func (g *GeminiSuggester) Suggest(ctx context.Context, images [][]byte) (*ports.ListingSuggestion, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("at least one image is required")
	}
	if len(images) > maxImages {
		images = images[:maxImages]
	}

	parts := []*genai.Part{genai.NewPartFromText(suggestPrompt)}
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img, "image/jpeg"))
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini suggest failed: %w", err)
	}

	var suggestion ports.ListingSuggestion
	if err := json.Unmarshal([]byte(result.Text()), &suggestion); err != nil {
		// partial or malformed model output is not fatal
		g.logger.WarnContext(ctx, "unparseable suggestion response",
			slog.String("error", err.Error()))
		return &ports.ListingSuggestion{}, nil
	}

	g.logger.InfoContext(ctx, "listing suggestion generated",
		slog.Int("images", len(images)),
		slog.Bool("has_title", suggestion.Title != ""))

	return &suggestion, nil
}
