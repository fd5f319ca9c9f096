package chat

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/gleelab/glee-suggester/internal/assets"
)

// geminiModel is used for every bundle when running against Gemini; the
// per-bundle CLOVA model names do not map onto Gemini's catalog.
const geminiModel = "gemini-2.5-flash"

// GeminiClient is an alternative chat backend for environments without CLOVA
// Studio access. Bundles keep their system prompts and token limits; sampling
// seeds are left to the API since Gemini does not expose one.
type GeminiClient struct {
	client *genai.Client
}

var _ Backend = (*GeminiClient)(nil)

// NewGeminiClient creates a Gemini-backed chat client.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Complete runs one generation call for the named prompt bundle.
func (g *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	bundle, err := assets.Load(req.Bundle)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Input}},
	}}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: bundle.System}},
		},
		MaxOutputTokens: int32(bundle.Params.MaxTokens),
		Temperature:     genai.Ptr(float32(bundle.Params.Temperature)),
	}

	resp, err := g.client.Models.GenerateContent(ctx, geminiModel, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generation for bundle %s: %w", bundle.Name, err)
	}

	text := resp.Text()
	log.Debug().
		Str("bundle", bundle.Name).
		Int("response_length", len([]rune(text))).
		Msg("gemini completion received")
	return text, nil
}
