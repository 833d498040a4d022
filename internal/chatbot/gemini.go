package chatbot

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generator produces a free-form answer when no canned response matches.
type Generator interface {
	Generate(ctx context.Context, settings *Settings, question string) (string, error)
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator returns nil when no API key is configured; the
// service treats a nil generator as "model answers unavailable".
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, settings *Settings, question string) (string, error) {
	prompt := fmt.Sprintf(
		"You are %s, a wellness assistant for university students. Your personality is %s and your answers should be %s. "+
			"Do not give medical diagnoses; suggest booking a session with a campus expert for anything serious.\n\nStudent question: %s",
		settings.Name, settings.Personality, settings.ResponseStyle, question)

	content := &genai.Content{
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}

	result, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.7)),
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	answer := result.Candidates[0].Content.Parts[0].Text
	if answer == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return answer, nil
}
