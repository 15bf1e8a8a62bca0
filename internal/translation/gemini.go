package translation

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiTranslator translates via the Gemini generateContent API
type GeminiTranslator struct {
	apiKey       string
	model        string
	systemPrompt string
}

// NewGeminiTranslator creates a new Gemini-backed translator
func NewGeminiTranslator(apiKey, model, systemPrompt string) *GeminiTranslator {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiTranslator{
		apiKey:       apiKey,
		model:        model,
		systemPrompt: systemPrompt,
	}
}

// Translate translates a Japanese phrase to English
func (t *GeminiTranslator) Translate(ctx context.Context, text string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("Gemini API key not found")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: t.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	prompt := fmt.Sprintf("%s\n\n%s", t.systemPrompt, text)

	result, err := client.Models.GenerateContent(ctx, t.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	translation := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if translation == "" {
		return "", fmt.Errorf("no translation returned")
	}

	return translation, nil
}

// Name returns the provider name
func (t *GeminiTranslator) Name() string {
	return "gemini"
}
