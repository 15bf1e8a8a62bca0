package translation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/tatsuki/kotobakit/internal"
)

// DefaultSystemPrompt instructs the model to answer with the bare translation
const DefaultSystemPrompt = "You are a translator. Translate the following Japanese text to English. Respond with only the translation."

// Translator translates a Japanese phrase to English
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
	Name() string
}

// Config holds translator configuration
type Config struct {
	Provider     string // "openai" or "gemini"
	SystemPrompt string

	OpenAIKey   string
	OpenAIModel string

	GeminiKey   string
	GeminiModel string
}

// DefaultConfig returns default translator configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:     "openai",
		SystemPrompt: DefaultSystemPrompt,
		OpenAIModel:  openai.GPT3Dot5Turbo,
		GeminiModel:  "gemini-2.0-flash",
	}
}

// NewTranslator creates a translator for the configured provider
func NewTranslator(config *Config) (Translator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.SystemPrompt == "" {
		config.SystemPrompt = DefaultSystemPrompt
	}

	switch config.Provider {
	case "openai":
		return NewOpenAITranslator(config.OpenAIKey, config.OpenAIModel, config.SystemPrompt), nil

	case "gemini":
		return NewGeminiTranslator(config.GeminiKey, config.GeminiModel, config.SystemPrompt), nil

	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}
}

// OpenAITranslator translates via the OpenAI chat completion API
type OpenAITranslator struct {
	apiKey       string
	model        string
	systemPrompt string
	client       *openai.Client
}

// NewOpenAITranslator creates a new OpenAI-backed translator
func NewOpenAITranslator(apiKey, model, systemPrompt string) *OpenAITranslator {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAITranslator{
		apiKey:       apiKey,
		model:        model,
		systemPrompt: systemPrompt,
		client:       openai.NewClient(apiKey),
	}
}

// Translate translates a Japanese phrase to English
func (t *OpenAITranslator) Translate(ctx context.Context, text string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: t.systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Name returns the provider name
func (t *OpenAITranslator) Name() string {
	return "openai"
}

// SaveTranslation saves the translation to a text file next to the audio
func SaveTranslation(outputDir, phrase, translation string) error {
	name := strings.TrimSuffix(internal.AudioFileName(phrase), ".mp3") + ".txt"
	outputFile := filepath.Join(outputDir, name)
	content := fmt.Sprintf("%s = %s\n", phrase, translation)

	if err := os.WriteFile(outputFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write translation file: %w", err)
	}

	return nil
}

// TranslationCache stores translations in memory for batch operations
type TranslationCache struct {
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(phrase, translation string) {
	tc.translations[phrase] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(phrase string) (string, bool) {
	translation, ok := tc.translations[phrase]
	return translation, ok
}

// GetAll returns all cached translations
func (tc *TranslationCache) GetAll() map[string]string {
	// Return a copy to prevent external modification
	result := make(map[string]string)
	for k, v := range tc.translations {
		result[k] = v
	}
	return result
}
