package audio

import (
	"context"
	"errors"
	"testing"
)

// mockProvider implements Provider interface for testing
type mockProvider struct {
	name          string
	generateErr   error
	availableErr  error
	generateCalls int
}

func (m *mockProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.generateCalls++
	return m.generateErr
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) IsAvailable() error {
	return m.availableErr
}

func TestDefaultProviderConfig(t *testing.T) {
	config := DefaultProviderConfig()

	if config.Provider != "ondoku" {
		t.Errorf("Expected provider 'ondoku', got '%s'", config.Provider)
	}

	if config.URL != OndokuDefaultURL {
		t.Errorf("Expected default ondoku URL, got '%s'", config.URL)
	}

	if config.Voice != "ja-JP-Wavenet-C" {
		t.Errorf("Expected voice 'ja-JP-Wavenet-C', got '%s'", config.Voice)
	}

	if config.Speed != 1 {
		t.Errorf("Expected speed 1, got %f", config.Speed)
	}

	if config.Pitch != 0 {
		t.Errorf("Expected pitch 0, got %f", config.Pitch)
	}

	if config.OpenAIModel != "gpt-4o-mini-tts" {
		t.Errorf("Expected OpenAI model 'gpt-4o-mini-tts', got '%s'", config.OpenAIModel)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "nil config uses defaults",
			config:  nil,
			wantErr: false,
		},
		{
			name:    "ondoku provider",
			config:  &Config{Provider: "ondoku", Voice: "ja-JP-Wavenet-C"},
			wantErr: false,
		},
		{
			name:    "openai provider without key",
			config:  &Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai provider with key",
			config:  &Config{Provider: "openai", OpenAIKey: "test-key"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			config:  &Config{Provider: "espeak"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if provider == nil {
				t.Error("Expected provider, got nil")
			}
		})
	}
}

func TestProviderWithFallback(t *testing.T) {
	primary := &mockProvider{name: "primary", generateErr: errors.New("primary failed")}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	err := provider.GenerateAudio(context.Background(), "こんにちは", "out.mp3")
	if err != nil {
		t.Errorf("Expected fallback to succeed, got: %v", err)
	}

	if primary.generateCalls != 1 {
		t.Errorf("Expected 1 primary call, got %d", primary.generateCalls)
	}

	if fallback.generateCalls != 1 {
		t.Errorf("Expected 1 fallback call, got %d", fallback.generateCalls)
	}
}

func TestProviderWithFallback_PrimarySucceeds(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	if err := provider.GenerateAudio(context.Background(), "こんにちは", "out.mp3"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if fallback.generateCalls != 0 {
		t.Errorf("Fallback should not be called, got %d calls", fallback.generateCalls)
	}
}

func TestProviderWithFallback_IsAvailable(t *testing.T) {
	primary := &mockProvider{name: "primary", availableErr: errors.New("not configured")}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)
	if err := provider.IsAvailable(); err != nil {
		t.Errorf("Expected available via fallback, got: %v", err)
	}

	fallback.availableErr = errors.New("also not configured")
	if err := provider.IsAvailable(); err == nil {
		t.Error("Expected error when both providers unavailable")
	}
}
