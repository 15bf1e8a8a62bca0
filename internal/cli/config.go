package cli

import (
	"fmt"
	"io"

	"github.com/spf13/viper"

	"codeberg.org/tatsuki/kotobakit/internal/anki"
	"codeberg.org/tatsuki/kotobakit/internal/audio"
	"codeberg.org/tatsuki/kotobakit/internal/translation"
)

// ShowConfig prints the effective configuration. API keys are masked.
func ShowConfig(w io.Writer) {
	fmt.Fprintln(w, "Current configuration:")
	if file := viper.ConfigFileUsed(); file != "" {
		fmt.Fprintf(w, "  Config file: %s\n", file)
	} else {
		fmt.Fprintln(w, "  Config file: (none)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "TTS:")
	fmt.Fprintf(w, "  Provider: %s\n", stringOr("tts.provider", "ondoku"))
	fmt.Fprintf(w, "  URL:      %s\n", stringOr("tts.url", audio.OndokuDefaultURL))
	fmt.Fprintf(w, "  Voice:    %s\n", stringOr("tts.voice", "ja-JP-Wavenet-C"))
	fmt.Fprintf(w, "  Speed:    %v\n", floatOr("tts.speed", 1))
	fmt.Fprintf(w, "  Pitch:    %v\n", floatOr("tts.pitch", 0))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Translation:")
	fmt.Fprintf(w, "  Provider:     %s\n", stringOr("translation.provider", "openai"))
	fmt.Fprintf(w, "  OpenAI model: %s\n", stringOr("openai.model", translation.DefaultConfig().OpenAIModel))
	fmt.Fprintf(w, "  OpenAI key:   %s\n", maskKey(GetOpenAIKey()))
	fmt.Fprintf(w, "  Gemini model: %s\n", stringOr("gemini.model", translation.DefaultConfig().GeminiModel))
	fmt.Fprintf(w, "  Gemini key:   %s\n", maskKey(GetGeminiKey()))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Anki:")
	fmt.Fprintf(w, "  Host:  %s\n", stringOr("anki.host", anki.DefaultHost))
	fmt.Fprintf(w, "  Port:  %d\n", intOr("anki.port", anki.DefaultPort))
	fmt.Fprintf(w, "  Deck:  %s\n", stringOr("anki.default_deck", anki.DefaultDeck))
	fmt.Fprintf(w, "  Model: %s\n", stringOr("anki.default_model", anki.DefaultModel))
}

func stringOr(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func floatOr(key string, fallback float64) float64 {
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return fallback
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
