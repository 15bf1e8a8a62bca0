package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// OndokuDefaultURL is the speech synthesis endpoint of ondoku3.com
	OndokuDefaultURL = "https://ondoku3.com/ja/text_to_speech/"

	ondokuTimeout = 60 * time.Second

	// Wire constants of the ondoku3 endpoint. The service expects the exact
	// boundary and CSRF pair a browser session would send.
	ondokuBoundary   = "----WebKitFormBoundaryqGStFWB7U9DoxCXA"
	ondokuCSRFToken  = "efSzSFCU3ccRxThj1CeqUUNz1TDrhJ7Ysm0cJJtfFVOOreB8mTg0pGjBqS2TUovT"
	ondokuCSRFCookie = "ohiN1e1vMTM74vuZvrcKFWGcz9zCNPy5"
)

// OndokuProvider implements Provider interface for the ondoku3.com TTS service
type OndokuProvider struct {
	config     *Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// ondokuResponse represents the synthesis API response
type ondokuResponse struct {
	URL string `json:"url"`
}

// NewOndokuProvider creates a new ondoku3.com TTS provider
func NewOndokuProvider(config *Config) *OndokuProvider {
	if config.URL == "" {
		config.URL = OndokuDefaultURL
	}

	return &OndokuProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: ondokuTimeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "ondoku-tts",
		}),
	}
}

// GenerateAudio synthesizes speech for the text and writes it to outputFile.
// The endpoint answers with the URL of the rendered audio, which is then
// downloaded in a second request.
func (p *OndokuProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateJapaneseText(text); err != nil {
		return err
	}

	audioURL, err := p.fetchSpeechURL(ctx, text)
	if err != nil {
		return fmt.Errorf("TTS request failed for %q: %w", text, err)
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := p.downloadFile(ctx, audioURL, outputFile); err != nil {
		return fmt.Errorf("audio download failed for %q: %w", text, err)
	}

	return nil
}

// fetchSpeechURL posts the phrase to the synthesis endpoint and returns the
// URL of the generated audio file
func (p *OndokuProvider) fetchSpeechURL(ctx context.Context, text string) (string, error) {
	body := p.requestBody(text)

	result, err := p.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.URL, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		p.setRequestHeaders(req)

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("TTS endpoint returned status %d", resp.StatusCode)
		}

		var parsed ondokuResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return nil, fmt.Errorf("failed to decode TTS response: %w", err)
		}

		if parsed.URL == "" {
			return nil, fmt.Errorf("TTS response contains no audio URL")
		}

		return parsed.URL, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

// requestBody builds the multipart form body the endpoint expects
func (p *OndokuProvider) requestBody(text string) string {
	var b strings.Builder

	writeField := func(name, value string) {
		b.WriteString("--" + ondokuBoundary + "\r\n")
		b.WriteString(fmt.Sprintf("Content-Disposition: form-data; name=%q\r\n\r\n", name))
		b.WriteString(value + "\r\n")
	}

	writeField("text", text)
	writeField("voice", p.config.Voice)
	writeField("speed", formatNumber(p.config.Speed))
	writeField("pitch", formatNumber(p.config.Pitch))
	b.WriteString("--" + ondokuBoundary + "--\r\n")

	return b.String()
}

func (p *OndokuProvider) setRequestHeaders(req *http.Request) {
	// The endpoint expects a browser-shaped request, so the full header
	// set of a Chromium XHR is sent, client hints included.
	req.Header.Set("accept", "*/*")
	req.Header.Set("accept-language", "en-US,en;q=0.9")
	req.Header.Set("content-type", "multipart/form-data; boundary="+ondokuBoundary)
	req.Header.Set("priority", "u=1, i")
	req.Header.Set("sec-ch-ua", `"Not?A_Brand";v="99", "Chromium";v="130"`)
	req.Header.Set("sec-ch-ua-mobile", "?0")
	req.Header.Set("sec-ch-ua-platform", `"macOS"`)
	req.Header.Set("sec-fetch-dest", "empty")
	req.Header.Set("sec-fetch-mode", "cors")
	req.Header.Set("sec-fetch-site", "same-origin")
	req.Header.Set("x-csrftoken", ondokuCSRFToken)
	req.Header.Set("x-requested-with", "XMLHttpRequest")
	req.Header.Set("cookie", fmt.Sprintf(
		`settings={"voice":%q,"speed":%s,"pitch":%s,"language":"ja-JP"}; csrftoken=%s`,
		p.config.Voice, formatNumber(p.config.Speed), formatNumber(p.config.Pitch), ondokuCSRFCookie))
	req.Header.Set("Referer", "https://ondoku3.com/ja/")
	req.Header.Set("Referrer-Policy", "same-origin")
}

// downloadFile streams the audio URL to a local file. A partially written
// file is removed on failure.
func (p *OndokuProvider) downloadFile(ctx context.Context, url, outputFile string) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
		}

		out, err := os.Create(outputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}

		written, err := io.Copy(out, resp.Body)
		closeErr := out.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(outputFile)
			return nil, fmt.Errorf("failed to write audio file: %w", err)
		}

		if written == 0 {
			os.Remove(outputFile)
			return nil, fmt.Errorf("no audio data received")
		}

		return nil, nil
	})
	return err
}

// Name returns the provider name
func (p *OndokuProvider) Name() string {
	return "ondoku"
}

// IsAvailable checks if the provider is configured
func (p *OndokuProvider) IsAvailable() error {
	if p.config.Voice == "" {
		return fmt.Errorf("TTS voice not configured")
	}
	return nil
}

// formatNumber renders speed/pitch values the way the web form does:
// integral values without a decimal point.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
