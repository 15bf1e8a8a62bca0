package anki

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultHost is where the AnkiConnect add-on listens
	DefaultHost = "127.0.0.1"
	// DefaultPort is the AnkiConnect default port
	DefaultPort = 8765
	// DefaultDeck is the deck new cards go to unless overridden
	DefaultDeck = "Japanese::Sentences"
	// DefaultModel is the note model used unless overridden
	DefaultModel = "Basic"

	connectVersion = 6
	connectTimeout = 30 * time.Second
)

// ConnectClient talks to the AnkiConnect HTTP API of a running Anki instance
type ConnectClient struct {
	url        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// Note is a flashcard to be added via AnkiConnect
type Note struct {
	Deck      string // Deck name, e.g. "Japanese::Sentences"
	Model     string // Note model name, e.g. "Basic"
	Front     string // Japanese phrase
	Back      string // English translation
	AudioPath string // Path to the MP3 file to attach
}

type connectRequest struct {
	Action  string      `json:"action"`
	Version int         `json:"version"`
	Params  interface{} `json:"params,omitempty"`
}

// NewConnectClient creates a client for an AnkiConnect instance
func NewConnectClient(host string, port int) *ConnectClient {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}

	return &ConnectClient{
		url: fmt.Sprintf("http://%s:%d", host, port),
		httpClient: &http.Client{
			Timeout: connectTimeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "anki-connect",
		}),
	}
}

// URL returns the endpoint the client talks to
func (c *ConnectClient) URL() string {
	return c.url
}

// Invoke executes an AnkiConnect action and returns the raw result.
// A response without a result field, or with a non-null error field,
// is reported as an error.
func (c *ConnectClient) Invoke(ctx context.Context, action string, params interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(connectRequest{
		Action:  action,
		Version: connectVersion,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("AnkiConnect unreachable at %s: %w", c.url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("AnkiConnect returned status %d", resp.StatusCode)
		}

		var envelope map[string]json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, fmt.Errorf("failed to decode AnkiConnect response: %w", err)
		}

		if raw, ok := envelope["error"]; ok && string(raw) != "null" {
			var msg string
			if err := json.Unmarshal(raw, &msg); err != nil {
				msg = string(raw)
			}
			return nil, fmt.Errorf("AnkiConnect error: %s", msg)
		}

		raw, ok := envelope["result"]
		if !ok {
			return nil, fmt.Errorf("unknown error: response missing result field")
		}

		return raw, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(json.RawMessage), nil
}

// Ping checks that AnkiConnect is reachable by asking for its version
func (c *ConnectClient) Ping(ctx context.Context) error {
	raw, err := c.Invoke(ctx, "version", nil)
	if err != nil {
		return err
	}

	var version int
	if err := json.Unmarshal(raw, &version); err != nil {
		return fmt.Errorf("unexpected version response: %s", raw)
	}

	return nil
}

// AddNote adds a new flashcard with the audio file attached to its Audio
// field and returns the ID of the created note.
func (c *ConnectClient) AddNote(ctx context.Context, note Note) (int64, error) {
	if note.Deck == "" {
		note.Deck = DefaultDeck
	}
	if note.Model == "" {
		note.Model = DefaultModel
	}

	if _, err := os.Stat(note.AudioPath); err != nil {
		return 0, fmt.Errorf("audio file %q does not exist", note.AudioPath)
	}
	if !strings.EqualFold(filepath.Ext(note.AudioPath), ".mp3") {
		return 0, fmt.Errorf("audio file must be an MP3")
	}

	audioData, err := os.ReadFile(note.AudioPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read audio file: %w", err)
	}

	params := map[string]interface{}{
		"note": map[string]interface{}{
			"deckName":  note.Deck,
			"modelName": note.Model,
			"fields": map[string]string{
				"Front": note.Front,
				"Back":  note.Back,
			},
			"tags": []string{"script_added"},
			"audio": []map[string]interface{}{
				{
					"data":     base64.StdEncoding.EncodeToString(audioData),
					"filename": filepath.Base(note.AudioPath),
					"fields":   []string{"Audio"},
				},
			},
		},
	}

	raw, err := c.Invoke(ctx, "addNote", params)
	if err != nil {
		return 0, err
	}

	var noteID int64
	if err := json.Unmarshal(raw, &noteID); err != nil {
		return 0, fmt.Errorf("unexpected addNote response: %s", raw)
	}

	return noteID, nil
}
