package anki

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"codeberg.org/tatsuki/kotobakit/internal/testutil"
)

// newTestClient points a ConnectClient at an httptest server
func newTestClient(t *testing.T, handler http.HandlerFunc) (*ConnectClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("Failed to parse test server URL: %v", err)
	}
	port, _ := strconv.Atoi(u.Port())

	return NewConnectClient(u.Hostname(), port), server
}

func writeTestAudio(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	testutil.CreateTestFile(t, path, []byte("fake mp3 data"))
	return path
}

func TestNewConnectClient_Defaults(t *testing.T) {
	client := NewConnectClient("", 0)

	expected := fmt.Sprintf("http://%s:%d", DefaultHost, DefaultPort)
	if client.URL() != expected {
		t.Errorf("Expected URL '%s', got '%s'", expected, client.URL())
	}
}

func TestPing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req connectRequest
		json.NewDecoder(r.Body).Decode(&req)

		if req.Action != "version" {
			t.Errorf("Expected action 'version', got '%s'", req.Action)
		}
		if req.Version != 6 {
			t.Errorf("Expected version 6, got %d", req.Version)
		}

		fmt.Fprint(w, `{"result": 6, "error": null}`)
	})

	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestPing_Unreachable(t *testing.T) {
	client := NewConnectClient("127.0.0.1", 1)

	if err := client.Ping(context.Background()); err == nil {
		t.Error("Expected error for unreachable AnkiConnect")
	}
}

func TestAddNote(t *testing.T) {
	audioPath := writeTestAudio(t, t.TempDir(), "こんにちは.mp3")

	var captured map[string]interface{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Action string                 `json:"action"`
			Params map[string]interface{} `json:"params"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		if req.Action != "addNote" {
			t.Errorf("Expected action 'addNote', got '%s'", req.Action)
		}
		captured = req.Params

		fmt.Fprint(w, `{"result": 1496198395707, "error": null}`)
	})

	noteID, err := client.AddNote(context.Background(), Note{
		Deck:      "Japanese::Sentences",
		Model:     "Basic",
		Front:     "こんにちは",
		Back:      "Hello",
		AudioPath: audioPath,
	})
	if err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}

	if noteID != 1496198395707 {
		t.Errorf("Expected note ID 1496198395707, got %d", noteID)
	}

	note := captured["note"].(map[string]interface{})
	if note["deckName"] != "Japanese::Sentences" {
		t.Errorf("Wrong deck name: %v", note["deckName"])
	}
	if note["modelName"] != "Basic" {
		t.Errorf("Wrong model name: %v", note["modelName"])
	}

	fields := note["fields"].(map[string]interface{})
	if fields["Front"] != "こんにちは" {
		t.Errorf("Wrong front field: %v", fields["Front"])
	}
	if fields["Back"] != "Hello" {
		t.Errorf("Wrong back field: %v", fields["Back"])
	}

	tags := note["tags"].([]interface{})
	if len(tags) != 1 || tags[0] != "script_added" {
		t.Errorf("Expected tags [script_added], got %v", tags)
	}

	audio := note["audio"].([]interface{})[0].(map[string]interface{})
	if audio["filename"] != "こんにちは.mp3" {
		t.Errorf("Wrong audio filename: %v", audio["filename"])
	}
	decoded, err := base64.StdEncoding.DecodeString(audio["data"].(string))
	if err != nil || string(decoded) != "fake mp3 data" {
		t.Errorf("Audio data not base64 of file content: %v", audio["data"])
	}
	audioFields := audio["fields"].([]interface{})
	if len(audioFields) != 1 || audioFields[0] != "Audio" {
		t.Errorf("Expected audio fields [Audio], got %v", audioFields)
	}
}

func TestAddNote_DefaultDeckAndModel(t *testing.T) {
	audioPath := writeTestAudio(t, t.TempDir(), "phrase.mp3")

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Params map[string]interface{} `json:"params"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		note := req.Params["note"].(map[string]interface{})
		if note["deckName"] != DefaultDeck {
			t.Errorf("Expected default deck, got %v", note["deckName"])
		}
		if note["modelName"] != DefaultModel {
			t.Errorf("Expected default model, got %v", note["modelName"])
		}

		fmt.Fprint(w, `{"result": 1, "error": null}`)
	})

	if _, err := client.AddNote(context.Background(), Note{
		Front:     "こんにちは",
		Back:      "Hello",
		AudioPath: audioPath,
	}); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
}

func TestAddNote_MissingAudioFile(t *testing.T) {
	client := NewConnectClient("", 0)

	_, err := client.AddNote(context.Background(), Note{
		Front:     "こんにちは",
		AudioPath: "/nonexistent/audio.mp3",
	})
	if err == nil {
		t.Error("Expected error for missing audio file")
	}
}

func TestAddNote_NotMP3(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audio.wav")
	os.WriteFile(path, []byte("wav data"), 0644)

	client := NewConnectClient("", 0)

	_, err := client.AddNote(context.Background(), Note{Front: "こんにちは", AudioPath: path})
	if err == nil {
		t.Error("Expected error for non-MP3 file")
	}
	if !strings.Contains(err.Error(), "MP3") {
		t.Errorf("Expected MP3 error, got: %v", err)
	}
}

func TestInvoke_APIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": null, "error": "cannot create note because it is a duplicate"}`)
	})

	_, err := client.Invoke(context.Background(), "addNote", nil)
	if err == nil {
		t.Fatal("Expected error from API error field")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("Expected duplicate error, got: %v", err)
	}
}

func TestInvoke_MissingResult(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	_, err := client.Invoke(context.Background(), "version", nil)
	if err == nil {
		t.Fatal("Expected error for response without result field")
	}
	if !strings.Contains(err.Error(), "missing result field") {
		t.Errorf("Expected missing-result error, got: %v", err)
	}
}

func TestInvoke_NonOKStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := client.Invoke(context.Background(), "version", nil); err == nil {
		t.Error("Expected error for HTTP 500")
	}
}
