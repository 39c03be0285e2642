package audio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTTSServer(t *testing.T, body string, requests *[]map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			http.NotFound(w, r)
			return
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if requests != nil {
			*requests = append(*requests, req)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewOpenAIProvider(t *testing.T) {
	if _, err := NewOpenAIProvider(&Config{}); err == nil || err.Error() != "OpenAI API key is required" {
		t.Errorf("NewOpenAIProvider() error = %v, want missing key", err)
	}

	provider, err := NewOpenAIProvider(&Config{OpenAIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider() unexpected error: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("Name() = %v, want openai", provider.Name())
	}
	if err := provider.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() unexpected error: %v", err)
	}
}

func TestOpenAIProviderGenerateAudio(t *testing.T) {
	var requests []map[string]any
	server := newTTSServer(t, "ID3fakeaudio", &requests)

	config := DefaultProviderConfig()
	config.OpenAIKey = "test-key"
	config.OpenAIBaseURL = server.URL + "/v1"

	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatal(err)
	}

	outputFile := filepath.Join(t.TempDir(), "nested", "sheep.mp3")
	if err := provider.GenerateAudio(context.Background(), "sheep!", outputFile); err != nil {
		t.Fatalf("GenerateAudio() error = %v", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "ID3fakeaudio" {
		t.Errorf("output = %q", data)
	}

	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	req := requests[0]
	if req["input"] != "sheep" {
		t.Errorf("input = %v, want punctuation stripped", req["input"])
	}
	if req["voice"] != "alloy" || req["model"] != "gpt-4o-mini-tts" {
		t.Errorf("unexpected voice/model: %v", req)
	}
	if req["response_format"] != "mp3" {
		t.Errorf("response_format = %v", req["response_format"])
	}
	if instructions, _ := req["instructions"].(string); !strings.Contains(instructions, "English") {
		t.Errorf("instructions = %q", instructions)
	}
}

func TestOpenAIProviderRejectsInvalidText(t *testing.T) {
	provider, err := NewOpenAIProvider(&Config{OpenAIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}
	if err := provider.GenerateAudio(context.Background(), "  ", filepath.Join(t.TempDir(), "x.mp3")); err != ErrEmptyText {
		t.Errorf("GenerateAudio() error = %v, want %v", err, ErrEmptyText)
	}
}

func TestOpenAIProviderEmptyResponse(t *testing.T) {
	server := newTTSServer(t, "", nil)

	provider, err := NewOpenAIProvider(&Config{OpenAIKey: "k", OpenAIBaseURL: server.URL + "/v1", OpenAIModel: "tts-1", OpenAIVoice: "nova", OpenAISpeed: 1})
	if err != nil {
		t.Fatal(err)
	}
	err = provider.GenerateAudio(context.Background(), "ship", filepath.Join(t.TempDir(), "ship.mp3"))
	if err == nil || !strings.Contains(err.Error(), "no audio data") {
		t.Errorf("GenerateAudio() error = %v, want no audio data", err)
	}
}

func TestOpenAIProviderCacheKey(t *testing.T) {
	base := &Config{OpenAIKey: "k", OpenAIModel: "tts-1", OpenAIVoice: "alloy", OpenAISpeed: 1}
	other := *base
	other.OpenAIVoice = "nova"

	a, _ := NewOpenAIProvider(base)
	b, _ := NewOpenAIProvider(&other)
	if a.CacheKey() == b.CacheKey() {
		t.Error("different voices produced the same cache key")
	}

	// Instructions only matter for models that accept them
	withInstruction := *base
	withInstruction.OpenAIInstruction = "slowly"
	c, _ := NewOpenAIProvider(&withInstruction)
	if a.CacheKey() != c.CacheKey() {
		t.Error("instruction changed the cache key for tts-1")
	}
}

func TestOpenAIProviderIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set, skipping integration test")
	}

	config := DefaultProviderConfig()
	config.OpenAIKey = apiKey

	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatal(err)
	}

	outputFile := filepath.Join(t.TempDir(), "sheep.mp3")
	if err := provider.GenerateAudio(context.Background(), "sheep", outputFile); err != nil {
		t.Fatalf("GenerateAudio() error = %v", err)
	}
	if info, err := os.Stat(outputFile); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty audio file, got %v", err)
	}
}
