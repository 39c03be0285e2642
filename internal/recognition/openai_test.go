package recognition

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func newTranscriptionServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
		} else if header.Filename != "recording.webm" {
			t.Errorf("filename = %s, want recording.webm", header.Filename)
		}
		if got := r.FormValue("language"); got != "en" {
			t.Errorf("language = %q, want en", got)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q, want whisper-1", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestOpenAIRecognizer(t *testing.T, baseURL string) Recognizer {
	t.Helper()
	r, err := NewOpenAIRecognizer(&Config{
		OpenAIKey:     "test-key",
		OpenAIModel:   "whisper-1",
		OpenAIBaseURL: baseURL + "/v1",
		Language:      "en-US",
	})
	if err != nil {
		t.Fatalf("NewOpenAIRecognizer error = %v", err)
	}
	return r
}

func TestOpenAIRecognizerTranscribe(t *testing.T) {
	srv := newTranscriptionServer(t, `{"text":"  ship \n"}`, http.StatusOK)
	r := newTestOpenAIRecognizer(t, srv.URL)

	got, err := r.Transcribe(context.Background(), Audio{Data: []byte("webm-bytes"), ContentType: "audio/webm;codecs=opus"})
	if err != nil {
		t.Fatalf("Transcribe error = %v", err)
	}
	if got.Text != "ship" {
		t.Errorf("Text = %q, want ship", got.Text)
	}
	if got.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", got.Provider)
	}
}

func TestOpenAIRecognizerEmptyTranscript(t *testing.T) {
	srv := newTranscriptionServer(t, `{"text":""}`, http.StatusOK)
	r := newTestOpenAIRecognizer(t, srv.URL)

	_, err := r.Transcribe(context.Background(), Audio{Data: []byte("x"), ContentType: "audio/webm"})
	if !errors.Is(err, ErrNoSpeech) {
		t.Errorf("expected ErrNoSpeech, got %v", err)
	}
}

func TestOpenAIRecognizerAPIError(t *testing.T) {
	srv := newTranscriptionServer(t, `{"error":{"message":"overloaded","type":"server_error"}}`, http.StatusInternalServerError)
	r := newTestOpenAIRecognizer(t, srv.URL)

	_, err := r.Transcribe(context.Background(), Audio{Data: []byte("x"), ContentType: "audio/webm"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if IsInputError(err) {
		t.Errorf("service error reported as input error: %v", err)
	}
}

func TestOpenAIRecognizerRejectsInput(t *testing.T) {
	r, err := NewOpenAIRecognizer(&Config{OpenAIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Transcribe(context.Background(), Audio{ContentType: "audio/webm"}); !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("expected ErrEmptyAudio, got %v", err)
	}
	if _, err := r.Transcribe(context.Background(), Audio{Data: []byte("x"), ContentType: "audio/aiff"}); !errors.Is(err, ErrUnsupportedAudio) {
		t.Errorf("expected ErrUnsupportedAudio, got %v", err)
	}
}

func TestNewOpenAIRecognizerNoKey(t *testing.T) {
	_, err := NewOpenAIRecognizer(&Config{})
	if err == nil || err.Error() != "OpenAI API key is required" {
		t.Errorf("expected missing key error, got %v", err)
	}
}

func TestOpenAIRecognizer_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}
	path := os.Getenv("PRONCOACH_TEST_AUDIO")
	if path == "" {
		t.Skip("Skipping integration test: PRONCOACH_TEST_AUDIO not set")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read test audio: %v", err)
	}

	r, err := NewOpenAIRecognizer(&Config{OpenAIKey: apiKey, OpenAIModel: "whisper-1", Language: "en-US"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := r.Transcribe(context.Background(), Audio{Data: data, Filename: path})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	t.Logf("Transcript: %s", got.Text)
}
