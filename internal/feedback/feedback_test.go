package feedback

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubGenerator struct {
	out    string
	err    error
	calls  int
	system string
	prompt string
}

func (s *stubGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	s.calls++
	s.system = system
	s.prompt = prompt
	return s.out, s.err
}

func (s *stubGenerator) Name() string { return "stub" }

func TestRequesterRequest(t *testing.T) {
	gen := &stubGenerator{out: "```json\n{\"isCorrect\": false, \"feedback\": \"We heard ship.\", \"tip\": \"Make /iː/ longer.\"}\n```"}
	r := NewRequester(gen, 3, time.Minute, time.Second)

	got, err := r.Request(context.Background(), Request{Word: "sheep", IPA: "ʃiːp", Transcript: "ship"})
	if err != nil {
		t.Fatalf("Request error = %v", err)
	}
	if got.IsCorrect || got.Tip != "Make /iː/ longer." {
		t.Errorf("unexpected result %+v", got)
	}
	if gen.system != SystemPrompt {
		t.Error("system prompt not passed to generator")
	}
	if !strings.Contains(gen.prompt, `heard: "ship"`) {
		t.Errorf("prompt missing transcript: %s", gen.prompt)
	}
}

func TestRequesterValidation(t *testing.T) {
	gen := &stubGenerator{}
	r := NewRequester(gen, 3, time.Minute, 0)

	if _, err := r.Request(context.Background(), Request{Transcript: "ship"}); !errors.Is(err, ErrMissingWord) {
		t.Errorf("expected ErrMissingWord, got %v", err)
	}
	if _, err := r.Request(context.Background(), Request{Word: "ship", Transcript: "  "}); !errors.Is(err, ErrMissingTranscript) {
		t.Errorf("expected ErrMissingTranscript, got %v", err)
	}
	if gen.calls != 0 {
		t.Error("generator should not be called for invalid requests")
	}
}

func TestRequesterMalformedOutput(t *testing.T) {
	r := NewRequester(&stubGenerator{out: "sorry"}, 3, time.Minute, 0)

	_, err := r.Request(context.Background(), Request{Word: "ship", Transcript: "ship"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
	if r.State() != "closed" {
		t.Errorf("malformed output should not trip the breaker, state %s", r.State())
	}
}

func TestRequesterBreaker(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	r := NewRequester(gen, 2, time.Minute, 0)
	req := Request{Word: "ship", Transcript: "ship"}

	for i := 0; i < 2; i++ {
		if _, err := r.Request(context.Background(), req); err == nil || errors.Is(err, ErrUnavailable) {
			t.Fatalf("call %d: expected generator error, got %v", i, err)
		}
	}

	if _, err := r.Request(context.Background(), req); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if gen.calls != 2 {
		t.Errorf("generator called %d times, want 2", gen.calls)
	}
	if r.Name() != "stub" {
		t.Errorf("Name() = %s", r.Name())
	}
}

func TestMockGenerator(t *testing.T) {
	r := NewRequester(NewMockGenerator(), 3, time.Minute, 0)

	got, err := r.Request(context.Background(), Request{Word: "Sheep", IPA: "ʃiːp", Transcript: "sheep."})
	if err != nil {
		t.Fatalf("Request error = %v", err)
	}
	if !got.IsCorrect {
		t.Errorf("expected correct, got %+v", got)
	}

	got, err = r.Request(context.Background(), Request{Word: "sheep", IPA: "ʃiːp", Transcript: "ship"})
	if err != nil {
		t.Fatalf("Request error = %v", err)
	}
	if got.IsCorrect {
		t.Errorf("expected incorrect, got %+v", got)
	}
}

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		want    string
		wantErr string
	}{
		{"openai", &Config{Provider: "openai", OpenAIKey: "k"}, "openai", ""},
		{"openai without key", &Config{Provider: "openai"}, "", "OpenAI API key is required"},
		{"gemini without key", &Config{Provider: "gemini"}, "", "Gemini API key is required"},
		{"mock", &Config{Provider: "mock"}, "mock", ""},
		{"unknown", &Config{Provider: "oracle"}, "", "unknown feedback provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewGenerator(context.Background(), tt.config)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewGenerator error = %v", err)
			}
			if gen.Name() != tt.want {
				t.Errorf("Name() = %s, want %s", gen.Name(), tt.want)
			}
		})
	}
}
