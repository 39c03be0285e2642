package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIGenerator(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "{\"isCorrect\": true, \"feedback\": \"Good.\", \"tip\": \"Nice.\"}"},
				"finish_reason": "stop"
			}]
		}`)
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator(&Config{OpenAIKey: "test-key", OpenAIBaseURL: srv.URL + "/v1", OpenAIModel: "gpt-4o-mini"})
	out, err := gen.Generate(context.Background(), "system", "prompt")
	if err != nil {
		t.Fatalf("Generate error = %v", err)
	}

	res, err := ParseResult(out)
	if err != nil || !res.IsCorrect {
		t.Errorf("ParseResult(%q) = %+v, %v", out, res, err)
	}

	format, _ := got["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", got["response_format"])
	}
	if got["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", got["model"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Errorf("expected system and user messages, got %d", len(msgs))
	}
}

func TestOpenAIGeneratorEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "x", "choices": []}`)
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator(&Config{OpenAIKey: "test-key", OpenAIBaseURL: srv.URL + "/v1"})
	if _, err := gen.Generate(context.Background(), "s", "p"); err == nil {
		t.Error("expected an error for empty choices")
	}
}
