package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// OpenAIServer fakes the OpenAI REST API. Point a go-openai client at
// BaseURL().
type OpenAIServer struct {
	*httptest.Server

	mu    sync.Mutex
	calls map[string]int
}

// NewOpenAIServer serves the given handlers keyed by path, for example
// "/v1/chat/completions". Unknown paths answer 404.
func NewOpenAIServer(t *testing.T, routes map[string]http.HandlerFunc) *OpenAIServer {
	t.Helper()

	s := &OpenAIServer{calls: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		s.mu.Lock()
		s.calls[r.URL.Path]++
		s.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the URL to put into openai.ClientConfig.BaseURL
func (s *OpenAIServer) BaseURL() string {
	return s.URL + "/v1"
}

// Calls returns how often path was requested
func (s *OpenAIServer) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// ChatRequest is the part of a chat completion request tests look at
type ChatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// DecodeChatRequest reads a chat completion request body
func DecodeChatRequest(t *testing.T, r *http.Request) ChatRequest {
	t.Helper()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Errorf("failed to decode chat request: %v", err)
	}
	return req
}

// WriteChatCompletion answers a chat completion request with one choice
func WriteChatCompletion(w http.ResponseWriter, content string) {
	encoded, _ := json.Marshal(content)
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}]}`, encoded)
}

// MockIPASource returns canned IPA transcriptions
type MockIPASource struct {
	IPA   map[string]string
	Err   error
	mu    sync.Mutex
	calls int
}

// FetchIPA looks text up in the canned map
func (m *MockIPASource) FetchIPA(_ context.Context, text string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if ipa, ok := m.IPA[text]; ok {
		return ipa, nil
	}
	return "", errors.New("unknown word: " + text)
}

// Calls returns the number of lookups
func (m *MockIPASource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockTranslator returns canned translations
type MockTranslator struct {
	Translations map[string]string
	Err          error
	mu           sync.Mutex
	calls        int
}

// Translate looks text up in the canned map
func (m *MockTranslator) Translate(_ context.Context, text string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if tr, ok := m.Translations[text]; ok {
		return tr, nil
	}
	return "", errors.New("no translation for: " + text)
}

// Calls returns the number of translations requested
func (m *MockTranslator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
