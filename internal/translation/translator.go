package translation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// DefaultTargetLanguage is the learner's language when none is configured
const DefaultTargetLanguage = "Bulgarian"

// Translator handles English to target-language translation
type Translator struct {
	apiKey string
	target string
	client *openai.Client
	cache  *TranslationCache
}

// NewTranslator creates a new translator instance. An empty baseURL uses the
// public OpenAI endpoint.
func NewTranslator(apiKey, baseURL, target string) *Translator {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if target == "" {
		target = DefaultTargetLanguage
	}

	return &Translator{
		apiKey: apiKey,
		target: target,
		client: openai.NewClientWithConfig(config),
		cache:  NewTranslationCache(),
	}
}

// Translate translates English text into the target language
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("text cannot be empty")
	}

	if cached, ok := t.cache.Get(text); ok {
		return cached, nil
	}

	req := openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Translate the English text '%s' to %s. Respond with only the translation, nothing else.", text, t.target),
			},
		},
		MaxTokens:   100,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	translation := strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"'`)
	if translation == "" {
		return "", fmt.Errorf("empty translation for %q", text)
	}

	t.cache.Add(text, translation)
	return translation, nil
}

// Target returns the target language
func (t *Translator) Target() string {
	return t.target
}

// TranslationCache stores translations in memory
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(word, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[word] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(word string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[word]
	return translation, ok
}

// GetAll returns all cached translations
func (tc *TranslationCache) GetAll() map[string]string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	// Return a copy to prevent external modification
	result := make(map[string]string, len(tc.translations))
	for k, v := range tc.translations {
		result[k] = v
	}
	return result
}
