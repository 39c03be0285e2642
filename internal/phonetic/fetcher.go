package phonetic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Fetcher handles fetching IPA transcriptions
type Fetcher struct {
	apiKey  string
	model   string
	client  *openai.Client
	timeout time.Duration
}

// NewFetcher creates a new phonetic information fetcher. An empty baseURL
// uses the public OpenAI endpoint.
func NewFetcher(apiKey, baseURL string) *Fetcher {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Fetcher{
		apiKey:  apiKey,
		model:   openai.GPT4o,
		client:  openai.NewClientWithConfig(config),
		timeout: 30 * time.Second,
	}
}

// FetchIPA returns the General American IPA transcription of text without
// surrounding slashes or brackets
func (f *Fetcher) FetchIPA(ctx context.Context, text string) (string, error) {
	if f.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: f.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a phonetics expert. Transcribe English text into broad IPA for General American English. Mark primary stress on words of more than one syllable and use ː for long vowels.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Transcribe '%s'. Respond with only the IPA transcription, without slashes, brackets or any explanation.", text),
			},
		},
		Temperature: 0.1,
		MaxTokens:   100,
	}

	resp, err := f.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from OpenAI")
	}

	ipa := CleanIPA(resp.Choices[0].Message.Content)
	if ipa == "" {
		return "", fmt.Errorf("empty IPA transcription for %q", text)
	}

	return ipa, nil
}

// CleanIPA strips delimiters and quoting that models tend to add
func CleanIPA(raw string) string {
	ipa := strings.TrimSpace(raw)
	if line, _, ok := strings.Cut(ipa, "\n"); ok {
		ipa = line
	}
	ipa = strings.Trim(ipa, "`'\" ")
	ipa = strings.TrimSpace(ipa)
	ipa = strings.TrimPrefix(ipa, "/")
	ipa = strings.TrimSuffix(ipa, "/")
	ipa = strings.TrimPrefix(ipa, "[")
	ipa = strings.TrimSuffix(ipa, "]")
	return strings.TrimSpace(ipa)
}
