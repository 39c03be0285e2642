package recognition

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIRecognizer implements Recognizer using the OpenAI transcription API
type OpenAIRecognizer struct {
	client *openai.Client
	config *Config
}

// NewOpenAIRecognizer creates a new OpenAI Whisper recognizer
func NewOpenAIRecognizer(config *Config) (Recognizer, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	return &OpenAIRecognizer{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Transcribe sends the clip to OpenAI and returns the recognized text
func (r *OpenAIRecognizer) Transcribe(ctx context.Context, audio Audio) (Transcript, error) {
	if err := validateAudio(audio); err != nil {
		return Transcript{}, err
	}

	// The API derives the container format from the file name
	filename := audio.Filename
	if filename == "" {
		ext := extensionFor(audio.ContentType)
		if ext == "" {
			return Transcript{}, fmt.Errorf("%w: %s", ErrUnsupportedAudio, audio.ContentType)
		}
		filename = "recording" + ext
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	model := r.config.OpenAIModel
	if model == "" {
		model = openai.Whisper1
	}

	req := openai.AudioRequest{
		Model:    model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio.Data),
		Language: baseLanguage(languageOr(audio, r.config.Language)),
		Format:   openai.AudioResponseFormatJSON,
	}

	resp, err := r.client.CreateTranscription(ctx, req)
	if err != nil {
		return Transcript{}, fmt.Errorf("OpenAI transcription API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return Transcript{}, ErrNoSpeech
	}

	return Transcript{Text: text, Provider: r.Name()}, nil
}

// Name returns the recognizer name
func (r *OpenAIRecognizer) Name() string {
	return "openai"
}

// IsAvailable checks that an API key is configured
func (r *OpenAIRecognizer) IsAvailable() error {
	if r.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// baseLanguage turns "en-US" into the ISO-639-1 code "en"
func baseLanguage(lang string) string {
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return strings.ToLower(lang)
}
