package recognition

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"
)

// Audio is a recorded attempt
type Audio struct {
	Data        []byte
	ContentType string // e.g. "audio/webm;codecs=opus"
	Filename    string // optional, used to tell the backend the container format
	Language    string // BCP-47 code, e.g. "en-US"
}

// Transcript is the first recognition alternative
type Transcript struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
	Provider   string  `json:"provider"`
}

// Recognizer defines the interface for speech-to-text backends
type Recognizer interface {
	// Transcribe recognizes the audio and returns the first transcript
	Transcribe(ctx context.Context, audio Audio) (Transcript, error)

	// Name returns the recognizer name
	Name() string

	// IsAvailable checks if the recognizer is properly configured
	IsAvailable() error
}

// Config holds configuration for recognizers
type Config struct {
	Provider string // "openai", "google" or "mock"
	Language string // default language when the audio carries none
	Timeout  time.Duration

	// OpenAI-specific settings
	OpenAIKey     string
	OpenAIModel   string // "whisper-1", "gpt-4o-transcribe", "gpt-4o-mini-transcribe"
	OpenAIBaseURL string

	// Google-specific settings
	GoogleCredentialsFile string
	GoogleAPIKey          string
	GoogleModel           string // "default", "command_and_search", "latest_short"

	// MockText is returned by the mock recognizer
	MockText string
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    "openai",
		Language:    "en-US",
		Timeout:     30 * time.Second,
		OpenAIModel: "whisper-1",
		GoogleModel: "latest_short",
	}
}

// NewRecognizer creates the recognizer selected by the configuration
func NewRecognizer(ctx context.Context, config *Config) (Recognizer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIRecognizer(config)

	case "google":
		return NewGoogleRecognizer(ctx, config)

	case "mock":
		return NewMockRecognizer(config.MockText), nil

	default:
		return nil, fmt.Errorf("unknown recognition provider: %s", config.Provider)
	}
}

// Close releases resources held by r, such as the Google Speech connection.
// Recognizers without any are left alone.
func Close(r Recognizer) error {
	if c, ok := r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// RecognizerWithFallback wraps a primary recognizer with a fallback option
type RecognizerWithFallback struct {
	primary  Recognizer
	fallback Recognizer
}

// NewFallback creates a recognizer that falls back to secondary if primary fails
func NewFallback(primary, fallback Recognizer) Recognizer {
	return &RecognizerWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// Transcribe tries the primary recognizer first. Problems with the audio
// itself are returned as they are since the fallback would fail the same way.
func (r *RecognizerWithFallback) Transcribe(ctx context.Context, audio Audio) (Transcript, error) {
	t, err := r.primary.Transcribe(ctx, audio)
	if err == nil || IsInputError(err) || ctx.Err() != nil {
		return t, err
	}

	t, fallbackErr := r.fallback.Transcribe(ctx, audio)
	if fallbackErr != nil {
		return Transcript{}, fmt.Errorf("primary %s: %v; fallback %s: %w",
			r.primary.Name(), err, r.fallback.Name(), fallbackErr)
	}
	return t, nil
}

// Name returns the recognizer name
func (r *RecognizerWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", r.primary.Name(), r.fallback.Name())
}

// Close closes both recognizers
func (r *RecognizerWithFallback) Close() error {
	return errors.Join(Close(r.primary), Close(r.fallback))
}

// IsAvailable checks if at least one recognizer is available
func (r *RecognizerWithFallback) IsAvailable() error {
	primaryErr := r.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := r.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both recognizers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

// MediaType returns the lower-cased media type without parameters
func MediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	return strings.ToLower(mt)
}

// extensionFor maps a media type to the file extension OpenAI expects
func extensionFor(contentType string) string {
	switch MediaType(contentType) {
	case "audio/webm", "video/webm":
		return ".webm"
	case "audio/ogg", "audio/opus":
		return ".ogg"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/flac", "audio/x-flac":
		return ".flac"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return ".m4a"
	default:
		return ""
	}
}

func validateAudio(audio Audio) error {
	if len(audio.Data) == 0 {
		return ErrEmptyAudio
	}
	return nil
}

func languageOr(audio Audio, fallback string) string {
	if audio.Language != "" {
		return audio.Language
	}
	if fallback != "" {
		return fallback
	}
	return "en-US"
}
