package audio

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio generates audio from text and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider     string // Provider name: "openai" or "espeak"
	CacheDir     string // Directory for generated reference clips
	OutputFormat string // Output format: "mp3" or "wav"

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIBaseURL     string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model

	// espeak-ng settings
	ESpeakVoice string
	ESpeakSpeed int
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "openai",
		CacheDir:          "./reference_audio",
		OutputFormat:      "mp3",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "alloy",
		OpenAISpeed:       0.9,
		OpenAIInstruction: "Speak in clear General American English for a pronunciation learner. Say the text once, slowly, with careful vowel length.",
		ESpeakVoice:       "en-us",
		ESpeakSpeed:       140,
	}
}

// openAIVoices are the voices the speech endpoint accepts
var openAIVoices = map[string]bool{
	"alloy": true, "ash": true, "ballad": true, "coral": true, "echo": true, "fable": true,
	"nova": true, "onyx": true, "sage": true, "shimmer": true, "verse": true,
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	switch config.Provider {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		if err := checkOpenAIConfig(config); err != nil {
			return nil, err
		}
		return NewOpenAIProvider(config)

	case "espeak":
		return NewESpeakProvider(config), nil

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}

func checkOpenAIConfig(config *Config) error {
	if config.OpenAIVoice != "" && !openAIVoices[config.OpenAIVoice] {
		return fmt.Errorf("unknown OpenAI voice: %s", config.OpenAIVoice)
	}
	if config.OpenAISpeed != 0 && (config.OpenAISpeed < 0.25 || config.OpenAISpeed > 4.0) {
		return fmt.Errorf("OpenAI speed %.2f out of range [0.25, 4.0]", config.OpenAISpeed)
	}
	return nil
}

// ProviderWithFallback generates with the primary provider and retries once
// with the fallback
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	logger   *zap.Logger
}

// NewProviderWithFallback creates a provider that falls back to secondary if
// primary fails. logger may be nil.
func NewProviderWithFallback(primary, fallback Provider, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on
// error. A canceled request is not retried.
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	_, err := p.GenerateClip(ctx, text, outputFile)
	return err
}

// GenerateClip works like GenerateAudio and also returns the provider that
// wrote the clip
func (p *ProviderWithFallback) GenerateClip(ctx context.Context, text string, outputFile string) (Provider, error) {
	used, err := generateClip(ctx, p.primary, text, outputFile)
	if err == nil || ctx.Err() != nil {
		return used, err
	}

	p.logger.Warn("reference audio falling back",
		zap.String("primary", p.primary.Name()),
		zap.String("fallback", p.fallback.Name()),
		zap.Error(err))

	used, fbErr := generateClip(ctx, p.fallback, text, outputFile)
	if fbErr != nil {
		return nil, errors.Join(err, fbErr)
	}
	return used, nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// CacheKey identifies clips made by the primary provider
func (p *ProviderWithFallback) CacheKey() string {
	if k, ok := p.primary.(cacheKeyer); ok {
		return k.CacheKey()
	}
	return p.primary.Name()
}

// Format reports the primary provider's container
func (p *ProviderWithFallback) Format(requested string) string {
	return formatOf(p.primary, requested)
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
