package feedback

import (
	"context"
	"fmt"
	"time"
)

// Config holds configuration for feedback generators
type Config struct {
	Provider    string // "gemini", "openai" or "mock"
	Temperature float32
	Timeout     time.Duration

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string // e.g. "gemini-2.5-flash"

	// OpenAI-specific settings
	OpenAIKey     string
	OpenAIModel   string // e.g. "gpt-4o-mini"
	OpenAIBaseURL string
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    "gemini",
		Temperature: 0.2,
		Timeout:     30 * time.Second,
		GeminiModel: "gemini-2.5-flash",
		OpenAIModel: "gpt-4o-mini",
	}
}

// NewGenerator creates the generator selected by the configuration
func NewGenerator(ctx context.Context, config *Config) (Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiGenerator(ctx, config)

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIGenerator(config), nil

	case "mock":
		return NewMockGenerator(), nil

	default:
		return nil, fmt.Errorf("unknown feedback provider: %s", config.Provider)
	}
}
