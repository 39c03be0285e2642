package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Catalog groups model IDs by what they can be used for
type Catalog struct {
	Transcription []string
	Speech        []string
	Chat          []string
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. An empty baseURL uses the public
// OpenAI endpoint.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// Fetch returns the categorized models for the configured key
func (l *Lister) Fetch(ctx context.Context) (Catalog, error) {
	if l.apiKey == "" {
		return Catalog{}, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .proncoach.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}

	return Categorize(ids), nil
}

// Categorize sorts model IDs into catalog groups, ignoring unrelated models
func Categorize(ids []string) Catalog {
	var c Catalog

	for _, id := range ids {
		switch {
		case strings.Contains(id, "whisper") || strings.Contains(id, "transcribe"):
			c.Transcription = append(c.Transcription, id)
		case strings.Contains(id, "tts") || strings.Contains(id, "audio"):
			c.Speech = append(c.Speech, id)
		case strings.Contains(id, "gpt") || strings.Contains(id, "chat"):
			c.Chat = append(c.Chat, id)
		}
	}

	sort.Strings(c.Transcription)
	sort.Strings(c.Speech)
	sort.Strings(c.Chat)

	return c
}

// ListAvailableModels writes all available OpenAI models categorized by type
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	catalog, err := l.Fetch(ctx)
	if err != nil {
		return err
	}

	Print(w, catalog)
	return nil
}

// Print writes a catalog in human-readable form
func Print(w io.Writer, c Catalog) {
	fmt.Fprintln(w, "Available OpenAI Models:")

	printGroup(w, "Transcription Models (--recognizer-model):", "No transcription models found", c.Transcription)
	printGroup(w, "Text-to-Speech Models (--tts-model):", "No TTS models found", c.Speech)

	fmt.Fprintln(w, "\nChat Models (--feedback-model with --feedback-provider openai):")
	if len(c.Chat) > 10 {
		relevant := []string{}
		for _, model := range c.Chat {
			if strings.Contains(model, "gpt-4") {
				relevant = append(relevant, model)
			}
		}
		for _, model := range relevant {
			fmt.Fprintf(w, "  %s\n", model)
		}
		fmt.Fprintf(w, "  ... and %d more models\n", len(c.Chat)-len(relevant))
	} else if len(c.Chat) == 0 {
		fmt.Fprintln(w, "  No chat models found")
	} else {
		for _, model := range c.Chat {
			fmt.Fprintf(w, "  %s\n", model)
		}
	}
}

func printGroup(w io.Writer, title, empty string, models []string) {
	fmt.Fprintf(w, "\n%s\n", title)
	if len(models) == 0 {
		fmt.Fprintf(w, "  %s\n", empty)
		return
	}
	for _, model := range models {
		fmt.Fprintf(w, "  %s\n", model)
	}
}
