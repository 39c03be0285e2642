package feedback

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// modelsAPI is the part of the genai client the generator uses
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// resultSchema constrains Gemini output to the Result shape
var resultSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"isCorrect": {Type: genai.TypeBoolean, Description: "whether the target was pronounced correctly"},
		"feedback":  {Type: genai.TypeString, Description: "short feedback on the attempt"},
		"tip":       {Type: genai.TypeString, Description: "one concrete articulation tip"},
	},
	Required:         []string{"isCorrect", "feedback", "tip"},
	PropertyOrdering: []string{"isCorrect", "feedback", "tip"},
}

// GeminiGenerator implements Generator using the Gemini API
type GeminiGenerator struct {
	models      modelsAPI
	model       string
	temperature float32
}

// NewGeminiGenerator creates a new Gemini generator
func NewGeminiGenerator(ctx context.Context, config *Config) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newGeminiGenerator(client.Models, config), nil
}

func newGeminiGenerator(models modelsAPI, config *Config) *GeminiGenerator {
	model := config.GeminiModel
	if model == "" {
		model = DefaultConfig().GeminiModel
	}
	return &GeminiGenerator{
		models:      models,
		model:       model,
		temperature: config.Temperature,
	}
}

// Generate asks Gemini for a JSON answer
func (g *GeminiGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	temperature := g.temperature
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    resultSchema,
		Temperature:       &temperature,
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response from Gemini")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no response from Gemini")
	}
	return text, nil
}

// Name returns the generator name
func (g *GeminiGenerator) Name() string {
	return "gemini"
}
