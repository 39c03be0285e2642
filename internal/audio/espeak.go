package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ESpeakProvider implements Provider with the local espeak-ng engine.
// It writes WAV regardless of the requested extension.
type ESpeakProvider struct {
	voice string
	speed int
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *Config) *ESpeakProvider {
	speed := config.ESpeakSpeed
	if speed < 80 {
		speed = 80
	} else if speed > 450 {
		speed = 450
	}

	voice := config.ESpeakVoice
	if voice == "" {
		voice = "en-us"
	}

	return &ESpeakProvider{voice: voice, speed: speed}
}

// GenerateAudio runs espeak-ng and writes the clip to outputFile
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	if dir := filepath.Dir(outputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	args := []string{
		"-v", p.voice,
		"-s", fmt.Sprintf("%d", p.speed),
		"-w", outputFile,
		cleanText(text),
	}

	output, err := exec.CommandContext(ctx, "espeak-ng", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak"
}

// IsAvailable checks that espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// Format reports the container espeak-ng writes
func (p *ESpeakProvider) Format(string) string {
	return "wav"
}

// CacheKey identifies the voice settings that shape the generated audio
func (p *ESpeakProvider) CacheKey() string {
	return fmt.Sprintf("espeak|%s|%d", p.voice, p.speed)
}
