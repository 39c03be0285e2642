package recognition

import (
	"context"
	"fmt"
)

type mockRecognizer struct {
	text string
}

// NewMockRecognizer returns a recognizer that answers every clip with the
// given text, or with a description of the clip when text is empty
func NewMockRecognizer(text string) Recognizer {
	return &mockRecognizer{text: text}
}

func (m *mockRecognizer) Transcribe(_ context.Context, audio Audio) (Transcript, error) {
	if err := validateAudio(audio); err != nil {
		return Transcript{}, err
	}

	text := m.text
	if text == "" {
		text = fmt.Sprintf("[transcript length=%d]", len(audio.Data))
	}
	return Transcript{Text: text, Provider: m.Name()}, nil
}

func (m *mockRecognizer) Name() string {
	return "mock"
}

func (m *mockRecognizer) IsAvailable() error {
	return nil
}
