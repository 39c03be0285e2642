package audio

import (
	"errors"
	"strings"
	"unicode"
)

var (
	// ErrEmptyText is returned for blank input
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrNoLetters is returned when the text has nothing to pronounce
	ErrNoLetters = errors.New("text must contain letters")
)

// ValidateText checks that the text has something to pronounce
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	for _, r := range text {
		if unicode.IsLetter(r) {
			return nil
		}
	}

	return ErrNoLetters
}

// cleanText strips punctuation that should not be spoken
func cleanText(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) && r != '\'' {
			return -1
		}
		return r
	}, text)

	return strings.Join(strings.Fields(cleaned), " ")
}
