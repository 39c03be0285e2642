package internal

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// GenerateSessionID returns a random, unguessable session ID. Session IDs are
// the only credential on the session API, so they carry no client or clock data.
func GenerateSessionID() string {
	return uuid.NewString()
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
