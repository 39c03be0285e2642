package feedback

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	targetPattern = regexp.MustCompile(`Target: "((?:[^"\\]|\\.)*)"`)
	heardPattern  = regexp.MustCompile(`heard: "((?:[^"\\]|\\.)*)"`)
)

type mockGenerator struct{}

// NewMockGenerator returns a generator that judges an attempt correct when
// the transcript equals the target, ignoring case and punctuation. It is
// meant for running the service without API keys.
func NewMockGenerator() Generator {
	return &mockGenerator{}
}

func (m *mockGenerator) Generate(_ context.Context, _, prompt string) (string, error) {
	target := firstGroup(targetPattern, prompt)
	heard := firstGroup(heardPattern, prompt)
	correct := normalize(target) == normalize(heard)

	feedback := fmt.Sprintf("You said %q, which matches %q.", heard, target)
	tip := "Keep practicing at a natural speed."
	if !correct {
		feedback = fmt.Sprintf("We heard %q instead of %q.", heard, target)
		tip = "Listen to the reference recording and compare the vowel length."
	}

	return fmt.Sprintf("```json\n{\"isCorrect\": %t, \"feedback\": %q, \"tip\": %q}\n```", correct, feedback, tip), nil
}

func (m *mockGenerator) Name() string {
	return "mock"
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return strings.ReplaceAll(m[1], `\"`, `"`)
	}
	return ""
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r == ' ' || (r >= 'a' && r <= 'z') || r > 127 {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
