package feedback

import (
	"fmt"
	"strings"
)

// SystemPrompt is sent as the system instruction with every request
const SystemPrompt = `You are a friendly and precise pronunciation coach for language learners.
You receive a target word or sentence, its IPA transcription, and what a speech recognizer heard when the learner said it.
Judge whether the learner pronounced the target correctly. Treat differences in capitalization and punctuation as irrelevant.
If the recognizer heard a different word (for example a minimal-pair partner), the attempt is incorrect.
Always answer with a single JSON object and nothing else.`

// BuildPrompt creates the prompt for a single attempt
func BuildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Target: %q\n", strings.TrimSpace(req.Word))
	if ipa := strings.Trim(strings.TrimSpace(req.IPA), "/[]"); ipa != "" {
		fmt.Fprintf(&b, "IPA: /%s/\n", ipa)
	}
	if req.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", req.Language)
	}
	fmt.Fprintf(&b, "The speech recognizer heard: %q\n\n", strings.TrimSpace(req.Transcript))

	b.WriteString(`Respond with JSON in exactly this shape:
{"isCorrect": true or false, "feedback": "one or two sentences on what the learner did well or what went wrong", "tip": "one concrete articulation tip referring to the IPA sounds"}`)

	return b.String()
}
