package feedback

import (
	"errors"
	"testing"
)

func TestParseResult(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Result
		wantErr error
	}{
		{
			name:  "plain JSON",
			input: `{"isCorrect": true, "feedback": "Great job!", "tip": "Keep the vowel long."}`,
			want:  Result{IsCorrect: true, Feedback: "Great job!", Tip: "Keep the vowel long."},
		},
		{
			name:  "json code fence",
			input: "```json\n{\"isCorrect\": false, \"feedback\": \"We heard ship.\", \"tip\": \"Stretch /iː/.\"}\n```",
			want:  Result{IsCorrect: false, Feedback: "We heard ship.", Tip: "Stretch /iː/."},
		},
		{
			name:  "bare code fence with prose",
			input: "Here you go:\n```\n{\"isCorrect\": true, \"feedback\": \" Nice \", \"tip\": \"Relax.\"}\n```\nGood luck!",
			want:  Result{IsCorrect: true, Feedback: "Nice", Tip: "Relax."},
		},
		{
			name:  "object surrounded by prose",
			input: `Sure! {"isCorrect": false, "feedback": "Close.", "tip": "Round your lips."} Hope that helps.`,
			want:  Result{IsCorrect: false, Feedback: "Close.", Tip: "Round your lips."},
		},
		{
			name:  "extra fields are ignored",
			input: `{"isCorrect": true, "feedback": "Yes.", "tip": "More.", "score": 9}`,
			want:  Result{IsCorrect: true, Feedback: "Yes.", Tip: "More."},
		},
		{
			name:    "no JSON",
			input:   "I cannot help with that.",
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "broken JSON",
			input:   `{"isCorrect": true, "feedback": }`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "missing isCorrect",
			input:   `{"feedback": "Fine.", "tip": "Slow down."}`,
			wantErr: ErrInvalidResult,
		},
		{
			name:    "isCorrect is a string",
			input:   `{"isCorrect": "yes", "feedback": "Fine.", "tip": "Slow down."}`,
			wantErr: ErrInvalidResult,
		},
		{
			name:    "empty feedback",
			input:   `{"isCorrect": true, "feedback": "  ", "tip": "Slow down."}`,
			wantErr: ErrInvalidResult,
		},
		{
			name:    "missing tip",
			input:   `{"isCorrect": true, "feedback": "Fine."}`,
			wantErr: ErrInvalidResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResult(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseResult() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResult() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseResult() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
