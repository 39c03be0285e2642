package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// fencePattern matches a markdown code fence, optionally tagged json
var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// rawResult uses pointers so missing fields can be told apart from zero values
type rawResult struct {
	IsCorrect *bool   `json:"isCorrect"`
	Feedback  *string `json:"feedback"`
	Tip       *string `json:"tip"`
}

// ParseResult extracts and validates a Result from model output. The JSON
// may be wrapped in a markdown code fence or surrounded by prose.
func ParseResult(text string) (Result, error) {
	payload := extractJSON(text)
	if payload == "" {
		return Result{}, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Result{}, fmt.Errorf("%w: %s has the wrong type", ErrInvalidResult, typeErr.Field)
		}
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch {
	case raw.IsCorrect == nil:
		return Result{}, fmt.Errorf("%w: isCorrect", ErrInvalidResult)
	case raw.Feedback == nil || strings.TrimSpace(*raw.Feedback) == "":
		return Result{}, fmt.Errorf("%w: feedback", ErrInvalidResult)
	case raw.Tip == nil || strings.TrimSpace(*raw.Tip) == "":
		return Result{}, fmt.Errorf("%w: tip", ErrInvalidResult)
	}

	return Result{
		IsCorrect: *raw.IsCorrect,
		Feedback:  strings.TrimSpace(*raw.Feedback),
		Tip:       strings.TrimSpace(*raw.Tip),
	}, nil
}

func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}
