package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

var (
	ErrMissingWord       = errors.New("target word is required")
	ErrMissingTranscript = errors.New("transcript is required")
	ErrMalformedResponse = errors.New("model response is not valid JSON")
	ErrInvalidResult     = errors.New("model response is missing required fields")
	ErrUnavailable       = errors.New("feedback service is temporarily unavailable")
)

// Request describes one attempt to judge
type Request struct {
	Word       string `json:"word"`
	IPA        string `json:"ipa"`
	Transcript string `json:"transcript"`
	Language   string `json:"language,omitempty"`
}

// Validate checks that the request can be sent
func (r Request) Validate() error {
	if strings.TrimSpace(r.Word) == "" {
		return ErrMissingWord
	}
	if strings.TrimSpace(r.Transcript) == "" {
		return ErrMissingTranscript
	}
	return nil
}

// Result is the model's judgment of an attempt
type Result struct {
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`
	Tip       string `json:"tip"`
}

// Generator defines the interface for language model backends. The backend
// must be configured to answer in JSON.
type Generator interface {
	// Generate sends the system instruction and prompt and returns the raw text
	Generate(ctx context.Context, system, prompt string) (string, error)

	// Name returns the backend name
	Name() string
}

// Requester turns attempts into feedback results
type Requester struct {
	gen     Generator
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewRequester creates a requester around the generator. Generator errors
// trip a circuit breaker after the given number of consecutive failures.
func NewRequester(gen Generator, failures uint32, openFor, timeout time.Duration) *Requester {
	if failures == 0 {
		failures = 5
	}
	settings := gobreaker.Settings{
		Name:        gen.Name(),
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &Requester{
		gen:     gen,
		cb:      gobreaker.NewCircuitBreaker(settings),
		timeout: timeout,
	}
}

// Request asks the model for feedback on a single attempt
func (r *Requester) Request(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(req)
	out, err := r.cb.Execute(func() (interface{}, error) {
		return r.gen.Generate(ctx, SystemPrompt, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrUnavailable, r.gen.Name(), err)
	}
	if err != nil {
		return Result{}, fmt.Errorf("%s request failed: %w", r.gen.Name(), err)
	}

	return ParseResult(out.(string))
}

// Name returns the generator name
func (r *Requester) Name() string {
	return r.gen.Name()
}

// State returns the breaker state, e.g. "closed" or "open"
func (r *Requester) State() string {
	return r.cb.State().String()
}
