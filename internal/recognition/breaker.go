package recognition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings returns circuit breaker settings that open after the given
// number of consecutive service failures
func BreakerSettings(name string, failures uint32, openFor time.Duration) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || IsInputError(err) || errors.Is(err, context.Canceled)
		},
	}
}

// BreakerRecognizer stops calling a failing backend for a while
type BreakerRecognizer struct {
	next Recognizer
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps a recognizer in a circuit breaker
func NewBreaker(next Recognizer, settings gobreaker.Settings) *BreakerRecognizer {
	if settings.Name == "" {
		settings.Name = next.Name()
	}
	if settings.IsSuccessful == nil {
		settings.IsSuccessful = func(err error) bool {
			return err == nil || IsInputError(err)
		}
	}
	return &BreakerRecognizer{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Transcribe runs the wrapped recognizer unless the breaker is open
func (b *BreakerRecognizer) Transcribe(ctx context.Context, audio Audio) (Transcript, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Transcribe(ctx, audio)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Transcript{}, fmt.Errorf("%w: %s: %v", ErrUnavailable, b.cb.Name(), err)
	}
	if err != nil {
		return Transcript{}, err
	}
	return out.(Transcript), nil
}

// Name returns the wrapped recognizer name
func (b *BreakerRecognizer) Name() string {
	return b.next.Name()
}

// IsAvailable reports an open breaker as unavailable
func (b *BreakerRecognizer) IsAvailable() error {
	if b.cb.State() == gobreaker.StateOpen {
		return ErrUnavailable
	}
	return b.next.IsAvailable()
}

// Close closes the wrapped recognizer
func (b *BreakerRecognizer) Close() error {
	return Close(b.next)
}

// State returns the breaker state, e.g. "closed" or "open"
func (b *BreakerRecognizer) State() string {
	return b.cb.State().String()
}
