package session

import (
	"errors"
	"fmt"
	"time"

	"codeberg.org/snonux/proncoach/internal/feedback"
)

// State is the view state of a session
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StateAnalyzing State = "analyzing"
	StateResult    State = "result"
)

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrNotFound          = errors.New("session not found")
	ErrWordOutOfRange    = errors.New("word index out of range")
)

// Session is a single learner's practice session
type Session struct {
	ID         string           `json:"id"`
	State      State            `json:"state"`
	ItemIndex  int              `json:"itemIndex"`
	WordIndex  int              `json:"wordIndex"`
	Transcript string           `json:"transcript,omitempty"`
	Result     *feedback.Result `json:"result,omitempty"`
	Error      string           `json:"error,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// New creates an idle session on the first item
func New(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) transition(event string, to State, allowed ...State) error {
	for _, from := range allowed {
		if s.State == from {
			s.State = to
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, event, s.State)
}

// StartRecording begins a new attempt and clears the previous outcome
func (s *Session) StartRecording() error {
	if err := s.transition("start recording", StateRecording, StateIdle, StateResult); err != nil {
		return err
	}
	s.Result = nil
	s.Error = ""
	s.Transcript = ""
	return nil
}

// Analyze stores the transcript while feedback is being requested
func (s *Session) Analyze(transcript string) error {
	if err := s.transition("analyze", StateAnalyzing, StateRecording); err != nil {
		return err
	}
	s.Transcript = transcript
	return nil
}

// Complete stores the feedback result
func (s *Session) Complete(result feedback.Result) error {
	if err := s.transition("complete", StateResult, StateAnalyzing); err != nil {
		return err
	}
	s.Result = &result
	return nil
}

// Fail ends the attempt with a learner-facing message
func (s *Session) Fail(message string) error {
	if err := s.transition("fail", StateIdle, StateRecording, StateAnalyzing); err != nil {
		return err
	}
	s.Error = message
	return nil
}

// Cancel stops recording without an error
func (s *Session) Cancel() error {
	return s.transition("cancel", StateIdle, StateRecording)
}

// NextItem moves to the following practice item and discards the result.
// The deck size is needed to wrap around.
func (s *Session) NextItem(deckSize int) {
	if deckSize > 0 {
		s.ItemIndex = (s.ItemIndex + 1) % deckSize
	}
	s.WordIndex = 0
	s.reset()
}

// SelectWord chooses which word of a pair to practice
func (s *Session) SelectWord(index, words int) error {
	if s.State != StateIdle && s.State != StateResult {
		return fmt.Errorf("%w: select word while %s", ErrInvalidTransition, s.State)
	}
	if index < 0 || index >= words {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrWordOutOfRange, index, words)
	}
	s.WordIndex = index
	s.reset()
	return nil
}

func (s *Session) reset() {
	s.State = StateIdle
	s.Result = nil
	s.Error = ""
	s.Transcript = ""
	s.UpdatedAt = time.Now()
}
