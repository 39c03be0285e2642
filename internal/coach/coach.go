package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/proncoach/internal/feedback"
	"codeberg.org/snonux/proncoach/internal/history"
	"codeberg.org/snonux/proncoach/internal/practice"
	"codeberg.org/snonux/proncoach/internal/recognition"
	"codeberg.org/snonux/proncoach/internal/session"
)

// FeedbackRequester judges an attempt
type FeedbackRequester interface {
	Request(ctx context.Context, req feedback.Request) (feedback.Result, error)
	Name() string
}

// Recorder stores finished attempts
type Recorder interface {
	Record(ctx context.Context, a history.Attempt) (int64, error)
}

// Config wires the coach to its collaborators. Recognizer and History are
// optional.
type Config struct {
	Deck       *practice.Deck
	Sessions   *session.Manager
	Feedback   FeedbackRequester
	Recognizer recognition.Recognizer
	History    Recorder
	Logger     *zap.Logger
	Language   string
}

// Coach orchestrates practice attempts
type Coach struct {
	deck       *practice.Deck
	sessions   *session.Manager
	feedback   FeedbackRequester
	recognizer recognition.Recognizer
	history    Recorder
	logger     *zap.Logger
	language   string
}

// errStale marks a result that arrived after the learner moved on
var errStale = errors.New("session changed during analysis")

// New creates a coach
func New(config Config) (*Coach, error) {
	if config.Deck == nil {
		return nil, fmt.Errorf("practice deck is required")
	}
	if config.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if config.Feedback == nil {
		return nil, fmt.Errorf("feedback requester is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Coach{
		deck:       config.Deck,
		sessions:   config.Sessions,
		feedback:   config.Feedback,
		recognizer: config.Recognizer,
		history:    config.History,
		logger:     logger,
		language:   config.Language,
	}, nil
}

// Deck returns the practice deck
func (c *Coach) Deck() *practice.Deck {
	return c.deck
}

// Language returns the BCP-47 tag learners are coached in
func (c *Coach) Language() string {
	return c.language
}

// Sessions returns the session registry
func (c *Coach) Sessions() *session.Manager {
	return c.sessions
}

// Target returns the item and word a session is practicing
func (c *Coach) Target(s session.Session) (practice.Item, practice.Word, error) {
	item := c.deck.At(s.ItemIndex)
	word, err := item.Word(s.WordIndex)
	if err != nil {
		return item, practice.Word{}, err
	}
	return item, word, nil
}

// StartRecording moves a session into the recording state
func (c *Coach) StartRecording(id string) (session.Session, error) {
	return c.sessions.Update(id, func(s *session.Session) error {
		return s.StartRecording()
	})
}

// Cancel stops a recording
func (c *Coach) Cancel(id string) (session.Session, error) {
	return c.sessions.Update(id, func(s *session.Session) error {
		return s.Cancel()
	})
}

// NextItem advances a session to the next practice item
func (c *Coach) NextItem(id string) (session.Session, error) {
	return c.sessions.Update(id, func(s *session.Session) error {
		s.NextItem(c.deck.Len())
		return nil
	})
}

// SelectWord changes the active word of the current item
func (c *Coach) SelectWord(id string, index int) (session.Session, error) {
	return c.sessions.Update(id, func(s *session.Session) error {
		item := c.deck.At(s.ItemIndex)
		return s.SelectWord(index, len(item.Words))
	})
}

// ReportClientError fails the attempt with the message for a browser error
// name
func (c *Coach) ReportClientError(id string, code recognition.Code) (session.Session, error) {
	c.logger.Info("client recognition error",
		zap.String("session", id),
		zap.String("code", string(code)),
		zap.Bool("known", code.Known()))

	return c.sessions.Update(id, func(s *session.Session) error {
		return s.Fail(UserMessage(&recognition.ClientError{Code: code}))
	})
}

// CheckTranscript judges a transcript produced by the browser recognizer.
// The session must be recording.
func (c *Coach) CheckTranscript(ctx context.Context, id, transcript string) (session.Session, error) {
	transcript = strings.TrimSpace(transcript)

	var item practice.Item
	var word practice.Word
	sess, err := c.sessions.Update(id, func(s *session.Session) error {
		if transcript == "" {
			return s.Fail(UserMessage(recognition.ErrNoSpeech))
		}
		if err := s.Analyze(transcript); err != nil {
			return err
		}
		var err error
		item, word, err = c.Target(*s)
		return err
	})
	if err != nil || sess.State != session.StateAnalyzing {
		return sess, err
	}

	result, err := c.feedback.Request(ctx, feedback.Request{
		Word:       word.Text,
		IPA:        word.IPA,
		Transcript: transcript,
		Language:   c.language,
	})
	if err != nil {
		c.logger.Warn("feedback request failed",
			zap.String("session", id),
			zap.String("word", word.Text),
			zap.Error(err))
		return c.finish(id, sess, func(s *session.Session) error {
			return s.Fail(UserMessage(err))
		})
	}

	sess, err = c.finish(id, sess, func(s *session.Session) error {
		return s.Complete(result)
	})
	if err != nil || sess.State != session.StateResult {
		return sess, err
	}

	c.record(ctx, history.Attempt{
		SessionID:  id,
		ItemID:     item.ID,
		Word:       word.Text,
		IPA:        word.IPA,
		Transcript: transcript,
		IsCorrect:  result.IsCorrect,
		Feedback:   result.Feedback,
		Tip:        result.Tip,
		Provider:   c.feedback.Name(),
	})

	return sess, nil
}

// CheckAudio transcribes a recorded clip and judges it. The session must be
// recording.
func (c *Coach) CheckAudio(ctx context.Context, id string, clip recognition.Audio) (session.Session, error) {
	sess, err := c.sessions.Get(id)
	if err != nil {
		return sess, err
	}
	if sess.State != session.StateRecording {
		return sess, fmt.Errorf("%w: submit audio while %s", session.ErrInvalidTransition, sess.State)
	}

	transcript, err := c.Transcribe(ctx, clip)
	if err != nil {
		c.logger.Warn("transcription failed",
			zap.String("session", id),
			zap.Int("bytes", len(clip.Data)),
			zap.String("content_type", clip.ContentType),
			zap.Error(err))
		return c.sessions.Update(id, func(s *session.Session) error {
			return s.Fail(UserMessage(err))
		})
	}

	return c.CheckTranscript(ctx, id, transcript.Text)
}

// Transcribe runs the server-side recognizer without touching any session
func (c *Coach) Transcribe(ctx context.Context, clip recognition.Audio) (recognition.Transcript, error) {
	if c.recognizer == nil {
		return recognition.Transcript{}, ErrNoRecognizer
	}
	if clip.Language == "" {
		clip.Language = c.language
	}
	return c.recognizer.Transcribe(ctx, clip)
}

// Feedback judges a single attempt without a session. A blank transcript
// is reported as ErrNoSpeech without calling the model.
func (c *Coach) Feedback(ctx context.Context, req feedback.Request) (feedback.Result, error) {
	req.Transcript = strings.TrimSpace(req.Transcript)
	if req.Transcript == "" {
		return feedback.Result{}, recognition.ErrNoSpeech
	}
	if req.Language == "" {
		req.Language = c.language
	}

	result, err := c.feedback.Request(ctx, req)
	if err != nil {
		return feedback.Result{}, err
	}

	c.record(ctx, history.Attempt{
		Word:       req.Word,
		IPA:        req.IPA,
		Transcript: req.Transcript,
		IsCorrect:  result.IsCorrect,
		Feedback:   result.Feedback,
		Tip:        result.Tip,
		Provider:   c.feedback.Name(),
	})

	return result, nil
}

// finish applies fn if the session is still analyzing the same attempt.
// A session that moved on keeps its new state.
func (c *Coach) finish(id string, started session.Session, fn func(*session.Session) error) (session.Session, error) {
	sess, err := c.sessions.Update(id, func(s *session.Session) error {
		if s.State != session.StateAnalyzing ||
			s.ItemIndex != started.ItemIndex ||
			s.WordIndex != started.WordIndex ||
			s.Transcript != started.Transcript {
			return errStale
		}
		return fn(s)
	})
	if errors.Is(err, errStale) {
		c.logger.Debug("discarding stale attempt", zap.String("session", id))
		return c.sessions.Get(id)
	}
	return sess, err
}

func (c *Coach) record(ctx context.Context, a history.Attempt) {
	if c.history == nil {
		return
	}
	// The learner already has the result; a failed write only loses history
	if _, err := c.history.Record(context.WithoutCancel(ctx), a); err != nil {
		c.logger.Error("failed to record attempt", zap.String("word", a.Word), zap.Error(err))
	}
}
