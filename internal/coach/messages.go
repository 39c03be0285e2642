package coach

import (
	"context"
	"errors"

	"codeberg.org/snonux/proncoach/internal/feedback"
	"codeberg.org/snonux/proncoach/internal/recognition"
)

// ErrNoRecognizer is returned when audio is submitted but no server-side
// recognizer is configured
var ErrNoRecognizer = errors.New("server-side transcription is not configured")

const (
	msgEmptyAudio   = "No audio was recorded. Please try again."
	msgUnsupported  = "Your browser recorded audio in a format the server cannot transcribe."
	msgNoRecognizer = "Server-side transcription is not available. Please use a browser with built-in speech recognition."
	msgBusy         = "The service is busy right now. Please wait a moment and try again."
	msgTimeout      = "The request took too long. Please try again."
	msgCanceled     = "The request was cancelled."
	msgBadModel     = "Could not understand the feedback from the AI. Please try again."
	msgNoWord       = "No practice word is selected."
	msgGeneric      = "Something went wrong while checking your pronunciation. Please try again."
)

// UserMessage maps a pipeline error to the text shown to the learner
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var clientErr *recognition.ClientError
	switch {
	case errors.As(err, &clientErr):
		return clientErr.Code.Message()
	case errors.Is(err, recognition.ErrNoSpeech), errors.Is(err, feedback.ErrMissingTranscript):
		return recognition.CodeNoSpeech.Message()
	case errors.Is(err, recognition.ErrEmptyAudio):
		return msgEmptyAudio
	case errors.Is(err, recognition.ErrUnsupportedAudio):
		return msgUnsupported
	case errors.Is(err, ErrNoRecognizer):
		return msgNoRecognizer
	case errors.Is(err, recognition.ErrUnavailable), errors.Is(err, feedback.ErrUnavailable):
		return msgBusy
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	case errors.Is(err, context.Canceled):
		return msgCanceled
	case errors.Is(err, feedback.ErrMalformedResponse), errors.Is(err, feedback.ErrInvalidResult):
		return msgBadModel
	case errors.Is(err, feedback.ErrMissingWord):
		return msgNoWord
	default:
		return msgGeneric
	}
}
