package recognition

import (
	"errors"
	"fmt"
)

var (
	ErrNoSpeech         = errors.New("no speech detected")
	ErrEmptyAudio       = errors.New("audio is empty")
	ErrUnsupportedAudio = errors.New("unsupported audio format")
	ErrUnavailable      = errors.New("speech recognition is temporarily unavailable")
)

// Code is an error name reported by the browser speech recognizer or by the
// microphone permission request
type Code string

const (
	CodeNoSpeech             Code = "no-speech"
	CodeAudioCapture         Code = "audio-capture"
	CodeNotAllowed           Code = "not-allowed"
	CodeServiceNotAllowed    Code = "service-not-allowed"
	CodeNetwork              Code = "network"
	CodeAborted              Code = "aborted"
	CodeLanguageNotSupported Code = "language-not-supported"
	CodeBadGrammar           Code = "bad-grammar"
	CodeNotSupported         Code = "not-supported"

	// DOMException names from getUserMedia
	CodeNotAllowedError  Code = "NotAllowedError"
	CodeNotFoundError    Code = "NotFoundError"
	CodeNotReadableError Code = "NotReadableError"
	CodeSecurityError    Code = "SecurityError"
	CodeAbortError       Code = "AbortError"
)

var codeMessages = map[Code]string{
	CodeNoSpeech:             "No speech was detected. Please try again and speak clearly into the microphone.",
	CodeAudioCapture:         "No microphone was found. Please check that a microphone is connected.",
	CodeNotAllowed:           "Microphone access was denied. Please allow microphone access and try again.",
	CodeServiceNotAllowed:    "Speech recognition is not allowed in this browser. Please try another browser.",
	CodeNetwork:              "A network error occurred during speech recognition. Please check your connection.",
	CodeAborted:              "Recording was cancelled.",
	CodeLanguageNotSupported: "The practice language is not supported by your browser's speech recognition.",
	CodeBadGrammar:           "Speech recognition could not be configured. Please reload the page.",
	CodeNotSupported:         "Your browser does not support speech recognition. Please use a recent version of Chrome or Edge.",
	CodeNotAllowedError:      "Microphone access was denied. Please allow microphone access and try again.",
	CodeNotFoundError:        "No microphone was found. Please check that a microphone is connected.",
	CodeNotReadableError:     "The microphone is in use by another application.",
	CodeSecurityError:        "Microphone access requires a secure (https) connection.",
	CodeAbortError:           "Recording was cancelled.",
}

// Known reports whether the code has a dedicated message
func (c Code) Known() bool {
	_, ok := codeMessages[c]
	return ok
}

// Message returns the learner-facing text for the code
func (c Code) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	if c == "" {
		return "Speech recognition failed. Please try again."
	}
	return fmt.Sprintf("Speech recognition failed (%s). Please try again.", string(c))
}

// ClientError is a failure reported by the browser
type ClientError struct {
	Code Code
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("speech recognition error: %s", string(e.Code))
}

// Is lets errors.Is(err, ErrNoSpeech) match a browser no-speech report
func (e *ClientError) Is(target error) bool {
	return target == ErrNoSpeech && e.Code == CodeNoSpeech
}

// IsInputError reports whether err was caused by the submitted audio rather
// than by the recognition service
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoSpeech) ||
		errors.Is(err, ErrEmptyAudio) ||
		errors.Is(err, ErrUnsupportedAudio)
}
