package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"codeberg.org/snonux/proncoach/internal/audio"
	"codeberg.org/snonux/proncoach/internal/coach"
	"codeberg.org/snonux/proncoach/internal/feedback"
	"codeberg.org/snonux/proncoach/internal/recognition"
	"codeberg.org/snonux/proncoach/internal/session"
)

var (
	errBadRequest       = errors.New("invalid request")
	errTooLarge         = errors.New("request body too large")
	errNoReferenceAudio = errors.New("reference audio is not configured")
	errHistoryDisabled  = errors.New("attempt history is not configured")
)

// ErrorDetail is the body of an error response
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an error detail
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

// Checked in order; the first match wins
var errorMappings = []errorMapping{
	{session.ErrNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
	{session.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{session.ErrWordOutOfRange, http.StatusBadRequest, "WORD_OUT_OF_RANGE"},
	{errBadRequest, http.StatusBadRequest, "INVALID_INPUT"},
	{errTooLarge, http.StatusRequestEntityTooLarge, "TOO_LARGE"},
	{feedback.ErrMissingWord, http.StatusBadRequest, "MISSING_WORD"},
	{feedback.ErrMissingTranscript, http.StatusUnprocessableEntity, "NO_SPEECH"},
	{recognition.ErrNoSpeech, http.StatusUnprocessableEntity, "NO_SPEECH"},
	{recognition.ErrEmptyAudio, http.StatusBadRequest, "EMPTY_AUDIO"},
	{recognition.ErrUnsupportedAudio, http.StatusUnsupportedMediaType, "UNSUPPORTED_AUDIO"},
	{audio.ErrEmptyText, http.StatusUnprocessableEntity, "NOTHING_TO_SPEAK"},
	{audio.ErrNoLetters, http.StatusUnprocessableEntity, "NOTHING_TO_SPEAK"},
	{feedback.ErrMalformedResponse, http.StatusBadGateway, "BAD_MODEL_RESPONSE"},
	{feedback.ErrInvalidResult, http.StatusBadGateway, "BAD_MODEL_RESPONSE"},
	{recognition.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
	{feedback.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
	{coach.ErrNoRecognizer, http.StatusServiceUnavailable, "NO_RECOGNIZER"},
	{errNoReferenceAudio, http.StatusServiceUnavailable, "NO_REFERENCE_AUDIO"},
	{errHistoryDisabled, http.StatusServiceUnavailable, "HISTORY_DISABLED"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT"},
}

// MapErrorToStatusCode maps an error to its HTTP status and error code
func MapErrorToStatusCode(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
}

// HandleError writes the JSON error response for err
func HandleError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, code := MapErrorToStatusCode(err)

	message := coach.UserMessage(err)
	switch {
	case status == http.StatusInternalServerError:
		logger.Error("unhandled error", zap.Error(err))
		message = "An internal server error occurred."
	case status < 500 && code != "NO_SPEECH" && code != "UNSUPPORTED_AUDIO":
		message = err.Error()
	}

	RespondWithJSON(w, logger, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// RespondWithJSON writes payload as JSON with the given status
func RespondWithJSON(w http.ResponseWriter, logger *zap.Logger, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal response", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_SERVER_ERROR","message":"Failed to build the response."}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// decodeJSON reads a JSON request body into dst
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errBadRequest
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errTooLarge
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
