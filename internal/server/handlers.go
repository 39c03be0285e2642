package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"codeberg.org/snonux/proncoach/internal"
	"codeberg.org/snonux/proncoach/internal/audio"
	"codeberg.org/snonux/proncoach/internal/feedback"
	"codeberg.org/snonux/proncoach/internal/practice"
	"codeberg.org/snonux/proncoach/internal/recognition"
	"codeberg.org/snonux/proncoach/internal/session"
)

// SessionView is a session together with what it is practicing
type SessionView struct {
	Session session.Session `json:"session"`
	Item    practice.Item   `json:"item"`
	Word    practice.Word   `json:"word"`
}

// ItemView is an item at a normalized deck position
type ItemView struct {
	Index int           `json:"index"`
	Item  practice.Item `json:"item"`
}

type selectRequest struct {
	Word int `json:"word"`
}

type transcriptRequest struct {
	Transcript string `json:"transcript"`
}

type clientErrorRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, s.logger, http.StatusOK, map[string]string{
		"status":   "ok",
		"version":  internal.Version,
		"language": s.coach.Language(),
	})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items := s.coach.Deck().Items()
	RespondWithJSON(w, s.logger, http.StatusOK, map[string]any{
		"count": len(items),
		"items": items,
	})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		HandleError(w, s.logger, fmt.Errorf("%w: item index must be an integer", errBadRequest))
		return
	}

	deck := s.coach.Deck()
	RespondWithJSON(w, s.logger, http.StatusOK, ItemView{
		Index: deck.Normalize(index),
		Item:  deck.At(index),
	})
}

func (s *Server) handleItemAudio(w http.ResponseWriter, r *http.Request) {
	if s.reference == nil {
		HandleError(w, s.logger, errNoReferenceAudio)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		HandleError(w, s.logger, fmt.Errorf("%w: item index must be an integer", errBadRequest))
		return
	}

	wordIndex := 0
	if raw := r.URL.Query().Get("word"); raw != "" {
		if wordIndex, err = strconv.Atoi(raw); err != nil {
			HandleError(w, s.logger, fmt.Errorf("%w: word must be an integer", errBadRequest))
			return
		}
	}

	word, err := s.coach.Deck().At(index).Word(wordIndex)
	if err != nil {
		HandleError(w, s.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	path, err := s.reference.Path(r.Context(), word.Text)
	if err != nil {
		HandleError(w, s.logger, err)
		return
	}

	w.Header().Set("Content-Type", audio.ContentType(path))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.coach.Sessions().Create()
	s.respondSession(w, http.StatusCreated, sess, nil)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.coach.Sessions().Get(chi.URLParam(r, "id"))
	s.respondSession(w, http.StatusOK, sess, err)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.coach.Sessions().Delete(chi.URLParam(r, "id")); err != nil {
		HandleError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	sess, err := s.coach.StartRecording(chi.URLParam(r, "id"))
	s.respondSession(w, http.StatusOK, sess, err)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	sess, err := s.coach.Cancel(chi.URLParam(r, "id"))
	s.respondSession(w, http.StatusOK, sess, err)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	sess, err := s.coach.NextItem(chi.URLParam(r, "id"))
	s.respondSession(w, http.StatusOK, sess, err)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		HandleError(w, s.logger, err)
		return
	}

	sess, err := s.coach.SelectWord(chi.URLParam(r, "id"), req.Word)
	s.respondSession(w, http.StatusOK, sess, err)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if err := decodeJSON(r, &req); err != nil {
		HandleError(w, s.logger, err)
		return
	}

	sess, err := s.coach.CheckTranscript(r.Context(), chi.URLParam(r, "id"), req.Transcript)
	s.respondSession(w, http.StatusOK, sess, err)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	clip, err := s.readAudio(w, r)
	if err != nil {
		HandleError(w, s.logger, err)
		return
	}

	sess, err := s.coach.CheckAudio(r.Context(), chi.URLParam(r, "id"), clip)
	s.respondSession(w, http.StatusOK, sess, err)
}

func (s *Server) handleClientError(w http.ResponseWriter, r *http.Request) {
	var req clientErrorRequest
	if err := decodeJSON(r, &req); err != nil {
		HandleError(w, s.logger, err)
		return
	}

	sess, err := s.coach.ReportClientError(chi.URLParam(r, "id"), recognition.Code(strings.TrimSpace(req.Code)))
	s.respondSession(w, http.StatusOK, sess, err)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedback.Request
	if err := decodeJSON(r, &req); err != nil {
		HandleError(w, s.logger, err)
		return
	}

	result, err := s.coach.Feedback(r.Context(), req)
	if err != nil {
		HandleError(w, s.logger, err)
		return
	}
	RespondWithJSON(w, s.logger, http.StatusOK, result)
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	clip, err := s.readAudio(w, r)
	if err != nil {
		HandleError(w, s.logger, err)
		return
	}

	transcript, err := s.coach.Transcribe(r.Context(), clip)
	if err != nil {
		HandleError(w, s.logger, err)
		return
	}
	RespondWithJSON(w, s.logger, http.StatusOK, transcript)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		HandleError(w, s.logger, errHistoryDisabled)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 1000 {
			HandleError(w, s.logger, fmt.Errorf("%w: limit must be between 1 and 1000", errBadRequest))
			return
		}
		limit = n
	}

	attempts, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		HandleError(w, s.logger, err)
		return
	}
	RespondWithJSON(w, s.logger, http.StatusOK, map[string]any{"attempts": nonNil(attempts)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		HandleError(w, s.logger, errHistoryDisabled)
		return
	}

	stats, err := s.history.Stats(r.Context())
	if err != nil {
		HandleError(w, s.logger, err)
		return
	}
	RespondWithJSON(w, s.logger, http.StatusOK, map[string]any{"words": nonNil(stats)})
}

func (s *Server) respondSession(w http.ResponseWriter, status int, sess session.Session, err error) {
	if err != nil {
		HandleError(w, s.logger, err)
		return
	}

	item, word, err := s.coach.Target(sess)
	if err != nil {
		HandleError(w, s.logger, err)
		return
	}
	RespondWithJSON(w, s.logger, status, SessionView{Session: sess, Item: item, Word: word})
}

// readAudio accepts either a raw audio body or a multipart form with an
// "audio" file field
func (s *Server) readAudio(w http.ResponseWriter, r *http.Request) (recognition.Audio, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxAudioBytes)

	clip := recognition.Audio{Language: r.URL.Query().Get("lang")}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(s.config.MaxAudioBytes); err != nil {
			return clip, bodyError(err)
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			return clip, fmt.Errorf("%w: missing audio file field", errBadRequest)
		}
		defer file.Close()

		if clip.Data, err = io.ReadAll(file); err != nil {
			return clip, bodyError(err)
		}
		clip.ContentType = header.Header.Get("Content-Type")
		clip.Filename = header.Filename
		if lang := r.FormValue("lang"); lang != "" {
			clip.Language = lang
		}
		return clip, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return clip, bodyError(err)
	}
	clip.Data = data
	clip.ContentType = r.Header.Get("Content-Type")
	return clip, nil
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errTooLarge
	}
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
