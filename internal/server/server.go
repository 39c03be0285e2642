package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"codeberg.org/snonux/proncoach/internal/coach"
	"codeberg.org/snonux/proncoach/internal/history"
)

//go:embed static
var staticFiles embed.FS

// ReferenceAudio returns the path of a reference clip for text
type ReferenceAudio interface {
	Path(ctx context.Context, text string) (string, error)
}

// HistoryReader reads the attempt log
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]history.Attempt, error)
	Stats(ctx context.Context) ([]history.WordStats, error)
}

// Config holds HTTP settings
type Config struct {
	Addr            string
	AllowedOrigins  []string
	MaxAudioBytes   int64
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns default HTTP settings
func DefaultConfig() *Config {
	return &Config{
		Addr:            "127.0.0.1:8080",
		AllowedOrigins:  []string{"*"},
		MaxAudioBytes:   10 << 20,
		RequestTimeout:  60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server is the HTTP front end of the coach
type Server struct {
	config    *Config
	coach     *coach.Coach
	reference ReferenceAudio
	history   HistoryReader
	logger    *zap.Logger
	router    chi.Router
}

// New creates a server. reference and hist may be nil.
func New(config *Config, c *coach.Coach, reference ReferenceAudio, hist HistoryReader, logger *zap.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config:    config,
		coach:     c,
		reference: reference,
		history:   hist,
		logger:    logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	widget, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("embedded widget missing: %v", err))
	}
	r.Handle("/*", http.FileServer(http.FS(widget)))

	r.Route("/api", func(r chi.Router) {
		if s.config.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.config.RequestTimeout))
		}

		r.Get("/items", s.handleListItems)
		r.Get("/items/{index}", s.handleGetItem)
		r.Get("/items/{index}/audio", s.handleItemAudio)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/record", s.handleRecord)
			r.Post("/cancel", s.handleCancel)
			r.Post("/next", s.handleNext)
			r.Post("/select", s.handleSelect)
			r.Post("/transcript", s.handleTranscript)
			r.Post("/audio", s.handleAudio)
			r.Post("/error", s.handleClientError)
		})

		r.Post("/feedback", s.handleFeedback)
		r.Post("/transcribe", s.handleTranscribe)
		r.Get("/history", s.handleHistory)
		r.Get("/stats", s.handleStats)
	})

	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", zap.String("addr", s.config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
