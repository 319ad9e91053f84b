// Package server exposes the game over HTTP: the daily image set, guess
// logging, aggregate stats, and the static front end.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/omerhaim/origindaily/internal/constants"
	"github.com/omerhaim/origindaily/internal/domain"
	"github.com/omerhaim/origindaily/internal/service/stats"
)

// DailyProvider serves the current day's image set.
type DailyProvider interface {
	Today() domain.DailySet
}

// GuessLogger accepts validated guesses.
type GuessLogger interface {
	Log(ctx context.Context, guess domain.Guess) error
}

// StatsProvider reads the aggregate counters. Nil when stats are disabled.
type StatsProvider interface {
	Summary(ctx context.Context) (stats.Summary, error)
}

type Server struct {
	httpServer *http.Server
	daily      DailyProvider
	guesses    GuessLogger
	stats      StatsProvider
	publicDir  string
	logger     *zap.Logger
}

func New(port int, publicDir string, daily DailyProvider, guesses GuessLogger, statsProvider StatsProvider, logger *zap.Logger) *Server {
	s := &Server{
		daily:     daily,
		guesses:   guesses,
		stats:     statsProvider,
		publicDir: publicDir,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/api/daily-images", s.handleDailyImages)
	r.Post("/api/log-guess", s.handleLogGuess)
	r.Get("/api/stats", s.handleStats)
	r.Handle("/*", http.FileServer(http.Dir(publicDir)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      r,
		ReadTimeout:  constants.ServerConfig.ReadTimeout,
		WriteTimeout: constants.ServerConfig.WriteTimeout,
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleDailyImages(w http.ResponseWriter, r *http.Request) {
	set := s.daily.Today()
	if set.Empty() {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "No images available, try again later",
		})
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// logGuessRequest uses pointer fields so an absent boolean is
// distinguishable from false.
type logGuessRequest struct {
	ImageID string        `json:"imageId"`
	Guess   *domain.Group `json:"guess"`
	Correct *bool         `json:"correct"`
}

func (s *Server) handleLogGuess(w http.ResponseWriter, r *http.Request) {
	var req logGuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.ImageID == "" || req.Guess == nil || req.Correct == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "imageId, guess and correct are required"})
		return
	}

	guess := domain.Guess{
		ImageID:   req.ImageID,
		Guess:     *req.Guess,
		Correct:   *req.Correct,
		Timestamp: time.Now(),
	}
	if err := s.guesses.Log(r.Context(), guess); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		writeJSON(w, http.StatusOK, stats.Summary{})
		return
	}
	summary, err := s.stats.Summary(r.Context())
	if err != nil {
		s.logger.Error("Failed to read stats", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
