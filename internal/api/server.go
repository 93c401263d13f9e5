// Package api exposes the learner service and the tutor over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/abhisek/mathquest/internal/app"
	"github.com/abhisek/mathquest/internal/tutor"
)

// Options configures a Server.
type Options struct {
	// JWTSecret enables bearer token identity. Empty means every request
	// is served as the default user.
	JWTSecret string

	// DefaultUser scopes anonymous requests.
	DefaultUser string

	// Health checks the backing store for /healthz. Nil always reports ok.
	Health func(context.Context) error
}

// Server routes HTTP requests to the learner service and tutor.
type Server struct {
	svc    *app.Service
	tutor  *tutor.Tutor
	opts   Options
	logger *slog.Logger
	router *mux.Router
}

// NewServer creates a Server. tu may be nil, in which case the tutor
// endpoints answer with their fallback text.
func NewServer(svc *app.Service, tu *tutor.Tutor, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if tu == nil {
		tu = tutor.New(nil, tutor.DefaultConfig(), logger)
	}
	s := &Server{svc: svc, tutor: tu, opts: opts, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, accessLogMiddleware(s.logger))
	setErrorHandlers(r)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(identityMiddleware([]byte(s.opts.JWTSecret)))
	setErrorHandlers(api)

	api.HandleFunc("/topics", s.handleTopics).Methods(http.MethodGet)
	api.HandleFunc("/topics/{id}", s.handleTopic).Methods(http.MethodGet)
	api.HandleFunc("/topics/{id}/levels/{level}/complete", s.handleComplete).Methods(http.MethodPost)
	api.HandleFunc("/progress", s.handleProgress).Methods(http.MethodGet)
	api.HandleFunc("/badges", s.handleBadges).Methods(http.MethodGet)
	api.HandleFunc("/suggestions", s.handleSuggestions).Methods(http.MethodGet)
	api.HandleFunc("/settings/grade", s.handleGetGrade).Methods(http.MethodGet)
	api.HandleFunc("/settings/grade", s.handleSetGrade).Methods(http.MethodPut)
	api.HandleFunc("/tutor/explain", s.handleExplain).Methods(http.MethodPost)
	api.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)

	return r
}

// setErrorHandlers installs JSON 404/405 replies. Subrouters do not inherit
// them from their parent.
func setErrorHandlers(r *mux.Router) {
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondWithError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// user resolves the learner a request acts for.
func (s *Server) user(r *http.Request) string {
	if id := UserID(r.Context()); id != "" {
		return id
	}
	return s.opts.DefaultUser
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
