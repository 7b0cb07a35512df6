package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// RequestIDHeader carries the request id on responses.
const RequestIDHeader = "X-Request-ID"

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	for _, mw := range s.extra {
		s.router.Use(mw)
	}

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/", s.handleListUsers)
		r.Post("/", s.handleCreateUser)

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/movies", s.handleListMovies)
			r.Post("/movies", s.handleAddMovie)
			r.Patch("/movies/{title}", s.handleUpdateMovie)
			r.Delete("/movies/{title}", s.handleDeleteMovie)
			r.Get("/stats", s.handleStats)
			r.Get("/site", s.handleSite)
		})
	})
}

// RequestID assigns each request a uuid, honouring an incoming X-Request-ID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = shared.GenerateID()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// GetRequestID returns the id set by [RequestID], or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestLogger logs one line per request with method, path, status and duration.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request",
				"request_id", GetRequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
