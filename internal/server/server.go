package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/repositories"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 5 * time.Second

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Catalog is the subset of [repositories.CatalogRepository] the server depends on.
type Catalog interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, name string) (int64, error)
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	OpenSession(ctx context.Context, name string) (models.Session, error)
	ListMovies(ctx context.Context, s models.Session) (models.Catalog, error)
	AddMovie(ctx context.Context, s models.Session, title string) (*repositories.AddResult, error)
	DeleteMovie(ctx context.Context, s models.Session, title string) (bool, error)
	UpdateMovie(ctx context.Context, s models.Session, title string, year int, rating float64) (bool, error)
}

// Pinger reports database liveness. [*sql.DB] satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Opts configures a [Server].
type Opts struct {
	Catalog   Catalog
	DB        Pinger
	Logger    *log.Logger
	SiteTitle string
	// Middleware runs inside the built-in request id, logging and recovery middleware.
	Middleware []Middleware
}

// Server serves the catalog API.
type Server struct {
	catalog   Catalog
	db        Pinger
	logger    *log.Logger
	siteTitle string
	router    chi.Router
	extra     []Middleware
}

// New creates a [Server] with all routes registered.
func New(opts Opts) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	title := opts.SiteTitle
	if title == "" {
		title = "Movie Hub"
	}

	s := &Server{
		catalog:   opts.Catalog,
		db:        opts.DB,
		logger:    logger,
		siteTitle: title,
		router:    chi.NewRouter(),
		extra:     opts.Middleware,
	}
	s.routes()
	return s
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves s on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}
