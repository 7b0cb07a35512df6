package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/services"
	"github.com/desertthunder/moviehub/internal/shared"
)

// AddStatus is the outcome of [CatalogRepository.AddMovie] when no error occurred.
type AddStatus int

const (
	StatusAdded AddStatus = iota
	StatusDuplicate
)

func (s AddStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusDuplicate:
		return "duplicate"
	default:
		return ""
	}
}

// AddResult reports what [CatalogRepository.AddMovie] did with a fetched title.
//
// For [StatusDuplicate] Movie holds the fetched metadata; nothing was stored.
type AddResult struct {
	Status AddStatus
	Movie  models.Movie
}

// Err returns an error wrapping [shared.ErrDuplicateMovie] for duplicates and nil otherwise.
func (r AddResult) Err() error {
	if r.Status == StatusDuplicate {
		return fmt.Errorf("%w: %s", shared.ErrDuplicateMovie, r.Movie.Title)
	}
	return nil
}

// CatalogRepository is the storage and enrichment entry point used by the CLI, TUI and HTTP server.
type CatalogRepository struct {
	users    *UserRepository
	movies   *MovieRepository
	metadata services.MetadataService
	logger   *log.Logger
}

// NewCatalogRepository creates a [CatalogRepository] over db that enriches new titles with metadata.
func NewCatalogRepository(db *sql.DB, metadata services.MetadataService, logger *log.Logger) *CatalogRepository {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &CatalogRepository{
		users:    NewUserRepository(db),
		movies:   NewMovieRepository(db),
		metadata: metadata,
		logger:   logger,
	}
}

// ListUsers returns all users ordered by name.
func (c *CatalogRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	return c.users.List(ctx)
}

// CreateUser returns the id of the user with name, creating the user if needed.
func (c *CatalogRepository) CreateUser(ctx context.Context, name string) (int64, error) {
	id, err := c.users.Create(ctx, name)
	if err != nil {
		return 0, err
	}
	c.logger.Debug("user ready", "user_id", id, "name", strings.TrimSpace(name))
	return id, nil
}

// GetUserByName returns the user with name or an error wrapping [shared.ErrUserNotFound].
func (c *CatalogRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return c.users.GetByName(ctx, name)
}

// OpenSession returns a [models.Session] for name, creating the user if needed.
func (c *CatalogRepository) OpenSession(ctx context.Context, name string) (models.Session, error) {
	id, err := c.CreateUser(ctx, name)
	if err != nil {
		return models.Session{}, err
	}
	user, err := c.users.Get(ctx, id)
	if err != nil {
		return models.Session{}, err
	}
	return models.NewSession(*user), nil
}

// CountMovies returns how many movies the session user owns.
func (c *CatalogRepository) CountMovies(ctx context.Context, s models.Session) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return c.movies.Count(ctx, s.UserID)
}

// ListMovies returns the session user's movies ordered by title.
func (c *CatalogRepository) ListMovies(ctx context.Context, s models.Session) (models.Catalog, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return c.movies.List(ctx, s.UserID)
}

// AddMovie fetches metadata for title and stores it in the session user's catalog.
//
// Metadata errors are returned unchanged. A title the user already owns yields [StatusDuplicate] with a nil
// error. The fetch runs outside any transaction and the insert is a single statement, so a failure leaves no
// partial state.
func (c *CatalogRepository) AddMovie(ctx context.Context, s models.Session, title string) (*AddResult, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", shared.ErrInvalidInput)
	}
	if c.metadata == nil {
		return nil, fmt.Errorf("%w: no metadata service configured", shared.ErrInvalidConfig)
	}

	record, err := c.metadata.Fetch(ctx, title)
	if err != nil {
		return nil, err
	}

	movie := models.NewMovie(s.UserID, *record)
	logger := shared.WithLogger(c.logger, "user_id", s.UserID, "title", movie.Title)

	if err := c.movies.Create(ctx, &movie); err != nil {
		if errors.Is(err, shared.ErrDuplicateMovie) {
			logger.Info("movie already in catalog")
			return &AddResult{Status: StatusDuplicate, Movie: movie}, nil
		}
		logger.Error("failed to add movie", "error", err)
		return nil, err
	}

	logger.Info("movie added", "movie_id", movie.ID)
	return &AddResult{Status: StatusAdded, Movie: movie}, nil
}

// DeleteMovie removes title from the session user's catalog. Returns false when the user has no such title.
func (c *CatalogRepository) DeleteMovie(ctx context.Context, s models.Session, title string) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	found, err := c.movies.Delete(ctx, s.UserID, strings.TrimSpace(title))
	if err != nil {
		return false, err
	}

	c.logger.Debug("delete movie", "user_id", s.UserID, "title", title, "found", found)
	return found, nil
}

// UpdateMovie sets year and rating for title in the session user's catalog. Returns false when the user has no
// such title.
func (c *CatalogRepository) UpdateMovie(ctx context.Context, s models.Session, title string, year int, rating float64) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	found, err := c.movies.Update(ctx, s.UserID, strings.TrimSpace(title), year, rating)
	if err != nil {
		return false, err
	}

	c.logger.Debug("update movie", "user_id", s.UserID, "title", title, "found", found)
	return found, nil
}
