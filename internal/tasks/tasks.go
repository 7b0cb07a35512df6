package tasks

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// CatalogReader is the read side of [repositories.CatalogRepository] used by catalog-wide jobs.
type CatalogReader interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListMovies(ctx context.Context, s models.Session) (models.Catalog, error)
}

// Engine runs jobs over every user's catalog.
type Engine struct {
	catalog CatalogReader
	logger  *log.Logger
}

// NewEngine creates an [Engine] reading from catalog.
func NewEngine(catalog CatalogReader, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Engine{catalog: catalog, logger: logger}
}

// sendProgress sends a progress update without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
