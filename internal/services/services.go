// package services defines interface MetadataService for looking up film metadata over HTTP
//
// OMDb
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// MetadataService looks up a film by free-text title and returns a normalized [models.Record].
//
// Implementations must not retry; retry policy belongs to the caller.
type MetadataService interface {
	// Fetch performs a single lookup. Failures are reported as [*LookupError] or a configuration error.
	Fetch(ctx context.Context, title string) (*models.Record, error)

	// Name returns the name of the service (e.g., "OMDb")
	Name() string
}

// LookupError classifies a failed metadata lookup.
//
// Kind is one of [shared.ErrNetwork], [shared.ErrMovieNotFound] or [shared.ErrIncompleteData] and is matched with
// [errors.Is]. Err holds the underlying cause, if any.
type LookupError struct {
	Kind    error
	Title   string
	Message string
	Err     error
}

func (e *LookupError) Error() string {
	switch {
	case errors.Is(e.Kind, shared.ErrMovieNotFound) && e.Message != "":
		return e.Message
	case e.Message != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

func (e *LookupError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func networkError(title string, err error) *LookupError {
	return &LookupError{Kind: shared.ErrNetwork, Title: title, Err: err}
}

func notFoundError(title, message string) *LookupError {
	if message == "" {
		message = "Movie not found"
	}
	return &LookupError{Kind: shared.ErrMovieNotFound, Title: title, Message: message}
}

func incompleteError(title, message string) *LookupError {
	return &LookupError{Kind: shared.ErrIncompleteData, Title: title, Message: message}
}
