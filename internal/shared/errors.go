package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Metadata service errors
	ErrNetwork        = fmt.Errorf("metadata service unreachable")
	ErrMovieNotFound  = fmt.Errorf("movie not found")
	ErrIncompleteData = fmt.Errorf("metadata service returned incomplete data")

	// Storage errors
	ErrUserNotFound   = fmt.Errorf("user not found")
	ErrDuplicateMovie = fmt.Errorf("movie already exists")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrEmptyCatalog    = fmt.Errorf("catalog is empty")
)
