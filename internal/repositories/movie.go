package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// MovieRepository persists [models.Movie] rows. Every query is scoped to a single user.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new [MovieRepository] with the given database connection
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create inserts movie and sets its ID.
//
// Returns an error wrapping [shared.ErrDuplicateMovie] when the user already has the title, and
// [shared.ErrUserNotFound] when the owning user does not exist.
func (r *MovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO movies (user_id, title, year, rating, poster_url, imdb_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		movie.UserID,
		movie.Title,
		movie.Year,
		movie.Rating,
		movie.PosterURL,
		movie.IMDbID,
	)
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", shared.ErrDuplicateMovie, movie.Title)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %d", shared.ErrUserNotFound, movie.UserID)
	case err != nil:
		return fmt.Errorf("failed to insert movie: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	movie.ID = id

	return nil
}

// List retrieves the user's movies ordered by title ascending
func (r *MovieRepository) List(ctx context.Context, userID int64) (models.Catalog, error) {
	query := `
		SELECT id, user_id, title, year, rating, poster_url, imdb_id
		FROM movies
		WHERE user_id = ?
		ORDER BY title ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	catalog := models.Catalog{}
	for rows.Next() {
		movie, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		catalog = append(catalog, *movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return catalog, nil
}

// Delete removes the user's movie with the given title. Returns false when no row matched.
func (r *MovieRepository) Delete(ctx context.Context, userID int64, title string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE user_id = ? AND title = ?", userID, title)
	if err != nil {
		return false, fmt.Errorf("failed to delete movie: %w", err)
	}

	return affected(result)
}

// Update sets year and rating on the user's movie with the given title. Returns false when no row matched.
func (r *MovieRepository) Update(ctx context.Context, userID int64, title string, year int, rating float64) (bool, error) {
	query := `
		UPDATE movies
		SET year = ?, rating = ?
		WHERE user_id = ? AND title = ?
	`

	result, err := r.db.ExecContext(ctx, query, year, rating, userID, title)
	if err != nil {
		return false, fmt.Errorf("failed to update movie: %w", err)
	}

	return affected(result)
}

// Count returns the number of movies the user owns
func (r *MovieRepository) Count(ctx context.Context, userID int64) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies WHERE user_id = ?", userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// scanRow scans a row from [sql.Rows] into a [models.Movie]
func (r *MovieRepository) scanRow(rows *sql.Rows) (*models.Movie, error) {
	var (
		movie  models.Movie
		year   sql.NullInt64
		poster sql.NullString
		imdbID sql.NullString
	)

	err := rows.Scan(&movie.ID, &movie.UserID, &movie.Title, &year, &movie.Rating, &poster, &imdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}

	movie.Year = int(year.Int64)
	if poster.Valid {
		movie.PosterURL = &poster.String
	}
	if imdbID.Valid {
		movie.IMDbID = &imdbID.String
	}

	return &movie, nil
}

func affected(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}
