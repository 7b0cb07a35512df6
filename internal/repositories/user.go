package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// UserRepository persists [models.User] rows.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user if no user with that name exists and returns the user's id.
//
// The name is trimmed first; an empty name is rejected with [shared.ErrInvalidInput]. Calling Create repeatedly
// with the same name returns the same id.
func (r *UserRepository) Create(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: user name cannot be empty", shared.ErrInvalidInput)
	}

	if _, err := r.db.ExecContext(ctx, "INSERT OR IGNORE INTO users (name) VALUES (?)", name); err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	user, err := r.GetByName(ctx, name)
	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// Get retrieves a user by id
func (r *UserRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, "SELECT id, name FROM users WHERE id = ?", id), fmt.Sprint(id))
}

// GetByName retrieves a user by exact (trimmed) name
func (r *UserRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	return r.scanOne(r.db.QueryRowContext(ctx, "SELECT id, name FROM users WHERE name = ?", name), name)
}

// List retrieves all users ordered by name ascending
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM users ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

func (r *UserRepository) scanOne(row *sql.Row, key string) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}
