// package models defines the data model for the movie catalog
package models

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

const (
	MinRating = 0.0
	MaxRating = 10.0
)

// User owns a catalog. Users are created on first use and never updated.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Session identifies the active user for catalog operations.
type Session struct {
	UserID   int64
	UserName string
}

// NewSession creates a [Session] for the given [User]
func NewSession(u User) Session {
	return Session{UserID: u.ID, UserName: u.Name}
}

// Validate checks that the session refers to a persisted user
func (s Session) Validate() error {
	if s.UserID <= 0 {
		return fmt.Errorf("session has no user")
	}
	return nil
}

// SafeName returns the user name for use in file names.
//
// Letters, digits, '-' and '_' are kept and everything else becomes '_', so the result never contains a path
// separator or dot. A name with nothing left to keep falls back to user_{id}.
func (s Session) SafeName() string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, strings.TrimSpace(s.UserName))

	if strings.Trim(name, "_") == "" {
		return fmt.Sprintf("user_%d", s.UserID)
	}
	return name
}

// Record is the normalized result of a metadata lookup.
//
// PosterURL and IMDbID are nil when the service does not know them.
type Record struct {
	Title     string
	Year      int
	Rating    float64
	PosterURL *string
	IMDbID    *string
}

// Movie is a title in a single user's catalog.
type Movie struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"user_id"`
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Rating    float64 `json:"rating"`
	PosterURL *string `json:"poster_url"`
	IMDbID    *string `json:"imdb_id"`
}

// NewMovie builds an unsaved [Movie] for userID from a metadata [Record]
func NewMovie(userID int64, r Record) Movie {
	return Movie{
		UserID:    userID,
		Title:     r.Title,
		Year:      r.Year,
		Rating:    r.Rating,
		PosterURL: r.PosterURL,
		IMDbID:    r.IMDbID,
	}
}

// Validate checks the invariants the catalog relies on
func (m Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if m.UserID <= 0 {
		return fmt.Errorf("user is required")
	}
	return nil
}

// IMDbURL returns the IMDb detail page for the movie, or "#" when no id is known.
func (m Movie) IMDbURL() string {
	if m.IMDbID == nil || *m.IMDbID == "" {
		return "#"
	}
	return fmt.Sprintf("https://www.imdb.com/title/%s/", *m.IMDbID)
}

// Poster returns the poster URL or an empty string.
func (m Movie) Poster() string {
	if m.PosterURL == nil {
		return ""
	}
	return *m.PosterURL
}

// ValidateRating reports whether r is within the 0–10 convention used for user-supplied ratings.
func ValidateRating(r float64) error {
	if math.IsNaN(r) || r < MinRating || r > MaxRating {
		return fmt.Errorf("rating must be between %.0f and %.0f, got %v", MinRating, MaxRating, r)
	}
	return nil
}

// Catalog is a user's movies ordered by title ascending.
type Catalog []Movie

// ByTitle returns the catalog keyed by title.
func (c Catalog) ByTitle() map[string]Movie {
	out := make(map[string]Movie, len(c))
	for _, m := range c {
		out[m.Title] = m
	}
	return out
}

// Titles returns the movie titles in catalog order.
func (c Catalog) Titles() []string {
	titles := make([]string, 0, len(c))
	for _, m := range c {
		titles = append(titles, m.Title)
	}
	return titles
}

// Ratings returns the movie ratings in catalog order.
func (c Catalog) Ratings() []float64 {
	ratings := make([]float64, 0, len(c))
	for _, m := range c {
		ratings = append(ratings, m.Rating)
	}
	return ratings
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
