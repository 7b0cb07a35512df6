package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/moviehub/internal/catalog"
	"github.com/desertthunder/moviehub/internal/formatter"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/repositories"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/go-chi/chi/v5"
)

// Health is the /health response body.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DB        string    `json:"db"`
	Message   string    `json:"message,omitempty"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name string `json:"name"`
}

// AddMovieRequest is the body of POST /users/{name}/movies.
type AddMovieRequest struct {
	Title string `json:"title"`
}

// AddMovieResponse reports the outcome of an add.
type AddMovieResponse struct {
	Status string       `json:"status"`
	Movie  models.Movie `json:"movie"`
}

// UpdateMovieRequest is the body of PATCH /users/{name}/movies/{title}. Both fields are required.
type UpdateMovieRequest struct {
	Year   *int     `json:"year"`
	Rating *float64 `json:"rating"`
}

// StatsResponse is the /stats response body.
type StatsResponse struct {
	*catalog.Summary
	Histogram []catalog.Bin `json:"histogram"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h := Health{Status: "ok", Timestamp: time.Now().UTC(), DB: "ok"}
	if s.db == nil {
		h.DB = "unknown"
		writeJSON(w, http.StatusOK, h)
		return
	}

	if err := s.db.PingContext(ctx); err != nil {
		h.Status = "degraded"
		h.DB = "error"
		h.Message = "database ping failed"
		writeJSON(w, http.StatusServiceUnavailable, h)
		return
	}

	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.catalog.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.catalog.CreateUser(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.User{ID: id, Name: strings.TrimSpace(req.Name)})
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	movies, err := s.catalog.ListMovies(r.Context(), session)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	movies, err = applyQuery(movies, r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, movies)
}

func (s *Server) handleAddMovie(w http.ResponseWriter, r *http.Request) {
	var req AddMovieRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.catalog.OpenSession(r.Context(), urlParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.catalog.AddMovie(r.Context(), session, req.Title)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Status == repositories.StatusDuplicate {
		status = http.StatusConflict
	}
	writeJSON(w, status, AddMovieResponse{Status: result.Status.String(), Movie: result.Movie})
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	var req UpdateMovieRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Year == nil || req.Rating == nil {
		s.writeError(w, r, shared.ErrMissingArgument)
		return
	}
	if err := models.ValidateRating(*req.Rating); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	session, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	title := urlParam(r, "title")
	found, err := s.catalog.UpdateMovie(r.Context(), session, title, *req.Year, *req.Rating)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !found {
		s.writeError(w, r, movieNotFound(title))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	title := urlParam(r, "title")
	found, err := s.catalog.DeleteMovie(r.Context(), session, title)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !found {
		s.writeError(w, r, movieNotFound(title))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	movies, err := s.catalog.ListMovies(r.Context(), session)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary, err := catalog.Summarize(movies)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	bins, err := catalog.Histogram(movies, 10)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, StatsResponse{Summary: summary, Histogram: bins})
}

func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	movies, err := s.catalog.ListMovies(r.Context(), session)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	html, err := formatter.RenderSite(s.siteTitle, session, movies)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

// session resolves the {name} path parameter to an existing user.
func (s *Server) session(r *http.Request) (models.Session, error) {
	user, err := s.catalog.GetUserByName(r.Context(), urlParam(r, "name"))
	if err != nil {
		return models.Session{}, err
	}
	return models.NewSession(*user), nil
}

// applyQuery narrows and orders movies by the q, min_rating, start_year, end_year and sort query parameters.
func applyQuery(movies models.Catalog, q url.Values) (models.Catalog, error) {
	var err error
	if term := q.Get("q"); term != "" {
		if movies, err = catalog.Search(movies, term); err != nil {
			return nil, err
		}
	}

	var criteria catalog.Criteria
	if v := q.Get("min_rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: min_rating %q", shared.ErrInvalidArgument, v)
		}
		criteria.MinRating = &f
	}
	if criteria.StartYear, err = queryInt(q, "start_year"); err != nil {
		return nil, err
	}
	if criteria.EndYear, err = queryInt(q, "end_year"); err != nil {
		return nil, err
	}
	movies = catalog.Filter(movies, criteria)

	switch q.Get("sort") {
	case "", "title":
	case "rating":
		movies = catalog.SortByRating(movies)
	case "year":
		movies = catalog.SortByYear(movies, true)
	case "year_asc":
		movies = catalog.SortByYear(movies, false)
	default:
		return nil, fmt.Errorf("%w: sort %q", shared.ErrInvalidArgument, q.Get("sort"))
	}

	return movies, nil
}

func queryInt(q url.Values, key string) (*int, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", shared.ErrInvalidArgument, key, v)
	}
	return &n, nil
}

// urlParam returns the decoded path parameter. chi leaves values escaped when the request has a RawPath.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

func movieNotFound(title string) error {
	return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, title)
}
