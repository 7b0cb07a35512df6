package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/repositories"
	"github.com/desertthunder/moviehub/internal/services"
	"github.com/desertthunder/moviehub/internal/shared"
	tu "github.com/desertthunder/moviehub/internal/testing"
)

func setupServer(t *testing.T) (*Server, *tu.StubMetadata) {
	t.Helper()

	db, err := shared.NewDatabase(filepath.Join(t.TempDir(), "movies.db"))
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}

	stub := tu.NewStubMetadata(
		models.Record{Title: "Heat", Year: 1995, Rating: 8.3, IMDbID: models.StringPtr("tt0113277")},
		models.Record{Title: "Alien", Year: 1979, Rating: 8.5},
		models.Record{Title: "Cats", Year: 2019, Rating: 2.8},
	)
	stub.Err = &services.LookupError{Kind: shared.ErrMovieNotFound, Message: "Movie not found!"}

	catalog := repositories.NewCatalogRepository(db, stub, nil)
	return New(Opts{Catalog: catalog, DB: db, SiteTitle: "Movie Hub"}), stub
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func addMovie(t *testing.T, h http.Handler, user, title string) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/users/"+user+"/movies", fmt.Sprintf(`{"title":%q}`, title))
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed to add %s: %d %s", title, rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t)

	rec := do(t, srv, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	h := decode[Health](t, rec)
	if h.Status != "ok" || h.DB != "ok" {
		t.Errorf("unexpected health %+v", h)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected request id header")
	}
}

func TestUsers(t *testing.T) {
	srv, _ := setupServer(t)

	t.Run("Create", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/users", `{"name":"  Ada  "}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		u := decode[models.User](t, rec)
		if u.Name != "Ada" || u.ID == 0 {
			t.Errorf("unexpected user %+v", u)
		}
	})

	t.Run("Create Twice Returns Same ID", func(t *testing.T) {
		first := decode[models.User](t, do(t, srv, http.MethodPost, "/users", `{"name":"Bob"}`))
		second := decode[models.User](t, do(t, srv, http.MethodPost, "/users", `{"name":"Bob"}`))
		if first.ID != second.ID {
			t.Errorf("expected same id, got %d and %d", first.ID, second.ID)
		}
	})

	t.Run("Empty Name", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/users", `{"name":"   "}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("Malformed Body", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/users", `{"name":`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if body := decode[ErrorResponse](t, rec); body.RequestID == "" {
			t.Error("expected request id in error body")
		}
	})

	t.Run("List", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/users", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		users := decode[[]models.User](t, rec)
		if len(users) != 2 || users[0].Name != "Ada" || users[1].Name != "Bob" {
			t.Errorf("unexpected users %+v", users)
		}
	})
}

func TestMovies(t *testing.T) {
	srv, stub := setupServer(t)

	addMovie(t, srv, "Ada", "Heat")
	addMovie(t, srv, "Ada", "Alien")
	addMovie(t, srv, "Ada", "Cats")

	t.Run("List Ordered By Title", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/users/Ada/movies", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		movies := decode[models.Catalog](t, rec)
		got := strings.Join(movies.Titles(), ",")
		if got != "Alien,Cats,Heat" {
			t.Errorf("unexpected order %s", got)
		}
	})

	t.Run("List With Query", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/users/Ada/movies?sort=rating&min_rating=5", "")
		movies := decode[models.Catalog](t, rec)
		got := strings.Join(movies.Titles(), ",")
		if got != "Alien,Heat" {
			t.Errorf("unexpected result %s", got)
		}
	})

	t.Run("List With Bad Query", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/users/Ada/movies?start_year=soon", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("Unknown User", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/users/Nobody/movies", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/users/Ada/movies", `{"title":"Heat"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if body := decode[AddMovieResponse](t, rec); body.Status != "duplicate" {
			t.Errorf("expected duplicate status, got %s", body.Status)
		}
	})

	t.Run("Lookup Not Found", func(t *testing.T) {
		calls := stub.CallCount()
		rec := do(t, srv, http.MethodPost, "/users/Ada/movies", `{"title":"Zzzzqqq"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if body := decode[ErrorResponse](t, rec); body.Error != "Movie not found!" {
			t.Errorf("expected service message, got %q", body.Error)
		}
		if stub.CallCount() != calls+1 {
			t.Errorf("expected one lookup")
		}
	})

	t.Run("Update", func(t *testing.T) {
		rec := do(t, srv, http.MethodPatch, "/users/Ada/movies/Heat", `{"year":1996,"rating":9.1}`)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}

		movies := decode[models.Catalog](t, do(t, srv, http.MethodGet, "/users/Ada/movies", ""))
		heat := movies.ByTitle()["Heat"]
		if heat.Year != 1996 || heat.Rating != 9.1 {
			t.Errorf("update not applied: %+v", heat)
		}
	})

	t.Run("Update Validation", func(t *testing.T) {
		cases := map[string]string{
			"missing rating": `{"year":1996}`,
			"rating range":   `{"year":1996,"rating":11}`,
			"unknown field":  `{"year":1996,"rating":5,"extra":true}`,
		}
		for name, body := range cases {
			rec := do(t, srv, http.MethodPatch, "/users/Ada/movies/Heat", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", name, rec.Code)
			}
		}
	})

	t.Run("Update Missing Title", func(t *testing.T) {
		rec := do(t, srv, http.MethodPatch, "/users/Ada/movies/Nope", `{"year":2000,"rating":5}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		rec := do(t, srv, http.MethodDelete, "/users/Ada/movies/Cats", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		rec = do(t, srv, http.MethodDelete, "/users/Ada/movies/Cats", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 on second delete, got %d", rec.Code)
		}
	})
}

func TestStatsAndSite(t *testing.T) {
	srv, _ := setupServer(t)

	do(t, srv, http.MethodPost, "/users", `{"name":"Ada Lovelace"}`)

	t.Run("Stats Empty Catalog", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/users/Ada%20Lovelace/stats", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	addMovie(t, srv, "Ada%20Lovelace", "Heat")
	addMovie(t, srv, "Ada%20Lovelace", "Alien")

	t.Run("Stats", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/users/Ada%20Lovelace/stats", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		stats := decode[StatsResponse](t, rec)
		if stats.Count != 2 || len(stats.Histogram) != 10 {
			t.Errorf("unexpected stats %+v", stats)
		}
		if len(stats.Best) != 1 || stats.Best[0].Title != "Alien" {
			t.Errorf("unexpected best %+v", stats.Best)
		}
	})

	t.Run("Site", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/users/Ada%20Lovelace/site", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("unexpected content type %s", ct)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "Welcome back, Ada Lovelace.") {
			t.Errorf("site missing welcome text")
		}
		if !strings.Contains(body, "https://www.imdb.com/title/tt0113277/") {
			t.Errorf("site missing imdb link")
		}
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{shared.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", shared.ErrUserNotFound), http.StatusNotFound},
		{&services.LookupError{Kind: shared.ErrMovieNotFound}, http.StatusNotFound},
		{shared.ErrDuplicateMovie, http.StatusConflict},
		{&services.LookupError{Kind: shared.ErrNetwork, Err: errors.New("dial tcp")}, http.StatusBadGateway},
		{&services.LookupError{Kind: shared.ErrIncompleteData}, http.StatusBadGateway},
		{shared.ErrMissingCredentials, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, GetRequestID(r.Context()))
	}))

	t.Run("Generated", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/", "")
		if rec.Body.String() == "" || rec.Body.String() != rec.Header().Get(RequestIDHeader) {
			t.Errorf("expected generated id in context and header")
		}
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Body.String() != "abc-123" {
			t.Errorf("expected propagated id, got %s", rec.Body.String())
		}
	})
}
