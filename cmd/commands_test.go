package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/services"
	"github.com/desertthunder/moviehub/internal/shared"
	tu "github.com/desertthunder/moviehub/internal/testing"
)

type testEnv struct {
	runner *Runner
	output *bytes.Buffer
	stub   *tu.StubMetadata
	config *shared.Config
	dir    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv(EnvUser, "")
	t.Setenv(EnvConfig, "")

	dir := t.TempDir()
	db, err := shared.NewDatabase(filepath.Join(dir, "movies.db"))
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	config := shared.DefaultConfig()
	config.OMDb.APIKey = "test-key"
	config.Site.StaticDir = filepath.Join(dir, "_static")

	stub := tu.NewStubMetadata(
		models.Record{Title: "Heat", Year: 1995, Rating: 8.3, IMDbID: models.StringPtr("tt0113277")},
		models.Record{Title: "Alien", Year: 1979, Rating: 8.5},
	)
	stub.Err = &services.LookupError{Kind: shared.ErrMovieNotFound, Message: "Movie not found!"}

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: filepath.Join(dir, "config.toml"),
		DB:         db,
		Metadata:   stub,
		Logger:     shared.NewLogger(io.Discard),
		Output:     output,
		Rand:       rand.New(rand.NewPCG(1, 2)),
	})

	return &testEnv{runner: runner, output: output, stub: stub, config: config, dir: dir}
}

// run executes the CLI with args and returns what it printed.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	e.output.Reset()
	argv := append([]string{"moviehub", "--config", filepath.Join(e.dir, "config.toml")}, args...)
	err := e.runner.App().Run(context.Background(), argv)
	return e.output.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out
}

func TestSetupCommands(t *testing.T) {
	t.Run("setup database creates config and tables", func(t *testing.T) {
		env := newTestEnv(t)

		out := env.mustRun(t, "setup", "database")
		if !strings.Contains(out, "Database ready") {
			t.Errorf("unexpected output %q", out)
		}
		tu.AssertFileExists(t, filepath.Join(env.dir, "config.toml"))
	})

	t.Run("setup config refuses to overwrite", func(t *testing.T) {
		env := newTestEnv(t)

		env.mustRun(t, "setup", "config")
		if _, err := env.run(t, "setup", "config"); err == nil {
			t.Error("expected error when config already exists")
		}
	})
}

func TestUsersCommands(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "users", "list")
	if !strings.Contains(out, "No users yet") {
		t.Errorf("unexpected output %q", out)
	}

	env.mustRun(t, "users", "add", "Bob")
	out = env.mustRun(t, "users", "add", "  Ada  ")
	if !strings.Contains(out, "User 'Ada' is ready") {
		t.Errorf("unexpected output %q", out)
	}

	env.mustRun(t, "--user", "Bob", "movies", "add", "Heat")
	out = env.mustRun(t, "users", "list")
	if !strings.Contains(out, "1. Ada (0 movies)\n2. Bob (1 movies)") {
		t.Errorf("expected users ordered by name, got %q", out)
	}

	out = env.mustRun(t, "users", "list", "--json")
	var users []models.User
	if err := json.Unmarshal([]byte(out), &users); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}

	if _, err := env.run(t, "users", "add"); !errors.Is(err, shared.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
}

func TestMoviesCommands(t *testing.T) {
	env := newTestEnv(t)

	t.Run("add requires user", func(t *testing.T) {
		if _, err := env.run(t, "movies", "add", "Heat"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("list unknown user", func(t *testing.T) {
		if _, err := env.run(t, "--user", "Ada", "movies", "list"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("add creates user and stores movie", func(t *testing.T) {
		out := env.mustRun(t, "--user", "Ada", "movies", "add", "Heat")
		if !strings.Contains(out, "Movie 'Heat' (1995) added with rating 8.3") {
			t.Errorf("unexpected output %q", out)
		}
		env.mustRun(t, "--user", "Ada", "movies", "add", "Alien")
	})

	t.Run("add duplicate", func(t *testing.T) {
		out := env.mustRun(t, "--user", "Ada", "movies", "add", "Heat")
		if !strings.Contains(out, "already exists") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("add unknown title", func(t *testing.T) {
		_, err := env.run(t, "--user", "Ada", "movies", "add", "Zzzzqqq")
		if !errors.Is(err, shared.ErrMovieNotFound) {
			t.Fatalf("expected ErrMovieNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "Movie not found!") {
			t.Errorf("expected service message, got %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		out := env.mustRun(t, "--user", "Ada", "movies", "list")
		if !strings.Contains(out, "2 movies in total\nAlien (1979): 8.5\nHeat (1995): 8.3") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("list sorted and filtered as JSON", func(t *testing.T) {
		out := env.mustRun(t, "--user", "Ada", "movies", "list", "--sort", "year", "--start-year", "1990", "--json")
		var movies models.Catalog
		if err := json.Unmarshal([]byte(out), &movies); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if len(movies) != 1 || movies[0].Title != "Heat" {
			t.Errorf("unexpected movies %+v", movies)
		}
	})

	t.Run("list bad sort", func(t *testing.T) {
		if _, err := env.run(t, "--user", "Ada", "movies", "list", "--sort", "length"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("stats", func(t *testing.T) {
		out := env.mustRun(t, "--user", "Ada", "movies", "stats")
		for _, want := range []string{"Average rating: 8.40", "Median rating: 8.40", "Best movie: Alien", "Worst movie: Heat"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in %q", want, out)
			}
		}
	})

	t.Run("random", func(t *testing.T) {
		out := env.mustRun(t, "--user", "Ada", "movies", "random")
		if !strings.Contains(out, "Your movie for tonight:") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("search", func(t *testing.T) {
		out := env.mustRun(t, "--user", "Ada", "movies", "search", "HEA")
		if strings.TrimSpace(out) != "Heat (1995): 8.3" {
			t.Errorf("unexpected output %q", out)
		}

		out = env.mustRun(t, "--user", "Ada", "movies", "search", "nothing")
		if !strings.Contains(out, "No movies match") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("histogram", func(t *testing.T) {
		out := env.mustRun(t, "--user", "Ada", "movies", "histogram")
		if !strings.Contains(out, "8.0-9.0") || !strings.Contains(out, "█ 2") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("update", func(t *testing.T) {
		out := env.mustRun(t, "--user", "Ada", "movies", "update", "Heat", "--year", "1996", "--rating", "9")
		if !strings.Contains(out, "updated to 1996, rated 9.0") {
			t.Errorf("unexpected output %q", out)
		}

		for _, rating := range []string{"12", "-1", "NaN"} {
			_, err := env.run(t, "--user", "Ada", "movies", "update", "Heat", "--year", "1996", "--rating", rating)
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("rating %s: expected ErrInvalidArgument, got %v", rating, err)
			}
		}
		if _, err := env.run(t, "--user", "Ada", "movies", "update", "Nope", "--year", "2000", "--rating", "5"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
		if _, err := env.run(t, "--user", "Ada", "movies", "update", "Heat"); err == nil {
			t.Error("expected error for missing required flags")
		}
	})

	t.Run("delete", func(t *testing.T) {
		out := env.mustRun(t, "--user", "Ada", "movies", "delete", "Alien")
		if !strings.Contains(out, "Movie 'Alien' deleted") {
			t.Errorf("unexpected output %q", out)
		}

		if _, err := env.run(t, "--user", "Ada", "movies", "delete", "Alien"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("stats on empty catalog", func(t *testing.T) {
		env.mustRun(t, "users", "add", "Empty")
		if _, err := env.run(t, "--user", "Empty", "movies", "stats"); !errors.Is(err, shared.ErrEmptyCatalog) {
			t.Errorf("expected ErrEmptyCatalog, got %v", err)
		}
	})
}

func TestExportAndSite(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "--user", "Ada Lovelace", "movies", "add", "Heat")

	t.Run("export csv", func(t *testing.T) {
		path := filepath.Join(env.dir, "ada.csv")
		out := env.mustRun(t, "--user", "Ada Lovelace", "export", "--format", "csv", "--output", path)
		if !strings.Contains(out, "Exported 1 movies") {
			t.Errorf("unexpected output %q", out)
		}
		if !strings.Contains(tu.MustReadFile(t, path), "Heat,1995,8.3") {
			t.Errorf("export missing row")
		}
	})

	t.Run("export unknown format", func(t *testing.T) {
		if _, err := env.run(t, "--user", "Ada Lovelace", "export", "--format", "xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("export all", func(t *testing.T) {
		env.mustRun(t, "--user", "Grace", "movies", "add", "Alien")
		dir := filepath.Join(env.dir, "bulk")
		out := env.mustRun(t, "export", "--all", "--format", "md", "--output", dir, "--site")
		if !strings.Contains(out, "Exported 2 of 2 catalogs") {
			t.Errorf("unexpected output %q", out)
		}
		for _, name := range []string{"Ada_Lovelace_movies.md", "Grace_movies.md", "Grace.html", "export_manifest.json"} {
			tu.AssertFileExists(t, filepath.Join(dir, name))
		}
	})

	t.Run("site", func(t *testing.T) {
		out := env.mustRun(t, "--user", "Ada Lovelace", "site")
		path := filepath.Join(env.config.Site.StaticDir, "Ada_Lovelace.html")
		if !strings.Contains(out, path) {
			t.Errorf("expected path in output, got %q", out)
		}
		html := tu.MustReadFile(t, path)
		if !strings.Contains(html, "Welcome back, Ada Lovelace.") {
			t.Errorf("site missing welcome text")
		}
	})
}

func TestMissingCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.config.OMDb.APIKey = ""

	_, err := env.run(t, "--user", "Ada", "movies", "list")
	if !errors.Is(err, shared.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if env.stub.CallCount() != 0 {
		t.Error("expected no metadata lookups")
	}

	// setup does not need the key
	out := env.mustRun(t, "setup", "database")
	if !strings.Contains(out, "Next step") {
		t.Errorf("expected api key hint, got %q", out)
	}

	if _, err := os.Stat(filepath.Join(env.dir, "config.toml")); err != nil {
		t.Errorf("expected config file to be created: %v", err)
	}
}
