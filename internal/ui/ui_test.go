package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/repositories"
	"github.com/desertthunder/moviehub/internal/services"
	"github.com/desertthunder/moviehub/internal/shared"
)

type fakeCatalog struct {
	mu      sync.Mutex
	movies  models.Catalog
	known   map[string]models.Movie
	listErr error
}

func (f *fakeCatalog) ListMovies(ctx context.Context, s models.Session) (models.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append(models.Catalog{}, f.movies...), nil
}

func (f *fakeCatalog) AddMovie(ctx context.Context, s models.Session, title string) (*repositories.AddResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.known[title]
	if !ok {
		return nil, &services.LookupError{Kind: shared.ErrMovieNotFound, Message: "Movie not found!"}
	}
	for _, existing := range f.movies {
		if existing.Title == m.Title {
			return &repositories.AddResult{Status: repositories.StatusDuplicate, Movie: m}, nil
		}
	}
	f.movies = append(f.movies, m)
	return &repositories.AddResult{Status: repositories.StatusAdded, Movie: m}, nil
}

func (f *fakeCatalog) DeleteMovie(ctx context.Context, s models.Session, title string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.movies {
		if m.Title == title {
			f.movies = append(f.movies[:i], f.movies[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newTestModel(t *testing.T, movies ...models.Movie) (*Model, *fakeCatalog) {
	t.Helper()
	fake := &fakeCatalog{
		movies: movies,
		known: map[string]models.Movie{
			"Heat":  {Title: "Heat", Year: 1995, Rating: 8.3},
			"Alien": {Title: "Alien", Year: 1979, Rating: 8.5},
		},
	}
	m := NewModel(context.Background(), fake, models.Session{UserID: 1, UserName: "Ada"})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	run(m, m.Init())
	return m, fake
}

// run executes cmd synchronously and feeds catalog results back into the model.
func run(m *Model, cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(Msg); !ok {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModel(t *testing.T) {
	t.Run("Init Loads Movies", func(t *testing.T) {
		m, _ := newTestModel(t, models.Movie{Title: "Heat", Year: 1995, Rating: 8.3})

		if m.busy {
			t.Error("expected model to be idle after load")
		}
		if len(m.list.Items()) != 1 {
			t.Fatalf("expected 1 item, got %d", len(m.list.Items()))
		}
		if !strings.Contains(m.View(), "Heat") {
			t.Errorf("expected view to contain Heat")
		}
	})

	t.Run("Empty Catalog", func(t *testing.T) {
		m, _ := newTestModel(t)
		if !strings.Contains(m.View(), "Your movie collection is empty") {
			t.Errorf("expected empty message, got %s", m.View())
		}
	})

	t.Run("Load Error", func(t *testing.T) {
		fake := &fakeCatalog{listErr: errors.New("disk I/O error")}
		m := NewModel(context.Background(), fake, models.Session{UserID: 1, UserName: "Ada"})
		run(m, m.Init())

		if !strings.Contains(m.View(), "disk I/O error") {
			t.Errorf("expected error in view, got %s", m.View())
		}
	})

	t.Run("Add Movie", func(t *testing.T) {
		m, fake := newTestModel(t)

		_, cmd := m.Update(keyPress("a"))
		if m.view != AddView {
			t.Fatalf("expected AddView, got %v", m.view)
		}
		if cmd == nil {
			t.Error("expected focus command")
		}

		typeText(m, "Heat")
		_, cmd = m.Update(keyPress("enter"))
		if m.view != ListView {
			t.Errorf("expected ListView after submit, got %v", m.view)
		}
		run(m, cmd)

		if len(fake.movies) != 1 {
			t.Fatalf("expected movie to be added")
		}
		if len(m.list.Items()) != 1 {
			t.Errorf("expected list to reload, got %d items", len(m.list.Items()))
		}
		if !strings.Contains(m.status, "Added 'Heat'") {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("Add Duplicate", func(t *testing.T) {
		m, _ := newTestModel(t, models.Movie{Title: "Heat", Year: 1995, Rating: 8.3})

		m.Update(keyPress("a"))
		typeText(m, "Heat")
		_, cmd := m.Update(keyPress("enter"))
		run(m, cmd)

		if !strings.Contains(m.status, "already in your collection") {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("Add Unknown Title", func(t *testing.T) {
		m, fake := newTestModel(t)

		m.Update(keyPress("a"))
		typeText(m, "Zzzzqqq")
		_, cmd := m.Update(keyPress("enter"))
		run(m, cmd)

		if len(fake.movies) != 0 {
			t.Errorf("expected nothing stored")
		}
		if !strings.Contains(m.status, "Movie not found!") {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("Cancel Add", func(t *testing.T) {
		m, _ := newTestModel(t)

		m.Update(keyPress("a"))
		m.Update(keyPress("esc"))
		if m.view != ListView {
			t.Errorf("expected ListView, got %v", m.view)
		}
	})

	t.Run("Delete Movie", func(t *testing.T) {
		m, fake := newTestModel(t, models.Movie{Title: "Heat", Year: 1995, Rating: 8.3})

		m.Update(keyPress("d"))
		if m.view != ConfirmDeleteView {
			t.Fatalf("expected ConfirmDeleteView, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Delete 'Heat' (1995)?") {
			t.Errorf("unexpected confirm view %s", m.View())
		}

		_, cmd := m.Update(keyPress("y"))
		run(m, cmd)

		if len(fake.movies) != 0 {
			t.Errorf("expected movie deleted")
		}
		if !strings.Contains(m.status, "Deleted 'Heat'") {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("Decline Delete", func(t *testing.T) {
		m, fake := newTestModel(t, models.Movie{Title: "Heat", Year: 1995, Rating: 8.3})

		m.Update(keyPress("d"))
		m.Update(keyPress("n"))

		if m.view != ListView {
			t.Errorf("expected ListView, got %v", m.view)
		}
		if len(fake.movies) != 1 {
			t.Errorf("expected movie kept")
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m, _ := newTestModel(t)

		_, cmd := m.Update(keyPress("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected tea.QuitMsg")
		}
	})
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", &services.LookupError{Kind: shared.ErrMovieNotFound, Message: "Movie not found!"}, "Movie not found!"},
		{"network", &services.LookupError{Kind: shared.ErrNetwork}, "Could not reach"},
		{"incomplete", &services.LookupError{Kind: shared.ErrIncompleteData}, "Incomplete metadata"},
		{"credentials", shared.ErrMissingCredentials, "OMDB_API_KEY"},
		{"other", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeError("Heat", tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("expected %q in %q", tt.want, got)
			}
		})
	}
}
