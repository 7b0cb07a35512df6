package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/repositories"
	"github.com/desertthunder/moviehub/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	AddView
	ConfirmDeleteView
)

// Catalog is the subset of [repositories.CatalogRepository] the TUI uses.
type Catalog interface {
	ListMovies(ctx context.Context, s models.Session) (models.Catalog, error)
	AddMovie(ctx context.Context, s models.Session, title string) (*repositories.AddResult, error)
	DeleteMovie(ctx context.Context, s models.Session, title string) (bool, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	catalog  Catalog
	session  models.Session
	width    int
	height   int
	list     list.Model
	input    textinput.Model
	selected *models.Movie
	busy     bool
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a TUI model for the session user's catalog.
func NewModel(ctx context.Context, catalog Catalog, session models.Session) *Model {
	input := textinput.New()
	input.Placeholder = "Movie title"
	input.CharLimit = 200
	input.Prompt = "› "

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("%s's Movies", session.UserName)
	l.SetShowHelp(false)

	return &Model{
		ctx:     ctx,
		view:    ListView,
		catalog: catalog,
		session: session,
		list:    l,
		input:   input,
		busy:    true,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init loads the user's catalog.
func (m *Model) Init() tea.Cmd {
	return m.loadMovies()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		m.input.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case AddView:
			return m.handleAddKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateActive(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgMoviesLoaded:
		data := msg.data.(moviesLoaded)
		m.busy = false
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		return m, m.list.SetItems(movieItems(data.movies))

	case MsgMovieAdded:
		data := msg.data.(movieAdded)
		m.busy = false
		if data.err != nil {
			m.status = styles.Err(describeError(data.query, data.err))
			return m, nil
		}
		if data.result.Status == repositories.StatusDuplicate {
			m.status = styles.Warn(fmt.Sprintf("'%s' is already in your collection.", data.result.Movie.Title))
			return m, nil
		}
		m.status = styles.OK(fmt.Sprintf("✓ Added '%s' (%d)", data.result.Movie.Title, data.result.Movie.Year))
		return m, m.loadMovies()

	case MsgMovieDeleted:
		data := msg.data.(movieDeleted)
		m.busy = false
		switch {
		case data.err != nil:
			m.status = styles.Err(fmt.Sprintf("Failed to delete '%s': %v", data.title, data.err))
			return m, nil
		case !data.found:
			m.status = styles.Warn(fmt.Sprintf("'%s' is no longer in your collection.", data.title))
		default:
			m.status = styles.OK(fmt.Sprintf("✓ Deleted '%s'", data.title))
		}
		return m, m.loadMovies()
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.Err(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ListView:
		return m.renderList()
	case AddView:
		return m.renderAdd()
	case ConfirmDeleteView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		return m.updateActive(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.add):
		m.view = AddView
		m.status = ""
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.list.SelectedItem().(movieItem); ok {
			movie := item.movie
			m.selected = &movie
			m.view = ConfirmDeleteView
		}
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.busy = true
		return m, m.loadMovies()
	}

	return m.updateActive(msg)
}

func (m *Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ListView
		m.input.Blur()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		if title == "" || m.busy {
			return m, nil
		}
		m.busy = true
		m.view = ListView
		m.input.Blur()
		m.status = styles.Help(fmt.Sprintf("Looking up '%s'...", title))
		return m, m.addMovie(title)
	}

	return m.updateActive(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.yes):
		title := m.selected.Title
		m.selected = nil
		m.view = ListView
		m.busy = true
		return m, m.deleteMovie(title)
	case key.Matches(msg, m.keys.no), msg.String() == "q":
		m.selected = nil
		m.view = ListView
		return m, nil
	}
	return m, nil
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ListView:
		m.list, cmd = m.list.Update(msg)
	case AddView:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadMovies() tea.Cmd {
	return func() tea.Msg {
		movies, err := m.catalog.ListMovies(m.ctx, m.session)
		return moviesLoadedMsg(movies, err)
	}
}

func (m *Model) addMovie(title string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.catalog.AddMovie(m.ctx, m.session, title)
		return movieAddedMsg(title, result, err)
	}
}

func (m *Model) deleteMovie(title string) tea.Cmd {
	return func() tea.Msg {
		found, err := m.catalog.DeleteMovie(m.ctx, m.session, title)
		return movieDeletedMsg(title, found, err)
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.add, m.keys.remove, m.keys.refresh, m.keys.quit}
	out := m.list.View()
	if len(m.list.Items()) == 0 && !m.busy {
		out = fmt.Sprintf("%s\n\n%s", styles.Title(m.list.Title), styles.Help("Your movie collection is empty. Press a to add one."))
	}
	if m.status != "" {
		out = fmt.Sprintf("%s\n%s", out, m.status)
	}
	return fmt.Sprintf("%s\n\n%s", out, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderAdd() string {
	title := styles.Title("Add a movie")
	helpKeys := []key.Binding{m.keys.enter, m.keys.back}
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.input.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	if m.selected == nil {
		return ""
	}
	title := styles.Title(fmt.Sprintf("Delete '%s' (%d)?", m.selected.Title, m.selected.Year))
	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s", title, m.help.ShortHelpView(helpKeys))
}

// describeError turns an add failure into a one-line message.
func describeError(query string, err error) string {
	switch {
	case errors.Is(err, shared.ErrMovieNotFound):
		return fmt.Sprintf("No match for '%s': %v", query, err)
	case errors.Is(err, shared.ErrNetwork):
		return "Could not reach the metadata service. Check your connection and try again."
	case errors.Is(err, shared.ErrIncompleteData):
		return fmt.Sprintf("Incomplete metadata for '%s'.", query)
	case errors.Is(err, shared.ErrMissingCredentials):
		return "No OMDb API key configured. Set OMDB_API_KEY."
	default:
		return fmt.Sprintf("Failed to add '%s': %v", query, err)
	}
}
