package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/repositories"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgMoviesLoaded MsgKind = iota
	MsgMovieAdded
	MsgMovieDeleted
)

type moviesLoaded struct {
	movies models.Catalog
	err    error
}

type movieAdded struct {
	query  string
	result *repositories.AddResult
	err    error
}

type movieDeleted struct {
	title string
	found bool
	err   error
}

// moviesLoadedMsg is the constructor for [MsgMoviesLoaded]
func moviesLoadedMsg(movies models.Catalog, err error) Msg {
	return Msg{kind: MsgMoviesLoaded, data: moviesLoaded{movies, err}}
}

// movieAddedMsg is the constructor for [MsgMovieAdded]
func movieAddedMsg(query string, result *repositories.AddResult, err error) Msg {
	return Msg{kind: MsgMovieAdded, data: movieAdded{query, result, err}}
}

// movieDeletedMsg is the constructor for [MsgMovieDeleted]
func movieDeletedMsg(title string, found bool, err error) Msg {
	return Msg{kind: MsgMovieDeleted, data: movieDeleted{title, found, err}}
}
