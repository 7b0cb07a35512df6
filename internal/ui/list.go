package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/moviehub/internal/formatter"
	"github.com/desertthunder/moviehub/internal/models"
)

var _ list.Item = movieItem{}

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string {
	desc := fmt.Sprintf("%d • ★ %s", i.movie.Year, formatter.FormatRating(i.movie.Rating))
	if i.movie.IMDbID != nil {
		desc = fmt.Sprintf("%s • %s", desc, *i.movie.IMDbID)
	}
	return desc
}

func movieItems(movies models.Catalog) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
	}
	return items
}
