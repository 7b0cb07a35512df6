package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/moviehub/internal/catalog"
	"github.com/desertthunder/moviehub/internal/formatter"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/repositories"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/desertthunder/moviehub/internal/ui"
	"github.com/urfave/cli/v3"
)

const histogramWidth = 40

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

// MoviesList lists the user's movies, optionally searched, filtered and sorted.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	session, err := r.session(ctx, cmd, false)
	if err != nil {
		return err
	}

	movies, err := r.catalog.ListMovies(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to list movies: %w", err)
	}

	if term := cmd.String("search"); term != "" {
		if movies, err = catalog.Search(movies, term); err != nil {
			return err
		}
	}

	var criteria catalog.Criteria
	if cmd.IsSet("min-rating") {
		v := cmd.Float("min-rating")
		criteria.MinRating = &v
	}
	if cmd.IsSet("start-year") {
		v := cmd.Int("start-year")
		criteria.StartYear = &v
	}
	if cmd.IsSet("end-year") {
		v := cmd.Int("end-year")
		criteria.EndYear = &v
	}
	movies = catalog.Filter(movies, criteria)

	if movies, err = sortMovies(movies, cmd.String("sort")); err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	r.writePlain("%d movies in total\n", len(movies))
	for _, m := range movies {
		r.writePlain("%s\n", formatter.FormatLine(m))
	}
	return nil
}

func sortMovies(movies models.Catalog, by string) (models.Catalog, error) {
	switch strings.ToLower(by) {
	case "", "title":
		return movies, nil
	case "rating":
		return catalog.SortByRating(movies), nil
	case "year":
		return catalog.SortByYear(movies, true), nil
	case "year-asc":
		return catalog.SortByYear(movies, false), nil
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", shared.ErrInvalidArgument, by)
	}
}

// MoviesAdd looks up a title and stores it in the user's catalog, creating the user on first use.
func (r *Runner) MoviesAdd(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.StringArg("title"))
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	session, err := r.session(ctx, cmd, true)
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "request_id", shared.GenerateID(), "user", session.UserName)
	logger.Debug("adding movie", "query", title)

	result, err := r.catalog.AddMovie(ctx, session, title)
	if err != nil {
		logger.Debug("add failed", "query", title, "error", err)
		return describeAddError(title, err)
	}

	m := result.Movie
	switch result.Status {
	case repositories.StatusDuplicate:
		r.writePlain("%s\n", ui.Styles().Warn(fmt.Sprintf("Movie '%s' already exists in %s's collection.", m.Title, session.UserName)))
	default:
		r.writePlain("%s\n", ui.Styles().OK(fmt.Sprintf("✓ Movie '%s' (%d) added with rating %s", m.Title, m.Year, formatter.FormatRating(m.Rating))))
	}
	return nil
}

func describeAddError(title string, err error) error {
	switch {
	case errors.Is(err, shared.ErrMovieNotFound):
		return fmt.Errorf("no match for '%s': %w", title, err)
	case errors.Is(err, shared.ErrNetwork):
		return fmt.Errorf("could not reach OMDb, check your connection: %w", err)
	default:
		return err
	}
}

// MoviesDelete removes a title from the user's catalog.
func (r *Runner) MoviesDelete(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.StringArg("title"))
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	session, err := r.session(ctx, cmd, false)
	if err != nil {
		return err
	}

	found, err := r.catalog.DeleteMovie(ctx, session, title)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: '%s' is not in %s's collection", shared.ErrMovieNotFound, title, session.UserName)
	}

	r.writePlain("%s\n", ui.Styles().OK(fmt.Sprintf("✓ Movie '%s' deleted", title)))
	return nil
}

// MoviesUpdate sets the year and rating of a title in the user's catalog.
func (r *Runner) MoviesUpdate(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.StringArg("title"))
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	year := cmd.Int("year")
	rating := cmd.Float("rating")
	if err := models.ValidateRating(rating); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	session, err := r.session(ctx, cmd, false)
	if err != nil {
		return err
	}

	found, err := r.catalog.UpdateMovie(ctx, session, title, year, rating)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: '%s' is not in %s's collection", shared.ErrMovieNotFound, title, session.UserName)
	}

	r.writePlain("%s\n", ui.Styles().OK(fmt.Sprintf("✓ Movie '%s' updated to %d, rated %s", title, year, formatter.FormatRating(rating))))
	return nil
}

// MoviesStats prints rating statistics for the user's catalog.
func (r *Runner) MoviesStats(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.listMovies(ctx, cmd)
	if err != nil {
		return err
	}

	summary, err := catalog.Summarize(movies)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(summary, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Statistics")
	r.writePlain("Movies: %d\n", summary.Count)
	r.writePlain("Average rating: %.2f\n", summary.Average)
	r.writePlain("Median rating: %.2f\n", summary.Median)
	for _, m := range summary.Best {
		r.writePlain("Best movie: %s\n", formatter.FormatLine(m))
	}
	for _, m := range summary.Worst {
		r.writePlain("Worst movie: %s\n", formatter.FormatLine(m))
	}
	return nil
}

// MoviesRandom prints one movie picked at random.
func (r *Runner) MoviesRandom(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.listMovies(ctx, cmd)
	if err != nil {
		return err
	}

	m, err := catalog.Random(movies, r.rng)
	if err != nil {
		return err
	}

	r.writePlain("Your movie for tonight: %s, it's rated %s\n", m.Title, formatter.FormatRating(m.Rating))
	return nil
}

// MoviesSearch prints movies whose title contains the term.
func (r *Runner) MoviesSearch(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.listMovies(ctx, cmd)
	if err != nil {
		return err
	}

	found, err := catalog.Search(movies, cmd.StringArg("term"))
	if err != nil {
		return err
	}

	if len(found) == 0 {
		r.writePlain("No movies match '%s'\n", cmd.StringArg("term"))
		return nil
	}
	for _, m := range found {
		r.writePlain("%s\n", formatter.FormatLine(m))
	}
	return nil
}

// MoviesHistogram prints a bar chart of ratings.
func (r *Runner) MoviesHistogram(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.listMovies(ctx, cmd)
	if err != nil {
		return err
	}

	bins, err := catalog.Histogram(movies, cmd.Int("bins"))
	if err != nil {
		return err
	}

	largest := 0
	for _, b := range bins {
		largest = max(largest, b.Count)
	}

	r.writePlainHeader("Ratings")
	for _, b := range bins {
		width := 0
		if largest > 0 {
			width = b.Count * histogramWidth / largest
		}
		r.writePlain("%-9s │%s %d\n", b.Label(), barStyle.Render(strings.Repeat("█", width)), b.Count)
	}
	return nil
}

func (r *Runner) listMovies(ctx context.Context, cmd *cli.Command) (models.Catalog, error) {
	session, err := r.session(ctx, cmd, false)
	if err != nil {
		return nil, err
	}

	movies, err := r.catalog.ListMovies(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}
