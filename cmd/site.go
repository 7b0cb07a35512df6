package main

import (
	"context"

	"github.com/desertthunder/moviehub/internal/formatter"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/urfave/cli/v3"
)

// Site writes the user's catalog page to the static directory.
func (r *Runner) Site(ctx context.Context, cmd *cli.Command) error {
	session, err := r.session(ctx, cmd, false)
	if err != nil {
		return err
	}

	movies, err := r.catalog.ListMovies(ctx, session)
	if err != nil {
		return err
	}

	dir := cmd.String("dir")
	if dir == "" {
		dir = r.config.Site.StaticDir
	}

	path, err := formatter.WriteSite(dir, r.config.Site.Title, session, movies)
	if err != nil {
		return err
	}

	r.logger.Info("website generated", "user", session.UserName, "path", path)
	r.writePlain("✓ Website was generated successfully: %s\n", path)

	if cmd.Bool("open") {
		return shared.OpenInBrowser(path)
	}
	return nil
}
