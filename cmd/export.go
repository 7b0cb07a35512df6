package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/moviehub/internal/formatter"
	"github.com/desertthunder/moviehub/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes the user's catalog to a file in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		return r.exportAll(ctx, cmd, format)
	}

	session, err := r.session(ctx, cmd, false)
	if err != nil {
		return err
	}

	movies, err := r.catalog.ListMovies(ctx, session)
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(format, session, movies, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("catalog exported", "user", session.UserName, "format", format, "movies", len(movies), "path", path)
	r.writePlain("✓ Exported %d movies to %s\n", len(movies), path)
	return nil
}

// exportAll writes every user's catalog into one directory, printing progress as users finish.
func (r *Runner) exportAll(ctx context.Context, cmd *cli.Command, format formatter.Format) error {
	engine := tasks.NewEngine(r.catalog, r.logger)
	progress := make(chan tasks.ProgressUpdate, 16)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.BulkExport(ctx, progress, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		Site:       cmd.Bool("site"),
		SiteTitle:  r.config.Site.Title,
	})
	close(progress)
	wg.Wait()
	if err != nil {
		return err
	}

	r.logger.Info("bulk export finished",
		"users", result.TotalUsers, "failed", result.FailedExports, "dir", result.OutputDirectory)
	r.writePlain("✓ Exported %d of %d catalogs to %s\n", result.SuccessfulExports, result.TotalUsers, result.OutputDirectory)
	if result.FailedExports > 0 {
		return fmt.Errorf("%d of %d catalog exports failed", result.FailedExports, result.TotalUsers)
	}
	return nil
}
