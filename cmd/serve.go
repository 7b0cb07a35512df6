package main

import (
	"context"

	"github.com/desertthunder/moviehub/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	srv := server.New(server.Opts{
		Catalog:    r.catalog,
		DB:         r.db,
		Logger:     r.logger,
		SiteTitle:  r.config.Site.Title,
		Middleware: r.telemetry.Middleware(),
	})

	return srv.ListenAndServe(ctx, addr)
}
