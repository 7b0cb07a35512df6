package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/urfave/cli/v3"
)

// UsersList lists every user.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	users, err := r.catalog.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, true)
	}

	if len(users) == 0 {
		r.writePlain("No users yet. Run 'moviehub users add <name>' to create one.\n")
		return nil
	}

	r.writePlain("Found %d users:\n\n", len(users))
	for i, u := range users {
		count, err := r.catalog.CountMovies(ctx, models.NewSession(u))
		if err != nil {
			return err
		}
		r.writePlain("%d. %s (%d movies)\n", i+1, u.Name, count)
	}
	return nil
}

// UsersAdd creates a user, succeeding quietly when the user already exists.
func (r *Runner) UsersAdd(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}

	id, err := r.catalog.CreateUser(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("user ready", "id", id, "name", name)
	r.writePlain("✓ User '%s' is ready (id %d)\n", name, id)
	return nil
}
