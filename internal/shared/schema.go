package shared

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed sql/schema.sql
var schemaSQL string

// EnsureSchema creates the users and movies tables when they are absent.
//
// Every statement is idempotent so this runs on each process start. All statements execute in a single
// transaction; a failure leaves the database untouched and should be treated as fatal by the caller.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := schemaStatements(schemaSQL)
	if len(statements) == 0 {
		return fmt.Errorf("%w: embedded schema is empty", ErrInvalidConfig)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w\nStatement: %s", err, stmt)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}

	return nil
}

// TableExists reports whether a table with the given name is present.
func TableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)", name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to inspect schema: %w", err)
	}
	return exists, nil
}

// schemaStatements splits a SQL script on semicolons, dropping comments and blank statements.
func schemaStatements(script string) []string {
	var statements []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(removeComments(stmt))
		if stmt == "" {
			continue
		}
		statements = append(statements, stmt)
	}
	return statements
}

// removeComments removes SQL comments from a statement.
func removeComments(sql string) string {
	lines := strings.Split(sql, "\n")
	var result []string
	for _, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
