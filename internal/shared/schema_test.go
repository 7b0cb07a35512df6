package shared

import (
	"context"
	"path/filepath"
	"testing"
)

func TestEnsureSchema(t *testing.T) {
	ctx := context.Background()

	t.Run("schemaStatements", func(t *testing.T) {
		statements := schemaStatements(schemaSQL)
		if len(statements) != 3 {
			t.Fatalf("expected 3 statements, got %d", len(statements))
		}

		for _, stmt := range statements {
			if stmt == "" {
				t.Error("expected no empty statements")
			}
		}
	})

	t.Run("removeComments", func(t *testing.T) {
		got := removeComments("-- leading\nSELECT 1 -- trailing\n\n")
		if got != "SELECT 1" {
			t.Errorf("expected 'SELECT 1', got %q", got)
		}
	})

	t.Run("Creates Tables", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := EnsureSchema(ctx, db); err != nil {
			t.Fatalf("failed to ensure schema: %v", err)
		}

		for _, table := range []string{"users", "movies"} {
			exists, err := TableExists(ctx, db, table)
			if err != nil {
				t.Fatalf("failed to check table %s: %v", table, err)
			}
			if !exists {
				t.Errorf("expected table %s to exist", table)
			}
		}
	})

	t.Run("Idempotent Without Data Loss", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.db")
		db, err := NewDatabase(path)
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := EnsureSchema(ctx, db); err != nil {
			t.Fatalf("failed to ensure schema first time: %v", err)
		}

		if _, err := db.Exec("INSERT INTO users (name) VALUES (?)", "Ada"); err != nil {
			t.Fatalf("failed to insert user: %v", err)
		}

		if err := EnsureSchema(ctx, db); err != nil {
			t.Fatalf("failed to ensure schema second time: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
			t.Fatalf("failed to count users: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 user after re-running schema, got %d", count)
		}
	})

	t.Run("Enforces Foreign Keys", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := EnsureSchema(ctx, db); err != nil {
			t.Fatalf("failed to ensure schema: %v", err)
		}

		_, err = db.Exec("INSERT INTO movies (user_id, title, year, rating) VALUES (42, 'Orphan', 2009, 5.5)")
		if err == nil {
			t.Error("expected foreign key violation for unknown user")
		}
	})

	t.Run("Enforces Unique Title Per User", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := EnsureSchema(ctx, db); err != nil {
			t.Fatalf("failed to ensure schema: %v", err)
		}

		if _, err := db.Exec("INSERT INTO users (name) VALUES ('Ada'), ('Grace')"); err != nil {
			t.Fatalf("failed to insert users: %v", err)
		}

		insert := "INSERT INTO movies (user_id, title, year, rating) VALUES (?, 'Alien', 1979, 8.5)"
		if _, err := db.Exec(insert, 1); err != nil {
			t.Fatalf("failed to insert movie: %v", err)
		}
		if _, err := db.Exec(insert, 2); err != nil {
			t.Errorf("same title for a different user should be allowed: %v", err)
		}
		if _, err := db.Exec(insert, 1); err == nil {
			t.Error("expected unique violation for duplicate title")
		}
	})
}
