// Package repotest provides a migrated SQLite store for tests.
package repotest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/logging"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/repo"
)

// NewStore creates a SQLite store in a temp dir with all migrations applied.
// It is closed automatically when the test completes.
func NewStore(t *testing.T) *repo.SQLStore {
	t.Helper()

	ctx := context.Background()
	s, err := repo.OpenSQLite(ctx, filepath.Join(t.TempDir(), "todo_test.db"))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	if err := s.Migrate(ctx, repo.MigrateUp, logging.Nop()); err != nil {
		t.Fatalf("migrating test store: %v", err)
	}
	return s
}

// Count returns the number of rows in table.
func Count(t *testing.T, s *repo.SQLStore, table string) int {
	t.Helper()
	var n int
	if err := s.DB().Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}
