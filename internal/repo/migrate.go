package repo

import (
	"context"
	"embed"
	"fmt"
	"path"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/logging"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migration commands accepted by Migrate.
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
)

// gooseLogger routes goose output through our structured logger.
type gooseLogger struct {
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info(context.Background(), fmt.Sprintf(format, v...), "component", "migrations")
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	// goose only calls Fatalf from its CLI helpers; never exit the server from here.
	g.log.Error(context.Background(), fmt.Sprintf(format, v...), "component", "migrations")
}

// Migrate runs a goose command (up, down, status) with the embedded
// migrations for the store's dialect.
func (s *SQLStore) Migrate(ctx context.Context, command string, log logging.Logger) error {
	if log == nil {
		log = logging.Nop()
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect(s.dialect.gooseDialect()); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	dir := path.Join("migrations", string(s.dialect))
	var err error
	switch command {
	case MigrateUp:
		err = goose.UpContext(ctx, s.db.DB, dir)
	case MigrateDown:
		err = goose.DownContext(ctx, s.db.DB, dir)
	case MigrateStatus:
		err = goose.StatusContext(ctx, s.db.DB, dir)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
