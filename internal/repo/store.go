package repo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// DBTX is what the repositories need; both *sqlx.DB and *sqlx.Tx satisfy it.
type DBTX interface {
	sqlx.ExtContext
}

var (
	_ DBTX = (*sqlx.DB)(nil)
	_ DBTX = (*sqlx.Tx)(nil)
)

// Repos hands out repositories bound to one connection or transaction.
type Repos interface {
	Todos() TodoRepo
	Subtasks() SubtaskRepo
	Translations() TranslationRepo
}

// Store is the persistence entry point used by the service layer.
type Store interface {
	Repos
	// InTx runs fn against transaction-bound repositories. The transaction
	// commits when fn returns nil and rolls back on error or panic.
	InTx(ctx context.Context, fn func(r Repos) error) error
	Ping(ctx context.Context) error
	Close() error
}

// SQLStore implements Store on top of sqlx for Postgres and SQLite.
type SQLStore struct {
	db      *sqlx.DB
	dialect Dialect
	onClose func()
	Repos
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore wraps an open connection. The dialect decides placeholders.
func NewSQLStore(db *sqlx.DB, d Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: d, Repos: bind(db, d)}
}

// DB exposes the underlying handle (migrations, tests).
func (s *SQLStore) DB() *sqlx.DB { return s.db }

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	err := s.db.Close()
	if s.onClose != nil {
		s.onClose()
	}
	return err
}

func (s *SQLStore) InTx(ctx context.Context, fn func(r Repos) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	return fn(bind(tx, s.dialect))
}

type queries struct {
	db DBTX
	sb sq.StatementBuilderType
}

func bind(db DBTX, d Dialect) *queries {
	return &queries{db: db, sb: sq.StatementBuilder.PlaceholderFormat(d.placeholder())}
}

func (q *queries) Todos() TodoRepo {
	return &SQLTodoRepo{db: q.db, sb: q.sb}
}

func (q *queries) Subtasks() SubtaskRepo {
	return &SQLSubtaskRepo{db: q.db, sb: q.sb}
}

func (q *queries) Translations() TranslationRepo {
	return &SQLTranslationRepo{db: q.db, sb: q.sb}
}
