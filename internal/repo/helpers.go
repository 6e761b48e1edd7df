package repo

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
)

// execAffected runs an UPDATE and reports sql.ErrNoRows when nothing matched.
func execAffected(ctx context.Context, db DBTX, b sq.UpdateBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// nullable stores an empty string as NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
