package repo

import (
	"context"
	"fmt"

	dom "github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// TranslationRepo stores immutable per-language copies of todos.
// (todo_id, language) is unique; Create reports a duplicate with an error
// matched by utils.IsUniqueViolation.
type TranslationRepo interface {
	Create(ctx context.Context, t dom.Translation) (dom.Translation, error)
	GetByTodoAndLanguage(ctx context.Context, todoID int64, language string) (dom.Translation, error)
	ListByTodoID(ctx context.Context, todoID int64) ([]dom.Translation, error)
	ListByTodoIDs(ctx context.Context, todoIDs []int64) ([]dom.Translation, error)
	DeleteByTodoID(ctx context.Context, todoID int64) (int64, error)
}

const translationsTable = "translations"

var translationColumns = []string{"id", "todo_id", "language", "translated_title", "translated_description", "created_at"}

type SQLTranslationRepo struct {
	db DBTX
	sb sq.StatementBuilderType
}

func (r *SQLTranslationRepo) Create(ctx context.Context, t dom.Translation) (dom.Translation, error) {
	query, args, err := r.sb.Insert(translationsTable).
		Columns("todo_id", "language", "translated_title", "translated_description", "created_at").
		Values(t.TodoID, t.Language, t.TranslatedTitle, t.TranslatedDescription, t.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return dom.Translation{}, err
	}
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return dom.Translation{}, fmt.Errorf("insert translation %q for todo %d: %w", t.Language, t.TodoID, err)
	}
	return r.getByID(ctx, id)
}

func (r *SQLTranslationRepo) getByID(ctx context.Context, id int64) (dom.Translation, error) {
	query, args, err := r.sb.Select(translationColumns...).From(translationsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return dom.Translation{}, err
	}
	var t dom.Translation
	err = sqlx.GetContext(ctx, r.db, &t, query, args...)
	return t, err
}

func (r *SQLTranslationRepo) GetByTodoAndLanguage(ctx context.Context, todoID int64, language string) (dom.Translation, error) {
	query, args, err := r.sb.Select(translationColumns...).From(translationsTable).
		Where(sq.Eq{"todo_id": todoID, "language": language}).
		ToSql()
	if err != nil {
		return dom.Translation{}, err
	}
	var t dom.Translation
	err = sqlx.GetContext(ctx, r.db, &t, query, args...)
	return t, err
}

func (r *SQLTranslationRepo) ListByTodoID(ctx context.Context, todoID int64) ([]dom.Translation, error) {
	return r.ListByTodoIDs(ctx, []int64{todoID})
}

func (r *SQLTranslationRepo) ListByTodoIDs(ctx context.Context, todoIDs []int64) ([]dom.Translation, error) {
	list := []dom.Translation{}
	if len(todoIDs) == 0 {
		return list, nil
	}
	query, args, err := r.sb.Select(translationColumns...).From(translationsTable).
		Where(sq.Eq{"todo_id": todoIDs}).
		OrderBy("todo_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := sqlx.SelectContext(ctx, r.db, &list, query, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SQLTranslationRepo) DeleteByTodoID(ctx context.Context, todoID int64) (int64, error) {
	return deleteByTodoID(ctx, r.db, r.sb, translationsTable, todoID)
}
