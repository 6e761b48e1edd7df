package repo

import (
	"context"
	"fmt"
	"time"

	dom "github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// TodoRepo stores todo rows only; children are loaded through their own repos.
// Missing rows surface as sql.ErrNoRows.
type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, id int64) (dom.Todo, error)
	List(ctx context.Context, skip, limit uint64) ([]dom.Todo, error)
	Update(ctx context.Context, id int64, patch dom.TodoPatch, now time.Time) (dom.Todo, error)
	Toggle(ctx context.Context, id int64, now time.Time) (dom.Todo, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

const todosTable = "todos"

var todoColumns = []string{"id", "title", "description", "completed", "created_at", "updated_at"}

type SQLTodoRepo struct {
	db DBTX
	sb sq.StatementBuilderType
}

func (r *SQLTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query, args, err := r.sb.Insert(todosTable).
		Columns("title", "description", "completed", "created_at").
		Values(t.Title, t.Description, t.Completed, t.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return dom.Todo{}, err
	}
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return dom.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *SQLTodoRepo) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	query, args, err := r.sb.Select(todoColumns...).From(todosTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return dom.Todo{}, err
	}
	var t dom.Todo
	err = sqlx.GetContext(ctx, r.db, &t, query, args...)
	return t, err
}

// List returns todos in insertion order.
func (r *SQLTodoRepo) List(ctx context.Context, skip, limit uint64) ([]dom.Todo, error) {
	query, args, err := r.sb.Select(todoColumns...).From(todosTable).
		OrderBy("id ASC").
		Limit(limit).
		Offset(skip).
		ToSql()
	if err != nil {
		return nil, err
	}
	list := []dom.Todo{}
	if err := sqlx.SelectContext(ctx, r.db, &list, query, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SQLTodoRepo) Update(ctx context.Context, id int64, patch dom.TodoPatch, now time.Time) (dom.Todo, error) {
	set := map[string]interface{}{"updated_at": now}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = nullable(*patch.Description)
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}
	return r.updateAndGet(ctx, id, r.sb.Update(todosTable).SetMap(set).Where(sq.Eq{"id": id}))
}

func (r *SQLTodoRepo) Toggle(ctx context.Context, id int64, now time.Time) (dom.Todo, error) {
	return r.updateAndGet(ctx, id, r.sb.Update(todosTable).
		Set("completed", sq.Expr("NOT completed")).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}))
}

func (r *SQLTodoRepo) updateAndGet(ctx context.Context, id int64, b sq.UpdateBuilder) (dom.Todo, error) {
	if err := execAffected(ctx, r.db, b); err != nil {
		return dom.Todo{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *SQLTodoRepo) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := r.sb.Delete(todosTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete todo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
