package repo

import (
	"context"
	"fmt"

	dom "github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type SubtaskRepo interface {
	Create(ctx context.Context, s dom.Subtask) (dom.Subtask, error)
	GetByID(ctx context.Context, id int64) (dom.Subtask, error)
	ListByTodoID(ctx context.Context, todoID int64) ([]dom.Subtask, error)
	ListByTodoIDs(ctx context.Context, todoIDs []int64) ([]dom.Subtask, error)
	Update(ctx context.Context, id int64, patch dom.SubtaskPatch) (dom.Subtask, error)
	DeleteByTodoID(ctx context.Context, todoID int64) (int64, error)
}

const subtasksTable = "subtasks"

var subtaskColumns = []string{"id", "todo_id", "title", "description", "completed", "order_index", "created_at"}

type SQLSubtaskRepo struct {
	db DBTX
	sb sq.StatementBuilderType
}

func (r *SQLSubtaskRepo) Create(ctx context.Context, s dom.Subtask) (dom.Subtask, error) {
	query, args, err := r.sb.Insert(subtasksTable).
		Columns("todo_id", "title", "description", "completed", "order_index", "created_at").
		Values(s.TodoID, s.Title, s.Description, s.Completed, s.OrderIndex, s.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return dom.Subtask{}, err
	}
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return dom.Subtask{}, fmt.Errorf("insert subtask for todo %d: %w", s.TodoID, err)
	}
	return r.GetByID(ctx, id)
}

func (r *SQLSubtaskRepo) GetByID(ctx context.Context, id int64) (dom.Subtask, error) {
	query, args, err := r.sb.Select(subtaskColumns...).From(subtasksTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return dom.Subtask{}, err
	}
	var s dom.Subtask
	err = sqlx.GetContext(ctx, r.db, &s, query, args...)
	return s, err
}

// ListByTodoID returns subtasks in display order.
func (r *SQLSubtaskRepo) ListByTodoID(ctx context.Context, todoID int64) ([]dom.Subtask, error) {
	return r.ListByTodoIDs(ctx, []int64{todoID})
}

// ListByTodoIDs loads the subtasks of several todos in one query.
func (r *SQLSubtaskRepo) ListByTodoIDs(ctx context.Context, todoIDs []int64) ([]dom.Subtask, error) {
	list := []dom.Subtask{}
	if len(todoIDs) == 0 {
		return list, nil
	}
	query, args, err := r.sb.Select(subtaskColumns...).From(subtasksTable).
		Where(sq.Eq{"todo_id": todoIDs}).
		OrderBy("todo_id ASC", "order_index ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := sqlx.SelectContext(ctx, r.db, &list, query, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SQLSubtaskRepo) Update(ctx context.Context, id int64, patch dom.SubtaskPatch) (dom.Subtask, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}
	set := map[string]interface{}{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = nullable(*patch.Description)
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}
	if patch.OrderIndex != nil {
		set["order_index"] = *patch.OrderIndex
	}
	if err := execAffected(ctx, r.db, r.sb.Update(subtasksTable).SetMap(set).Where(sq.Eq{"id": id})); err != nil {
		return dom.Subtask{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *SQLSubtaskRepo) DeleteByTodoID(ctx context.Context, todoID int64) (int64, error) {
	return deleteByTodoID(ctx, r.db, r.sb, subtasksTable, todoID)
}

func deleteByTodoID(ctx context.Context, db DBTX, sb sq.StatementBuilderType, table string, todoID int64) (int64, error) {
	query, args, err := sb.Delete(table).Where(sq.Eq{"todo_id": todoID}).ToSql()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s of todo %d: %w", table, todoID, err)
	}
	return res.RowsAffected()
}
