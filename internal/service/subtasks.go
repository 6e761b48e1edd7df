package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/ai"
	dom "github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/domain"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/repo"
)

// GenerateSubtasks asks the model for up to maxCount subtasks and appends them to
// the todo as a new batch with order_index 0..n-1. maxCount 0 means the default.
// Nothing is stored when the model call fails.
func (s *TodoService) GenerateSubtasks(ctx context.Context, todoID int64, maxCount int) ([]dom.Subtask, error) {
	if maxCount == 0 {
		maxCount = ai.DefaultMaxSubtasks
	}
	if maxCount < 1 || maxCount > ai.MaxSubtasksLimit {
		return nil, invalid("max_subtasks must be between 1 and %d", ai.MaxSubtasksLimit)
	}

	todo, err := s.getTodo(ctx, s.store, todoID)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.ai.GenerateSubtasks(ctx, todo.Title, deref(todo.Description), maxCount)
	if err != nil {
		s.log.Error(ctx, "subtask generation failed", "todo_id", todoID, "err", err)
		return nil, fmt.Errorf("todo %d: %w", todoID, err)
	}
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("todo %d: %w: no subtasks returned", todoID, ai.ErrGenerationFailed)
	}
	if len(suggestions) > maxCount {
		suggestions = suggestions[:maxCount]
	}
	for _, sug := range suggestions {
		if n := utf8.RuneCountInString(sug.Title); n < 1 || n > MaxTitleLen {
			return nil, fmt.Errorf("todo %d: %w: subtask title has %d characters", todoID, ai.ErrGenerationFailed, n)
		}
	}

	created := make([]dom.Subtask, 0, len(suggestions))
	now := s.now()
	err = s.store.InTx(ctx, func(r repo.Repos) error {
		for i, sug := range suggestions {
			st, err := r.Subtasks().Create(ctx, dom.Subtask{
				TodoID:      todoID,
				Title:       sug.Title,
				Description: optional(sug.Description),
				OrderIndex:  i,
				CreatedAt:   now,
			})
			if err != nil {
				return err
			}
			created = append(created, st)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store subtasks for todo %d: %w", todoID, err)
	}

	s.log.Info(ctx, "subtasks generated", "todo_id", todoID, "count", len(created))
	s.invalidateCache(ctx)
	return created, nil
}

// ListSubtasks returns the todo's subtasks by order_index, then id.
func (s *TodoService) ListSubtasks(ctx context.Context, todoID int64) ([]dom.Subtask, error) {
	if _, err := s.getTodo(ctx, s.store, todoID); err != nil {
		return nil, err
	}
	list, err := s.store.Subtasks().ListByTodoID(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("list subtasks of todo %d: %w", todoID, err)
	}
	return list, nil
}

func (s *TodoService) UpdateSubtask(ctx context.Context, id int64, patch dom.SubtaskPatch) (dom.Subtask, error) {
	if patch.Title != nil {
		title, err := cleanTitle(*patch.Title)
		if err != nil {
			return dom.Subtask{}, err
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		desc, err := cleanDescription(*patch.Description)
		if err != nil {
			return dom.Subtask{}, err
		}
		patch.Description = &desc
	}
	if patch.OrderIndex != nil && *patch.OrderIndex < 0 {
		return dom.Subtask{}, invalid("order_index must not be negative")
	}

	st, err := s.store.Subtasks().Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Subtask{}, fmt.Errorf("%w: %d", ErrSubtaskNotFound, id)
		}
		return dom.Subtask{}, fmt.Errorf("update subtask %d: %w", id, err)
	}
	if !patch.Empty() {
		s.invalidateCache(ctx)
	}
	return st, nil
}
