package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/ai"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/cache"
	dom "github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/domain"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/logging"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/repo"

	"golang.org/x/sync/singleflight"
)

type TodoService struct {
	store repo.Store
	ai    ai.Collaborator
	cache *cache.TodoCache
	log   logging.Logger

	reads        singleflight.Group
	translations singleflight.Group
	now          func() time.Time
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(store repo.Store, collab ai.Collaborator, c *cache.TodoCache, log logging.Logger) *TodoService {
	if log == nil {
		log = logging.Nop()
	}
	if collab == nil {
		collab = ai.Disabled{}
	}
	return &TodoService{
		store: store,
		ai:    collab,
		cache: c,
		log:   log.With("component", "todo_service"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// List returns a page of todos in insertion order with their relations.
func (s *TodoService) List(ctx context.Context, skip, limit uint64) ([]dom.TodoWithRelations, error) {
	gen, cached := s.cacheGeneration(ctx)
	if cached {
		if list, ok, err := s.cache.GetList(ctx, gen, skip, limit); err != nil {
			s.log.Warn(ctx, "cache read failed", "op", "list", "err", err)
		} else if ok {
			return list, nil
		}
	}

	v, _, err := coalesce(ctx, &s.reads, cache.ListKey(gen, skip, limit), func(ctx context.Context) (interface{}, error) {
		todos, err := s.store.Todos().List(ctx, skip, limit)
		if err != nil {
			return nil, fmt.Errorf("list todos: %w", err)
		}
		list, err := withRelations(ctx, s.store, todos)
		if err != nil {
			return nil, err
		}
		if cached {
			if err := s.cache.SetList(ctx, gen, skip, limit, list); err != nil {
				s.log.Warn(ctx, "cache write failed", "op", "list", "err", err)
			}
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.TodoWithRelations), nil
}

func (s *TodoService) Get(ctx context.Context, id int64) (dom.TodoWithRelations, error) {
	gen, cached := s.cacheGeneration(ctx)
	if cached {
		if t, ok, err := s.cache.GetTodo(ctx, gen, id); err != nil {
			s.log.Warn(ctx, "cache read failed", "op", "get", "id", id, "err", err)
		} else if ok {
			return t, nil
		}
	}

	v, _, err := coalesce(ctx, &s.reads, cache.ItemKey(gen, id), func(ctx context.Context) (interface{}, error) {
		todo, err := s.getTodo(ctx, s.store, id)
		if err != nil {
			return nil, err
		}
		list, err := withRelations(ctx, s.store, []dom.Todo{todo})
		if err != nil {
			return nil, err
		}
		if cached {
			if err := s.cache.SetTodo(ctx, gen, list[0]); err != nil {
				s.log.Warn(ctx, "cache write failed", "op", "get", "id", id, "err", err)
			}
		}
		return list[0], nil
	})
	if err != nil {
		return dom.TodoWithRelations{}, err
	}
	return v.(dom.TodoWithRelations), nil
}

func (s *TodoService) Create(ctx context.Context, title string, description *string) (dom.TodoWithRelations, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return dom.TodoWithRelations{}, err
	}
	desc, err := cleanDescription(deref(description))
	if err != nil {
		return dom.TodoWithRelations{}, err
	}

	t, err := s.store.Todos().Create(ctx, dom.Todo{
		Title:       title,
		Description: optional(desc),
		CreatedAt:   s.now(),
	})
	if err != nil {
		return dom.TodoWithRelations{}, fmt.Errorf("create todo: %w", err)
	}
	s.invalidateCache(ctx)
	return dom.TodoWithRelations{Todo: t, Subtasks: []dom.Subtask{}, Translations: []dom.Translation{}}, nil
}

// Update applies the non-nil fields of patch and refreshes updated_at.
func (s *TodoService) Update(ctx context.Context, id int64, patch dom.TodoPatch) (dom.TodoWithRelations, error) {
	if patch.Title != nil {
		title, err := cleanTitle(*patch.Title)
		if err != nil {
			return dom.TodoWithRelations{}, err
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		desc, err := cleanDescription(*patch.Description)
		if err != nil {
			return dom.TodoWithRelations{}, err
		}
		patch.Description = &desc
	}

	t, err := s.store.Todos().Update(ctx, id, patch, s.now())
	if err != nil {
		return dom.TodoWithRelations{}, todoErr(id, err)
	}
	s.invalidateCache(ctx)
	return s.relationsOf(ctx, t)
}

func (s *TodoService) Toggle(ctx context.Context, id int64) (dom.TodoWithRelations, error) {
	t, err := s.store.Todos().Toggle(ctx, id, s.now())
	if err != nil {
		return dom.TodoWithRelations{}, todoErr(id, err)
	}
	s.invalidateCache(ctx)
	return s.relationsOf(ctx, t)
}

// Delete removes the todo and all of its subtasks and translations in one
// transaction.
func (s *TodoService) Delete(ctx context.Context, id int64) error {
	var subtasks, translations int64
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		var err error
		if subtasks, err = r.Subtasks().DeleteByTodoID(ctx, id); err != nil {
			return err
		}
		if translations, err = r.Translations().DeleteByTodoID(ctx, id); err != nil {
			return err
		}
		found, err := r.Todos().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %d", ErrTodoNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "todo deleted", "id", id, "subtasks", subtasks, "translations", translations)
	s.invalidateCache(ctx)
	return nil
}

// Ping checks that the store is reachable.
func (s *TodoService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *TodoService) getTodo(ctx context.Context, r repo.Repos, id int64) (dom.Todo, error) {
	t, err := r.Todos().GetByID(ctx, id)
	if err != nil {
		return dom.Todo{}, todoErr(id, err)
	}
	return t, nil
}

func (s *TodoService) relationsOf(ctx context.Context, t dom.Todo) (dom.TodoWithRelations, error) {
	list, err := withRelations(ctx, s.store, []dom.Todo{t})
	if err != nil {
		return dom.TodoWithRelations{}, err
	}
	return list[0], nil
}

// withRelations attaches subtasks and translations using one query per
// child table.
func withRelations(ctx context.Context, r repo.Repos, todos []dom.Todo) ([]dom.TodoWithRelations, error) {
	out := make([]dom.TodoWithRelations, len(todos))
	if len(todos) == 0 {
		return out, nil
	}

	ids := make([]int64, len(todos))
	index := make(map[int64]int, len(todos))
	for i, t := range todos {
		ids[i] = t.ID
		index[t.ID] = i
		out[i] = dom.TodoWithRelations{Todo: t, Subtasks: []dom.Subtask{}, Translations: []dom.Translation{}}
	}

	subtasks, err := r.Subtasks().ListByTodoIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load subtasks: %w", err)
	}
	for _, st := range subtasks {
		i := index[st.TodoID]
		out[i].Subtasks = append(out[i].Subtasks, st)
	}

	translations, err := r.Translations().ListByTodoIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	for _, tr := range translations {
		i := index[tr.TodoID]
		out[i].Translations = append(out[i].Translations, tr)
	}
	return out, nil
}

// cacheGeneration must be read before the store so a concurrent write
// invalidates whatever this read later caches.
func (s *TodoService) cacheGeneration(ctx context.Context) (uint64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.Warn(ctx, "cache read failed", "op", "generation", "err", err)
		return 0, false
	}
	return gen, true
}

// coalesce runs fn once for all concurrent callers of key. fn does not
// inherit the cancellation of whichever caller started it, while each
// caller still stops waiting when its own ctx is done.
func coalesce(ctx context.Context, g *singleflight.Group, key string, fn func(context.Context) (interface{}, error)) (interface{}, bool, error) {
	ch := g.DoChan(key, func() (interface{}, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	}
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.log.Warn(ctx, "cache invalidation failed", "err", err)
	}
}

func todoErr(id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", ErrTodoNotFound, id)
	}
	return fmt.Errorf("todo %d: %w", id, err)
}
