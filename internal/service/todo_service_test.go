package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/ai"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/cache"
	dom "github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/domain"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/logging"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/repo"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/repo/repotest"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAI is a deterministic Collaborator.
type stubAI struct {
	generateErr  error
	translateErr error
	suggestions  int
	delay        time.Duration

	generateCalls  atomic.Int32
	translateCalls atomic.Int32
}

func (s *stubAI) GenerateSubtasks(_ context.Context, title, _ string, maxCount int) ([]ai.SubtaskSuggestion, error) {
	s.generateCalls.Add(1)
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	n := s.suggestions
	if n == 0 {
		n = maxCount
	}
	out := make([]ai.SubtaskSuggestion, n)
	for i := range out {
		out[i] = ai.SubtaskSuggestion{Title: fmt.Sprintf("%s step %d", title, i+1)}
		if i%2 == 0 {
			out[i].Description = "do it"
		}
	}
	return out, nil
}

func (s *stubAI) Translate(ctx context.Context, text, lang string) (string, error) {
	s.translateCalls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.translateErr != nil {
		return "", s.translateErr
	}
	return "[" + lang + "] " + text, nil
}

func newTestService(t *testing.T, collab ai.Collaborator) (*TodoService, *repo.SQLStore) {
	t.Helper()
	store := repotest.NewStore(t)
	return NewTodoService(store, collab, nil, logging.Nop()), store
}

func strPtr(s string) *string { return &s }

func TestCreate_Defaults(t *testing.T) {
	svc, _ := newTestService(t, &stubAI{})
	ctx := context.Background()

	got, err := svc.Create(ctx, "  Buy milk  ", strPtr(""))
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Nil(t, got.Description)
	assert.False(t, got.Completed)
	assert.Nil(t, got.UpdatedAt)
	assert.NotNil(t, got.Subtasks)
	assert.Empty(t, got.Subtasks)
	assert.NotNil(t, got.Translations)
	assert.Empty(t, got.Translations)
}

func TestCreate_Validation(t *testing.T) {
	svc, store := newTestService(t, &stubAI{})
	ctx := context.Background()

	for _, title := range []string{"", "   ", strings.Repeat("é", 256)} {
		_, err := svc.Create(ctx, title, nil)
		assert.ErrorIs(t, err, ErrValidation, "title %q", title)
	}
	_, err := svc.Create(ctx, "ok", strPtr(strings.Repeat("x", MaxDescriptionLen+1)))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, strings.Repeat("é", 255), nil)
	assert.NoError(t, err, "255 characters is allowed even when wider in bytes")
	assert.Equal(t, 1, repotest.Count(t, store, "todos"))
}

func TestGetAndList(t *testing.T) {
	svc, _ := newTestService(t, &stubAI{})
	ctx := context.Background()

	a, err := svc.Create(ctx, "a", nil)
	require.NoError(t, err)
	b, err := svc.Create(ctx, "b", strPtr("bee"))
	require.NoError(t, err)
	_, err = svc.GenerateSubtasks(ctx, b.ID, 2)
	require.NoError(t, err)
	_, err = svc.TranslateTodo(ctx, a.ID, "fr")
	require.NoError(t, err)

	list, err := svc.List(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Empty(t, list[0].Subtasks)
	assert.Len(t, list[0].Translations, 1)
	assert.Len(t, list[1].Subtasks, 2)
	assert.Empty(t, list[1].Translations)

	page, err := svc.List(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, page)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)
	assert.Len(t, got.Subtasks, 2)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t, &stubAI{})
	ctx := context.Background()
	todo, err := svc.Create(ctx, "draft", strPtr("notes"))
	require.NoError(t, err)

	done := true
	got, err := svc.Update(ctx, todo.ID, dom.TodoPatch{Title: strPtr(" final "), Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, "notes", *got.Description)
	assert.True(t, got.Completed)
	require.NotNil(t, got.UpdatedAt)

	got, err = svc.Update(ctx, todo.ID, dom.TodoPatch{Description: strPtr("  ")})
	require.NoError(t, err)
	assert.Nil(t, got.Description)

	_, err = svc.Update(ctx, todo.ID, dom.TodoPatch{Title: strPtr("")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, 999, dom.TodoPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestToggle_IsAnInvolution(t *testing.T) {
	svc, _ := newTestService(t, &stubAI{})
	ctx := context.Background()
	todo, err := svc.Create(ctx, "flip", nil)
	require.NoError(t, err)

	once, err := svc.Toggle(ctx, todo.ID)
	require.NoError(t, err)
	assert.True(t, once.Completed)
	require.NotNil(t, once.UpdatedAt)

	twice, err := svc.Toggle(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.Completed, twice.Completed)

	_, err = svc.Toggle(ctx, 999)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestDelete_CascadesChildren(t *testing.T) {
	svc, store := newTestService(t, &stubAI{})
	ctx := context.Background()

	keep, err := svc.Create(ctx, "keep", nil)
	require.NoError(t, err)
	_, err = svc.GenerateSubtasks(ctx, keep.ID, 1)
	require.NoError(t, err)

	todo, err := svc.Create(ctx, "doomed", strPtr("soon"))
	require.NoError(t, err)
	_, err = svc.GenerateSubtasks(ctx, todo.ID, 3)
	require.NoError(t, err)
	for _, lang := range []string{"fr", "de"} {
		_, err = svc.TranslateTodo(ctx, todo.ID, lang)
		require.NoError(t, err)
	}
	require.Equal(t, 4, repotest.Count(t, store, "subtasks"))
	require.Equal(t, 2, repotest.Count(t, store, "translations"))

	require.NoError(t, svc.Delete(ctx, todo.ID))

	assert.Equal(t, 1, repotest.Count(t, store, "todos"))
	assert.Equal(t, 1, repotest.Count(t, store, "subtasks"))
	assert.Equal(t, 0, repotest.Count(t, store, "translations"))

	_, err = svc.Get(ctx, todo.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, todo.ID), ErrTodoNotFound)
}

func TestGenerateSubtasks_AppendsBatches(t *testing.T) {
	stub := &stubAI{}
	svc, store := newTestService(t, stub)
	ctx := context.Background()
	todo, err := svc.Create(ctx, "party", nil)
	require.NoError(t, err)

	for batch := 0; batch < 2; batch++ {
		created, err := svc.GenerateSubtasks(ctx, todo.ID, 5)
		require.NoError(t, err)
		require.Len(t, created, 5)
		for i, st := range created {
			assert.Equal(t, i, st.OrderIndex)
			assert.Equal(t, todo.ID, st.TodoID)
			assert.False(t, st.Completed)
		}
		assert.Equal(t, "do it", *created[0].Description)
		assert.Nil(t, created[1].Description)
	}
	assert.Equal(t, 10, repotest.Count(t, store, "subtasks"))

	list, err := svc.ListSubtasks(ctx, todo.ID)
	require.NoError(t, err)
	require.Len(t, list, 10)
	assert.Equal(t, 0, list[0].OrderIndex)
	assert.Equal(t, 0, list[1].OrderIndex)
	assert.Equal(t, 4, list[9].OrderIndex)
}

func TestGenerateSubtasks_DefaultsAndBounds(t *testing.T) {
	stub := &stubAI{}
	svc, _ := newTestService(t, stub)
	ctx := context.Background()
	todo, err := svc.Create(ctx, "trip", nil)
	require.NoError(t, err)

	created, err := svc.GenerateSubtasks(ctx, todo.ID, 0)
	require.NoError(t, err)
	assert.Len(t, created, ai.DefaultMaxSubtasks)

	for _, n := range []int{-1, 11} {
		_, err = svc.GenerateSubtasks(ctx, todo.ID, n)
		assert.ErrorIs(t, err, ErrValidation)
	}

	stub.suggestions = 8
	created, err = svc.GenerateSubtasks(ctx, todo.ID, 3)
	require.NoError(t, err)
	assert.Len(t, created, 3, "extra suggestions are dropped")
}

func TestGenerateSubtasks_FailurePersistsNothing(t *testing.T) {
	stub := &stubAI{generateErr: fmt.Errorf("%w: boom", ai.ErrGenerationFailed)}
	svc, store := newTestService(t, stub)
	ctx := context.Background()
	todo, err := svc.Create(ctx, "x", nil)
	require.NoError(t, err)

	_, err = svc.GenerateSubtasks(ctx, todo.ID, 5)
	assert.ErrorIs(t, err, ai.ErrGenerationFailed)
	assert.Equal(t, 0, repotest.Count(t, store, "subtasks"))

	_, err = svc.GenerateSubtasks(ctx, 999, 5)
	assert.ErrorIs(t, err, ErrTodoNotFound)
	assert.EqualValues(t, 1, stub.generateCalls.Load(), "missing todo never reaches the model")
}

func TestUpdateSubtask(t *testing.T) {
	svc, _ := newTestService(t, &stubAI{})
	ctx := context.Background()
	todo, err := svc.Create(ctx, "x", nil)
	require.NoError(t, err)
	created, err := svc.GenerateSubtasks(ctx, todo.ID, 2)
	require.NoError(t, err)

	done := true
	got, err := svc.UpdateSubtask(ctx, created[1].ID, dom.SubtaskPatch{Completed: &done, Title: strPtr(" renamed ")})
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, "renamed", got.Title)

	neg := -1
	_, err = svc.UpdateSubtask(ctx, created[1].ID, dom.SubtaskPatch{OrderIndex: &neg})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateSubtask(ctx, 999, dom.SubtaskPatch{Completed: &done})
	assert.ErrorIs(t, err, ErrSubtaskNotFound)

	_, err = svc.ListSubtasks(ctx, 999)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTranslateTodo_IsCachedPerLanguage(t *testing.T) {
	stub := &stubAI{}
	svc, store := newTestService(t, stub)
	ctx := context.Background()
	todo, err := svc.Create(ctx, "Buy milk", strPtr("2 liters"))
	require.NoError(t, err)

	first, err := svc.TranslateTodo(ctx, todo.ID, "fr")
	require.NoError(t, err)
	assert.Equal(t, "[fr] Buy milk", first.TranslatedTitle)
	require.NotNil(t, first.TranslatedDescription)
	assert.Equal(t, "[fr] 2 liters", *first.TranslatedDescription)
	assert.EqualValues(t, 2, stub.translateCalls.Load())

	second, err := svc.TranslateTodo(ctx, todo.ID, " fr ")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 2, stub.translateCalls.Load(), "stored translation is reused")

	// A later edit does not refresh an existing translation.
	_, err = svc.Update(ctx, todo.ID, dom.TodoPatch{Title: strPtr("Buy bread")})
	require.NoError(t, err)
	third, err := svc.TranslateTodo(ctx, todo.ID, "fr")
	require.NoError(t, err)
	assert.Equal(t, first, third)

	list, err := svc.ListTranslations(ctx, todo.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, repotest.Count(t, store, "translations"))
}

func TestTranslateTodo_WithoutDescription(t *testing.T) {
	stub := &stubAI{}
	svc, _ := newTestService(t, stub)
	ctx := context.Background()
	todo, err := svc.Create(ctx, "Hello", nil)
	require.NoError(t, err)

	tr, err := svc.TranslateTodo(ctx, todo.ID, "es")
	require.NoError(t, err)
	assert.Nil(t, tr.TranslatedDescription)
	assert.EqualValues(t, 1, stub.translateCalls.Load())
}

func TestTranslateTodo_ConcurrentRequestsCoalesce(t *testing.T) {
	stub := &stubAI{delay: 50 * time.Millisecond}
	svc, store := newTestService(t, stub)
	ctx := context.Background()
	todo, err := svc.Create(ctx, "Hello", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]dom.Translation, 8)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.TranslateTodo(ctx, todo.ID, "it")
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].ID, results[i].ID)
	}
	assert.Equal(t, 1, repotest.Count(t, store, "translations"))
}

func TestTranslateTodo_CancelledCallerDoesNotFailOthers(t *testing.T) {
	stub := &stubAI{delay: 200 * time.Millisecond}
	svc, store := newTestService(t, stub)
	todo, err := svc.Create(context.Background(), "Hello", nil)
	require.NoError(t, err)

	ctx1, cancel := context.WithCancel(context.Background())
	defer cancel()
	err1 := make(chan error, 1)
	go func() {
		_, err := svc.TranslateTodo(ctx1, todo.ID, "it")
		err1 <- err
	}()
	require.Eventually(t, func() bool { return stub.translateCalls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		tr  dom.Translation
		err error
	}
	second := make(chan result, 1)
	go func() {
		tr, err := svc.TranslateTodo(context.Background(), todo.ID, "it")
		second <- result{tr, err}
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-err1, context.Canceled)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "[it] Hello", res.tr.TranslatedTitle)
	assert.EqualValues(t, 1, stub.translateCalls.Load())
	assert.Equal(t, 1, repotest.Count(t, store, "translations"))
}

func TestTranslateTodo_Failures(t *testing.T) {
	stub := &stubAI{translateErr: fmt.Errorf("%w: provider down", ai.ErrTranslationFailed)}
	svc, store := newTestService(t, stub)
	ctx := context.Background()
	todo, err := svc.Create(ctx, "Hello", strPtr("world"))
	require.NoError(t, err)

	_, err = svc.TranslateTodo(ctx, todo.ID, "fr")
	assert.ErrorIs(t, err, ai.ErrTranslationFailed)
	assert.Equal(t, 0, repotest.Count(t, store, "translations"))

	_, err = svc.TranslateTodo(ctx, todo.ID, "x")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.TranslateTodo(ctx, 999, "fr")
	assert.ErrorIs(t, err, ErrTodoNotFound)

	_, err = svc.ListTranslations(ctx, 999)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

// longTitleAI translates every title into something too long to store.
type longTitleAI struct{ stubAI }

func (l *longTitleAI) Translate(context.Context, string, string) (string, error) {
	return strings.Repeat("a", MaxTranslatedLen+1), nil
}

func TestTranslateTodo_RejectsOversizedTitle(t *testing.T) {
	svc, store := newTestService(t, &longTitleAI{})
	ctx := context.Background()
	todo, err := svc.Create(ctx, "Hello", nil)
	require.NoError(t, err)

	_, err = svc.TranslateTodo(ctx, todo.ID, "fr")
	assert.ErrorIs(t, err, ai.ErrTranslationFailed)
	assert.Equal(t, 0, repotest.Count(t, store, "translations"))
}

func TestTranslateText(t *testing.T) {
	svc, _ := newTestService(t, &stubAI{})
	ctx := context.Background()

	out, err := svc.TranslateText(ctx, "Good morning", "de")
	require.NoError(t, err)
	assert.Equal(t, "[de] Good morning", out)

	_, err = svc.TranslateText(ctx, " ", "de")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.TranslateText(ctx, "hi", strings.Repeat("x", 51))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDisabledCollaborator_KeepsCRUDWorking(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	todo, err := svc.Create(ctx, "no key", nil)
	require.NoError(t, err)

	_, err = svc.GenerateSubtasks(ctx, todo.ID, 3)
	assert.ErrorIs(t, err, ai.ErrGenerationFailed)
	_, err = svc.TranslateTodo(ctx, todo.ID, "fr")
	assert.ErrorIs(t, err, ai.ErrTranslationFailed)
}

func TestCache_ServesReadsAndIsInvalidatedOnWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := repotest.NewStore(t)
	todoCache := cache.NewTodoCache(rdb, time.Minute)
	svc := NewTodoService(store, &stubAI{}, todoCache, logging.Nop())
	ctx := context.Background()

	todo, err := svc.Create(ctx, "cached", nil)
	require.NoError(t, err)
	gen, err := todoCache.Generation(ctx)
	require.NoError(t, err)

	_, err = svc.Get(ctx, todo.ID)
	require.NoError(t, err)
	_, err = svc.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.ItemKey(gen, todo.ID)))
	assert.True(t, mr.Exists(cache.ListKey(gen, 0, 100)))

	// Served from the cache: the row is gone from the store but not from Redis.
	_, err = store.DB().Exec("DELETE FROM todos WHERE id = ?", todo.ID)
	require.NoError(t, err)
	got, err := svc.Get(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Title)

	_, err = svc.Create(ctx, "another", nil)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.ItemKey(gen, todo.ID)))
	assert.False(t, mr.Exists(cache.ListKey(gen, 0, 100)))

	_, err = svc.Get(ctx, todo.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCache_LateFillFromBeforeAWriteIsIgnored(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	todoCache := cache.NewTodoCache(rdb, time.Minute)
	svc := NewTodoService(repotest.NewStore(t), &stubAI{}, todoCache, logging.Nop())
	ctx := context.Background()

	first, err := svc.Create(ctx, "first", nil)
	require.NoError(t, err)

	// A List that read the store before the next Create caches its page late.
	gen, err := todoCache.Generation(ctx)
	require.NoError(t, err)
	stale, err := svc.List(ctx, 0, 100)
	require.NoError(t, err)
	second, err := svc.Create(ctx, "second", nil)
	require.NoError(t, err)
	require.NoError(t, todoCache.SetList(ctx, gen, 0, 100, stale))
	require.NoError(t, todoCache.SetTodo(ctx, gen, stale[0]))

	_, err = svc.Update(ctx, first.ID, dom.TodoPatch{Title: strPtr("renamed")})
	require.NoError(t, err)
	require.NoError(t, todoCache.SetTodo(ctx, gen, stale[0]))

	list, err := svc.List(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[1].ID)

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
}

func TestCache_ErrorsDoNotFailRequests(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	svc := NewTodoService(repotest.NewStore(t), &stubAI{}, cache.NewTodoCache(rdb, time.Minute), logging.Nop())
	ctx := context.Background()
	mr.Close()

	todo, err := svc.Create(ctx, "redis is down", nil)
	require.NoError(t, err)
	got, err := svc.Get(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.ID, got.ID)
	list, err := svc.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestErrorsWrapSentinels(t *testing.T) {
	assert.True(t, errors.Is(ErrTodoNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrSubtaskNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrTodoNotFound, ErrSubtaskNotFound))
}
