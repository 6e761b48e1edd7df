package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/ai"
	dom "github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/domain"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/utils"

	"golang.org/x/sync/errgroup"
)

// TranslateTodo returns the stored translation of the todo for language,
// creating it on first request. Stored translations are never refreshed.
func (s *TodoService) TranslateTodo(ctx context.Context, todoID int64, language string) (dom.Translation, error) {
	language, err := cleanLanguage(language)
	if err != nil {
		return dom.Translation{}, err
	}
	todo, err := s.getTodo(ctx, s.store, todoID)
	if err != nil {
		return dom.Translation{}, err
	}

	if tr, ok, err := s.storedTranslation(ctx, todoID, language); err != nil || ok {
		return tr, err
	}

	key := strconv.FormatInt(todoID, 10) + "\x00" + language
	v, shared, err := coalesce(ctx, &s.translations, key, func(ctx context.Context) (interface{}, error) {
		if tr, ok, err := s.storedTranslation(ctx, todoID, language); err != nil || ok {
			return tr, err
		}
		return s.createTranslation(ctx, todo, language)
	})
	if err != nil {
		return dom.Translation{}, err
	}
	if shared {
		s.log.Debug(ctx, "translation request coalesced", "todo_id", todoID, "language", language)
	}
	return v.(dom.Translation), nil
}

func (s *TodoService) storedTranslation(ctx context.Context, todoID int64, language string) (dom.Translation, bool, error) {
	tr, err := s.store.Translations().GetByTodoAndLanguage(ctx, todoID, language)
	if errors.Is(err, sql.ErrNoRows) {
		return dom.Translation{}, false, nil
	}
	if err != nil {
		return dom.Translation{}, false, fmt.Errorf("load translation %q of todo %d: %w", language, todoID, err)
	}
	return tr, true, nil
}

func (s *TodoService) createTranslation(ctx context.Context, todo dom.Todo, language string) (dom.Translation, error) {
	var title, description string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		title, err = s.ai.Translate(gctx, todo.Title, language)
		return err
	})
	if todo.Description != nil && *todo.Description != "" {
		g.Go(func() error {
			var err error
			description, err = s.ai.Translate(gctx, *todo.Description, language)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error(ctx, "translation failed", "todo_id", todo.ID, "language", language, "err", err)
		return dom.Translation{}, fmt.Errorf("todo %d: %w", todo.ID, err)
	}

	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n < 1 || n > MaxTranslatedLen {
		return dom.Translation{}, fmt.Errorf("todo %d: %w: translated title has %d characters", todo.ID, ai.ErrTranslationFailed, n)
	}

	tr, err := s.store.Translations().Create(ctx, dom.Translation{
		TodoID:                todo.ID,
		Language:              language,
		TranslatedTitle:       title,
		TranslatedDescription: optional(strings.TrimSpace(description)),
		CreatedAt:             s.now(),
	})
	if err != nil {
		// Another instance stored it first; keep theirs.
		if utils.IsUniqueViolation(err) {
			existing, ok, gerr := s.storedTranslation(ctx, todo.ID, language)
			if gerr == nil && ok {
				return existing, nil
			}
		}
		return dom.Translation{}, fmt.Errorf("store translation %q of todo %d: %w", language, todo.ID, err)
	}

	s.log.Info(ctx, "todo translated", "todo_id", todo.ID, "language", language)
	s.invalidateCache(ctx)
	return tr, nil
}

// ListTranslations returns every stored translation of the todo.
func (s *TodoService) ListTranslations(ctx context.Context, todoID int64) ([]dom.Translation, error) {
	if _, err := s.getTodo(ctx, s.store, todoID); err != nil {
		return nil, err
	}
	list, err := s.store.Translations().ListByTodoID(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("list translations of todo %d: %w", todoID, err)
	}
	return list, nil
}

// TranslateText translates free text without storing anything.
func (s *TodoService) TranslateText(ctx context.Context, text, language string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", invalid("text must not be empty")
	}
	language, err := cleanLanguage(language)
	if err != nil {
		return "", err
	}
	out, err := s.ai.Translate(ctx, text, language)
	if err != nil {
		s.log.Error(ctx, "text translation failed", "language", language, "err", err)
		return "", err
	}
	return out, nil
}
