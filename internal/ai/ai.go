// Package ai talks to the language model that breaks todos into subtasks
// and translates text.
package ai

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrGenerationFailed  = errors.New("subtask generation failed")
	ErrTranslationFailed = errors.New("translation failed")
)

// SubtaskSuggestion is one step proposed by the model, in display order.
type SubtaskSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Collaborator is the model-backed dependency of the todo service.
// Implementations are stateless and safe for concurrent use.
type Collaborator interface {
	// GenerateSubtasks returns between 1 and maxCount suggestions or an
	// error wrapping ErrGenerationFailed.
	GenerateSubtasks(ctx context.Context, title, description string, maxCount int) ([]SubtaskSuggestion, error)
	// Translate returns text in targetLanguage or an error wrapping
	// ErrTranslationFailed.
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

const (
	DefaultMaxSubtasks = 5
	MaxSubtasksLimit   = 10
)

// Disabled is used when no API key is configured. Every call fails.
type Disabled struct{}

var _ Collaborator = Disabled{}

var errNotConfigured = errors.New("AI provider is not configured")

func (Disabled) GenerateSubtasks(context.Context, string, string, int) ([]SubtaskSuggestion, error) {
	return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, errNotConfigured)
}

func (Disabled) Translate(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%w: %w", ErrTranslationFailed, errNotConfigured)
}
