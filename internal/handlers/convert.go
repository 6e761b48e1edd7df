package handlers

import (
	dom "github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/domain"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/dto"
)

func todoToResponse(t dom.TodoWithRelations) dto.TodoResponse {
	return dto.TodoResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Completed:    t.Completed,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Subtasks:     subtasksToResponses(t.Subtasks),
		Translations: translationsToResponses(t.Translations),
	}
}

func todosToResponses(list []dom.TodoWithRelations) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}

func subtaskToResponse(s dom.Subtask) dto.SubtaskResponse {
	return dto.SubtaskResponse{
		ID:          s.ID,
		TodoID:      s.TodoID,
		Title:       s.Title,
		Description: s.Description,
		Completed:   s.Completed,
		OrderIndex:  s.OrderIndex,
		CreatedAt:   s.CreatedAt,
	}
}

// subtasksToResponses never returns nil so empty relations encode as [].
func subtasksToResponses(list []dom.Subtask) []dto.SubtaskResponse {
	out := make([]dto.SubtaskResponse, len(list))
	for i := range list {
		out[i] = subtaskToResponse(list[i])
	}
	return out
}

func translationToResponse(t dom.Translation) dto.TranslationResponse {
	return dto.TranslationResponse{
		ID:                    t.ID,
		TodoID:                t.TodoID,
		Language:              t.Language,
		TranslatedTitle:       t.TranslatedTitle,
		TranslatedDescription: t.TranslatedDescription,
		CreatedAt:             t.CreatedAt,
	}
}

func translationsToResponses(list []dom.Translation) []dto.TranslationResponse {
	out := make([]dto.TranslationResponse, len(list))
	for i := range list {
		out[i] = translationToResponse(list[i])
	}
	return out
}
