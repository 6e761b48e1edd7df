package dto

import "time"

type CreateTodoRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateTodoRequest is a partial update; omitted fields are left unchanged.
type UpdateTodoRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Completed   *bool   `json:"completed"`
}

type ListTodosQuery struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=100" binding:"min=0"`
}

type TodoResponse struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Description  *string               `json:"description"`
	Completed    bool                  `json:"completed"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    *time.Time            `json:"updated_at"`
	Subtasks     []SubtaskResponse     `json:"subtasks"`
	Translations []TranslationResponse `json:"translations"`
}
