package dto

import "time"

// GenerateSubtasksRequest may be sent with an empty body; max_subtasks then defaults to 5.
type GenerateSubtasksRequest struct {
	MaxSubtasks *int `json:"max_subtasks" binding:"omitempty,min=1,max=10" example:"5"`
}

type UpdateSubtaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Completed   *bool   `json:"completed"`
	OrderIndex  *int    `json:"order_index" binding:"omitempty,min=0"`
}

type SubtaskResponse struct {
	ID          int64     `json:"id"`
	TodoID      int64     `json:"todo_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}
