package domain

import "time"

// Subtask is an ordered, independently completable child of a Todo.
// OrderIndex is advisory: it is neither unique nor contiguous across batches.
type Subtask struct {
	ID          int64     `db:"id"`
	TodoID      int64     `db:"todo_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Completed   bool      `db:"completed"`
	OrderIndex  int       `db:"order_index"`
	CreatedAt   time.Time `db:"created_at"`
}

type SubtaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	OrderIndex  *int
}

func (p SubtaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil && p.OrderIndex == nil
}
