package domain

import "time"

// Domain entities: business objects, independent of Gin, SQL drivers and Redis.
// The db tags are column names used by the repositories for scanning.

type Todo struct {
	ID          int64      `db:"id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	Completed   bool       `db:"completed"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// TodoWithRelations is a todo together with its explicitly loaded children.
type TodoWithRelations struct {
	Todo
	Subtasks     []Subtask
	Translations []Translation
}

// TodoPatch carries the fields of a partial update; nil means "leave as is".
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}
