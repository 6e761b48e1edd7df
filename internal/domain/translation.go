package domain

import "time"

// Translation is the cached localized copy of a todo for one language.
// Rows are immutable once written.
type Translation struct {
	ID                    int64     `db:"id"`
	TodoID                int64     `db:"todo_id"`
	Language              string    `db:"language"`
	TranslatedTitle       string    `db:"translated_title"`
	TranslatedDescription *string   `db:"translated_description"`
	CreatedAt             time.Time `db:"created_at"`
}
