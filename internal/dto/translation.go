package dto

import "time"

type TranslateTodoRequest struct {
	TargetLanguage string `json:"target_language" binding:"required,min=2,max=50" example:"fr"`
}

type TranslateTextRequest struct {
	Text           string `json:"text" binding:"required,min=1"`
	TargetLanguage string `json:"target_language" binding:"required,min=2,max=50" example:"es"`
}

type TranslateTextResponse struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	TargetLanguage string `json:"target_language"`
}

type TranslationResponse struct {
	ID                    int64     `json:"id"`
	TodoID                int64     `json:"todo_id"`
	Language              string    `json:"language"`
	TranslatedTitle       string    `json:"translated_title"`
	TranslatedDescription *string   `json:"translated_description"`
	CreatedAt             time.Time `json:"created_at"`
}
