package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubtasks(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		max     int
		want    []SubtaskSuggestion
		wantErr bool
	}{
		{
			name:  "plain json",
			reply: `{"subtasks":[{"title":"Pick a venue","description":"Near the office"},{"title":"Send invites"}]}`,
			max:   5,
			want: []SubtaskSuggestion{
				{Title: "Pick a venue", Description: "Near the office"},
				{Title: "Send invites"},
			},
		},
		{
			name:  "fenced",
			reply: "```json\n{\"subtasks\":[{\"title\":\"  Book flight \",\"description\":null}]}\n```",
			max:   5,
			want:  []SubtaskSuggestion{{Title: "Book flight"}},
		},
		{
			name:  "fenced on one line",
			reply: "```json {\"subtasks\":[{\"title\":\"Pack\"}]}```",
			max:   5,
			want:  []SubtaskSuggestion{{Title: "Pack"}},
		},
		{
			name:  "truncated to max",
			reply: `{"subtasks":[{"title":"a"},{"title":"b"},{"title":"c"}]}`,
			max:   2,
			want:  []SubtaskSuggestion{{Title: "a"}, {Title: "b"}},
		},
		{name: "empty list", reply: `{"subtasks":[]}`, max: 5, wantErr: true},
		{name: "not json", reply: "Sure! Here are your subtasks:", max: 5, wantErr: true},
		{name: "missing key", reply: `{"steps":[{"title":"a"}]}`, max: 5, wantErr: true},
		{name: "blank title", reply: `{"subtasks":[{"title":"   "}]}`, max: 5, wantErr: true},
		{name: "title too long", reply: `{"subtasks":[{"title":"` + strings.Repeat("x", 256) + `"}]}`, max: 5, wantErr: true},
		{name: "wrong type", reply: `{"subtasks":[{"title":42}]}`, max: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSubtasks(tt.reply, tt.max)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrGenerationFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTranslation(t *testing.T) {
	got, err := parseTranslation("  \"Acheter du lait\"\n")
	require.NoError(t, err)
	assert.Equal(t, "Acheter du lait", got)

	_, err = parseTranslation("   ")
	assert.ErrorIs(t, err, ErrTranslationFailed)
}

func TestUnfence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, unfence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, unfence("```\n{\"a\":1}```"))
	assert.Equal(t, "plain", unfence(" plain "))
	assert.Equal(t, `{"subtasks":[]}`, unfence("```json {\"subtasks\":[]}```"))
	assert.Equal(t, `[1]`, unfence("```json [1] ```"))
	assert.Equal(t, "Hola mundo", unfence("```Hola mundo```"))
	assert.Equal(t, "Hola", unfence("```\nHola\n```"))
	assert.Equal(t, "Bonjour", unfence("```text\r\nBonjour\r\n```"))
}

func TestDisabled(t *testing.T) {
	var c Collaborator = Disabled{}

	_, err := c.GenerateSubtasks(context.Background(), "t", "", 3)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "not configured")

	_, err = c.Translate(context.Background(), "hi", "fr")
	assert.ErrorIs(t, err, ErrTranslationFailed)
}
