package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const subtasksSchemaText = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["subtasks"],
  "properties": {
    "subtasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string", "minLength": 1, "maxLength": 255},
          "description": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var subtasksSchema = jsonschema.MustCompileString("subtasks.schema.json", subtasksSchemaText)

// parseSubtasks validates a model reply and returns at most maxCount items.
func parseSubtasks(reply string, maxCount int) ([]SubtaskSuggestion, error) {
	body := unfence(reply)

	var doc interface{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: reply is not JSON: %w", ErrGenerationFailed, err)
	}
	if err := subtasksSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: unexpected reply shape: %w", ErrGenerationFailed, err)
	}

	var out struct {
		Subtasks []struct {
			Title       string  `json:"title"`
			Description *string `json:"description"`
		} `json:"subtasks"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	list := make([]SubtaskSuggestion, 0, len(out.Subtasks))
	for _, s := range out.Subtasks {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: blank subtask title", ErrGenerationFailed)
		}
		sug := SubtaskSuggestion{Title: title}
		if s.Description != nil {
			sug.Description = strings.TrimSpace(*s.Description)
		}
		list = append(list, sug)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: model returned no subtasks", ErrGenerationFailed)
	}
	if maxCount > 0 && len(list) > maxCount {
		list = list[:maxCount]
	}
	return list, nil
}

// parseTranslation cleans a plain-text model reply.
func parseTranslation(reply string) (string, error) {
	text := strings.TrimSpace(unfence(reply))
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty reply", ErrTranslationFailed)
	}
	return text, nil
}

// unfence strips a surrounding markdown code fence such as ```json ... ```.
// The language tag is dropped when a newline follows it, or when the rest of
// the line is a JSON payload; otherwise the line is content.
func unfence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if i := strings.IndexAny(body, " \t\r\n"); i > 0 && isFenceTag(body[:i]) {
		rest := strings.TrimLeft(body[i:], " \t")
		if strings.HasPrefix(rest, "\n") || strings.HasPrefix(rest, "\r\n") ||
			strings.HasPrefix(rest, "{") || strings.HasPrefix(rest, "[") {
			body = rest
		}
	}
	return strings.TrimSpace(body)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("+-_.", r) {
			return false
		}
	}
	return true
}
