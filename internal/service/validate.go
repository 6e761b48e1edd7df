package service

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLen       = 255
	MaxDescriptionLen = 2000
	MinLanguageLen    = 2
	MaxLanguageLen    = 50
	MaxTranslatedLen  = 500
)

func cleanTitle(s string) (string, error) {
	s = strings.TrimSpace(s)
	if n := utf8.RuneCountInString(s); n < 1 || n > MaxTitleLen {
		return "", invalid("title must be between 1 and %d characters", MaxTitleLen)
	}
	return s, nil
}

// cleanDescription trims d; an empty result is stored as NULL.
func cleanDescription(d string) (string, error) {
	d = strings.TrimSpace(d)
	if utf8.RuneCountInString(d) > MaxDescriptionLen {
		return "", invalid("description must be at most %d characters", MaxDescriptionLen)
	}
	return d, nil
}

func cleanLanguage(s string) (string, error) {
	s = strings.TrimSpace(s)
	if n := utf8.RuneCountInString(s); n < MinLanguageLen || n > MaxLanguageLen {
		return "", invalid("target_language must be between %d and %d characters", MinLanguageLen, MaxLanguageLen)
	}
	return s, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
