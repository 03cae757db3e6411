package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/jask/storyworld/internal/world"
)

const (
	MinThemeLength = 3
	MaxThemeLength = 500

	// suggestions further away than this are noise
	maxSuggestDistance = 3
)

// Kind classifies a validation failure.
type Kind string

const (
	KindEmptyInput        Kind = "empty_input"
	KindTooShort          Kind = "too_short"
	KindTooLong           Kind = "too_long"
	KindUnknownGenre      Kind = "unknown_genre"
	KindUnknownComplexity Kind = "unknown_complexity"
)

// Error is a local input failure. It never reaches the network layer.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches on Kind so callers can compare against the sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrEmptyInput        = &Error{Kind: KindEmptyInput, Message: "Please enter a theme for your world."}
	ErrTooShort          = &Error{Kind: KindTooShort, Message: fmt.Sprintf("Theme must be at least %d characters long.", MinThemeLength)}
	ErrTooLong           = &Error{Kind: KindTooLong, Message: fmt.Sprintf("Theme must be at most %d characters long.", MaxThemeLength)}
	ErrUnknownGenre      = &Error{Kind: KindUnknownGenre, Message: "unknown genre"}
	ErrUnknownComplexity = &Error{Kind: KindUnknownComplexity, Message: "unknown complexity"}
)

// Theme validates free-text theme input and returns it trimmed.
// Lengths are counted in code points.
func Theme(theme string) (string, error) {
	if utf8.RuneCountInString(theme) > MaxThemeLength {
		return "", ErrTooLong
	}
	trimmed := strings.TrimSpace(theme)
	if trimmed == "" {
		return "", ErrEmptyInput
	}
	if utf8.RuneCountInString(trimmed) < MinThemeLength {
		return "", ErrTooShort
	}
	return trimmed, nil
}

// Genre parses a genre name case-insensitively.
func Genre(s string) (world.Genre, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	names := make([]string, 0, 3)
	for _, g := range world.Genres() {
		if in == string(g) {
			return g, nil
		}
		names = append(names, string(g))
	}
	return "", unknown(KindUnknownGenre, "genre", s, names)
}

// Complexity parses a complexity level case-insensitively.
func Complexity(s string) (world.Complexity, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	names := make([]string, 0, 3)
	for _, c := range world.Complexities() {
		if in == string(c) {
			return c, nil
		}
		names = append(names, string(c))
	}
	return "", unknown(KindUnknownComplexity, "complexity", s, names)
}

func unknown(kind Kind, field, got string, valid []string) *Error {
	msg := fmt.Sprintf("unknown %s %q (valid: %s)", field, got, strings.Join(valid, ", "))
	if s := suggest(strings.ToLower(strings.TrimSpace(got)), valid); s != "" {
		msg = fmt.Sprintf("unknown %s %q, did you mean %q?", field, got, s)
	}
	return &Error{Kind: kind, Message: msg}
}

func suggest(in string, valid []string) string {
	if in == "" {
		return ""
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, v := range valid {
		if d := levenshtein.ComputeDistance(in, v); d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}
