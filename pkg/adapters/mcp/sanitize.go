package mcp

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxStoriesSize bounds the stories argument of a tool call.
const DefaultMaxStoriesSize = 1 << 20

var (
	ErrStoriesTooLarge = errors.New("stories exceed maximum allowed size")
	ErrInvalidUTF8     = errors.New("stories contain invalid UTF-8 sequences")
)

// SanitizeStories rejects oversized or non UTF-8 story text and strips
// control characters other than newline, tab and carriage return.
func SanitizeStories(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxStoriesSize
	}
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrStoriesTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(input, isUnsafeControl) < 0 {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}
