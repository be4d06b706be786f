/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package webhook

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	replyTokenMinLen = 10
	replyTokenMaxLen = 100

	maxTextMessageLen = 1000
)

// ErrInvalidReplyToken is returned when an event's reply token is missing or malformed.
var ErrInvalidReplyToken = errors.New("invalid reply token")

// ValidateReplyToken checks that a reply token is present, of sane length,
// and contains only URL-safe token characters.
func ValidateReplyToken(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty", ErrInvalidReplyToken)
	}
	if len(token) < replyTokenMinLen || len(token) > replyTokenMaxLen {
		return fmt.Errorf("%w: length %d out of range [%d, %d]",
			ErrInvalidReplyToken, len(token), replyTokenMinLen, replyTokenMaxLen)
	}
	for _, c := range token {
		if !isTokenChar(c) {
			return fmt.Errorf("%w: forbidden character %q", ErrInvalidReplyToken, c)
		}
	}
	return nil
}

func isTokenChar(c rune) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_' || c == '-'
}

// TextValidator rejects user text that is too long, contains control
// characters, or matches a forbidden word.
type TextValidator struct {
	maxLen         int
	forbiddenWords []string
}

// NewTextValidator creates a TextValidator with the default limits.
func NewTextValidator() *TextValidator {
	return &TextValidator{
		maxLen:         maxTextMessageLen,
		forbiddenWords: []string{"spam", "垃圾", "廣告"},
	}
}

// Validate reports whether text is acceptable to process.
func (v *TextValidator) Validate(text string) error {
	if textLen := len([]rune(text)); textLen > v.maxLen {
		return fmt.Errorf("text length %d exceeds limit %d", textLen, v.maxLen)
	}
	lowered := strings.ToLower(text)
	for _, word := range v.forbiddenWords {
		if strings.Contains(lowered, word) {
			return fmt.Errorf("text contains forbidden word %q", word)
		}
	}
	for _, c := range text {
		if unicode.IsControl(c) && c != '\n' && c != '\r' && c != '\t' {
			return fmt.Errorf("text contains control character %U", c)
		}
	}
	return nil
}
