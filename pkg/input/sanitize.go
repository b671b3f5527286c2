// Package input cleans user messages before they reach a dialogue session.
package input

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxSize is 4KB, well above a transcribed utterance.
	DefaultMaxSize = 4096
	// EnvMaxSize overrides DefaultMaxSize.
	EnvMaxSize = "SWITCHBOARD_MAX_INPUT_SIZE"
)

var (
	ErrTooLarge    = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8 = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitize enforces the size limit, validates UTF-8, strips control
// characters other than newline, tab and carriage return, and trims
// surrounding whitespace.
func Sanitize(msg string) (string, error) {
	limit := maxSize()
	if len(msg) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrTooLarge, len(msg), limit)
	}
	if !utf8.ValidString(msg) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range msg {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return strings.TrimSpace(msg), nil
	}

	var b strings.Builder
	b.Grow(len(msg))
	for _, r := range msg {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func maxSize() int {
	if val := os.Getenv(EnvMaxSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxSize
}
