package text

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// DefaultChunkSize is the number of characters sent per synthesis call.
const DefaultChunkSize = 40

// ErrInvalidChunkSize is returned when the chunk size is not positive.
var ErrInvalidChunkSize = errors.New("chunk size must be > 0")

// Strategy selects how text is cut into chunks.
type Strategy string

const (
	// Fixed cuts every size characters regardless of content.
	Fixed Strategy = "fixed"
	// Boundary keeps chunks at most size characters but prefers to end them
	// after a sentence terminator or whitespace.
	Boundary Strategy = "boundary"
)

// ParseStrategy converts a config value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Fixed:
		return Fixed, nil
	case Boundary:
		return Boundary, nil
	}
	return "", fmt.Errorf("unknown chunk strategy %q", s)
}

// Chunk splits text using strategy s.
func (s Strategy) Chunk(text string, size int) ([]string, error) {
	if s == Boundary {
		return SplitAtBoundaries(text, size)
	}
	return Split(text, size)
}

// Split partitions text into consecutive chunks of size characters (runes).
// The last chunk holds the remainder. Joining the result yields text unchanged.
func Split(text string, size int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
	}
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := min(i+size, len(runes))
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks, nil
}

// SplitAtBoundaries works like Split but ends each chunk after the last
// sentence terminator within the window, else after the last whitespace,
// else exactly at size characters.
func SplitAtBoundaries(text string, size int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
	}
	runes := []rune(text)
	var chunks []string
	for len(runes) > 0 {
		if len(runes) <= size {
			chunks = append(chunks, string(runes))
			break
		}
		cut := breakPoint(runes[:size])
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return chunks, nil
}

// breakPoint returns the length of the chunk to take from window.
func breakPoint(window []rune) int {
	space := -1
	for i := len(window) - 1; i >= 0; i-- {
		r := window[i]
		if isTerminator(r) {
			return i + 1
		}
		if space < 0 && unicode.IsSpace(r) {
			space = i + 1
		}
	}
	if space > 0 {
		return space
	}
	return len(window)
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}
