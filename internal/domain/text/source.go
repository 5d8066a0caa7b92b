package text

import "context"

// Source provides the text of one run. Implementations read local files,
// Gmail messages, request bodies, etc.
type Source interface {
	Load(ctx context.Context) (string, error)
}

// Static is a Source backed by an in-memory string.
type Static string

// Load returns the string itself.
func (s Static) Load(context.Context) (string, error) {
	return string(s), nil
}
