package textfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/x4x3r/google-text-to-speach/internal/logging"
)

// ErrNoInput is returned when no input path is configured.
var ErrNoInput = errors.New("no input file given")

// Reader implements text.Source over local text files. Every path is read,
// in order, and the contents are concatenated.
type Reader struct {
	paths  []string
	logger *log.Logger
}

func NewReader(paths ...string) *Reader {
	return &Reader{paths: paths, logger: logging.Named("reader")}
}

// Load reads all configured files.
func (r *Reader) Load(ctx context.Context) (string, error) {
	if len(r.paths) == 0 {
		return "", ErrNoInput
	}
	var b strings.Builder
	for _, p := range r.paths {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("read input %s: %w", p, err)
		}
		r.logger.Debug("read input", "path", p, "bytes", len(data))
		b.Write(data)
	}
	return b.String(), nil
}
