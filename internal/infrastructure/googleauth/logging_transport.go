package googleauth

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// loggingTransport wraps an existing http.RoundTripper and logs outgoing
// Google API requests with their status and latency. Bodies are not logged:
// upload requests carry the whole WAV file.
type loggingTransport struct {
	base   http.RoundTripper
	logger *log.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.logger.Debug("->", "method", req.Method, "url", req.URL.Redacted())

	rt := t.base
	if rt == nil {
		rt = http.DefaultTransport
	}
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.logger.Debug("<- error", "err", err, "elapsed", time.Since(start))
		return resp, err
	}

	t.logger.Debug("<-", "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, err
}
