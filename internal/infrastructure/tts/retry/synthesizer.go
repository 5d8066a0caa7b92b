package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/charmbracelet/log"
	goopenai "github.com/sashabaranov/go-openai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/x4x3r/google-text-to-speach/internal/domain/tts"
	"github.com/x4x3r/google-text-to-speach/internal/logging"
)

// Synthesizer retries a wrapped tts.Synthesizer with exponential backoff.
type Synthesizer struct {
	next            tts.Synthesizer
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          *log.Logger
}

// Wrap returns next decorated with up to maxRetries additional attempts per call.
func Wrap(next tts.Synthesizer, maxRetries int, initialInterval time.Duration) *Synthesizer {
	if initialInterval <= 0 {
		initialInterval = 500 * time.Millisecond
	}
	return &Synthesizer{
		next:            next,
		maxRetries:      maxRetries,
		initialInterval: initialInterval,
		maxInterval:     30 * time.Second,
		logger:          logging.Named("tts"),
	}
}

// Synthesize calls the wrapped synthesizer until it succeeds, fails with a
// permanent error, or the attempts are exhausted.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (*tts.Audio, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialInterval
	b.MaxInterval = s.maxInterval

	attempt := 0
	op := func() (*tts.Audio, error) {
		attempt++
		audio, err := s.next.Synthesize(ctx, text)
		if err == nil {
			return audio, nil
		}
		if !Retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	notify := func(err error, wait time.Duration) {
		s.logger.Warn("synthesis failed, retrying", "attempt", attempt, "wait", wait, "err", err)
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(s.maxRetries+1)),
		backoff.WithNotify(notify),
	)
}

// Retryable reports whether err is a transient synthesis failure.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		switch st.Code() {
		case codes.InvalidArgument, codes.PermissionDenied, codes.Unauthenticated,
			codes.NotFound, codes.FailedPrecondition, codes.Unimplemented, codes.Canceled:
			return false
		}
		return true
	}
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode >= 500
	}
	return true
}

// WithVoiceName forwards the voice change to the wrapped synthesizer and keeps
// the retry policy. It returns s unchanged when the backend cannot switch.
func (s *Synthesizer) WithVoiceName(name string) tts.Synthesizer {
	vs, ok := s.next.(tts.VoiceSelector)
	if !ok {
		return s
	}
	c := *s
	c.next = vs.WithVoiceName(name)
	return &c
}
