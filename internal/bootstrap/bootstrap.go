// Package bootstrap wires configuration into the synthesizer backends and
// Google services shared by the CLI and the HTTP server.
package bootstrap

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"

	"github.com/x4x3r/google-text-to-speach/internal/config"
	"github.com/x4x3r/google-text-to-speach/internal/domain/tts"
	"github.com/x4x3r/google-text-to-speach/internal/infrastructure/googleauth"
	googletts "github.com/x4x3r/google-text-to-speach/internal/infrastructure/tts/google"
	openaitts "github.com/x4x3r/google-text-to-speach/internal/infrastructure/tts/openai"
	"github.com/x4x3r/google-text-to-speach/internal/infrastructure/tts/retry"
	"github.com/x4x3r/google-text-to-speach/internal/infrastructure/wav"
	"github.com/x4x3r/google-text-to-speach/internal/logging"
)

// Backend is a ready-to-use synthesizer with retries applied.
type Backend struct {
	Synth  tts.Synthesizer
	Voices tts.VoiceLister // nil when the backend cannot list voices
	close  func() error
}

// Close releases backend connections.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// NewBackend builds the synthesizer selected by cfg.TTSBackend.
func NewBackend(ctx context.Context, cfg *config.Config, profile config.TTSConfig) (*Backend, error) {
	logger := logging.Named("tts")
	var (
		base tts.Synthesizer
		b    = &Backend{}
	)
	switch cfg.TTSBackend {
	case "openai":
		s, err := openaitts.NewSynthesizer(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, profile, cfg.TTSTimeout)
		if err != nil {
			return nil, err
		}
		base = s
	default:
		s, err := googletts.NewSynthesizer(ctx, googletts.Options{
			Voice:           Voice(profile),
			CredentialsFile: cfg.GoogleCredentialsFile,
			Timeout:         cfg.TTSTimeout,
		})
		if err != nil {
			return nil, err
		}
		base, b.Voices, b.close = s, s, s.Close
	}
	logger.Info("backend ready", "backend", cfg.TTSBackend, "voice", profile.Voice, "rate", profile.SampleRateHertz, "retries", cfg.MaxRetries)
	b.Synth = retry.Wrap(base, cfg.MaxRetries, cfg.RetryInitialInterval)
	return b, nil
}

// Voice maps the voice profile onto the domain voice.
func Voice(p config.TTSConfig) tts.Voice {
	return tts.Voice{
		LanguageCode:    p.LanguageCode,
		Name:            p.Voice,
		Encoding:        p.AudioEncoding,
		SampleRateHertz: p.SampleRateHertz,
	}
}

// Format is the container format matching the profile's PCM output.
func Format(p config.TTSConfig) wav.Format {
	return wav.Format{SampleRate: p.SampleRateHertz, Channels: 1, BitsPerSample: 16}
}

// NewGoogleAuth reads the OAuth client from cfg.
func NewGoogleAuth(cfg *config.Config) (*googleauth.GoogleAuth, error) {
	ga, err := googleauth.NewGoogleAuth(cfg.CredentialsPath, cfg.GmailTokenPath)
	if err != nil {
		return nil, err
	}
	ga.SetDebug(cfg.HTTPDebug)
	return ga, nil
}

// EnsureGmailService returns a Gmail client, running the interactive OAuth
// flow when the stored token is missing or rejected and interactive is set.
func EnsureGmailService(ctx context.Context, ga *googleauth.GoogleAuth, interactive bool) (*gmail.Service, error) {
	return ensure(ctx, ga, "gmail", interactive, ga.BuildGmailService, func(srv *gmail.Service) error {
		_, err := srv.Users.Labels.List("me").Context(ctx).Do()
		return err
	})
}

// EnsureDriveService is EnsureGmailService for Drive.
func EnsureDriveService(ctx context.Context, ga *googleauth.GoogleAuth, interactive bool) (*drive.Service, error) {
	return ensure(ctx, ga, "drive", interactive, ga.BuildDriveService, func(srv *drive.Service) error {
		_, err := srv.Files.List().PageSize(1).Context(ctx).Do()
		return err
	})
}

func ensure[S any](ctx context.Context, ga *googleauth.GoogleAuth, name string, interactive bool,
	build func(context.Context) (S, error), probe func(S) error) (S, error) {
	logger := logging.Named("auth")
	srv, err := build(ctx)
	if err == nil {
		if err = probe(srv); err == nil {
			return srv, nil
		}
	}
	if !interactive {
		var zero S
		return zero, fmt.Errorf("%s not authorized (run with -auth): %w", name, err)
	}

	logger.Warn("authorization required, starting interactive flow", "service", name, "err", err)
	if err := ga.ObtainTokenInteractive(ctx, ""); err != nil {
		var zero S
		return zero, err
	}
	srv, err = build(ctx)
	if err != nil {
		return srv, err
	}
	if err := probe(srv); err != nil {
		var zero S
		return zero, fmt.Errorf("%s authorization failed: %w", name, err)
	}
	logger.Info("authorized", "service", name)
	return srv, nil
}
