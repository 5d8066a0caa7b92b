package google

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/charmbracelet/log"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/x4x3r/google-text-to-speach/internal/domain/tts"
	"github.com/x4x3r/google-text-to-speach/internal/logging"
)

const defaultTimeout = 90 * time.Second

// speechClient is the subset of *texttospeech.Client used here.
type speechClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest, opts ...gax.CallOption) (*texttospeechpb.ListVoicesResponse, error)
	Close() error
}

// Synthesizer implements tts.Synthesizer using Google Cloud Text-to-Speech.
type Synthesizer struct {
	client   speechClient
	voice    *texttospeechpb.VoiceSelectionParams
	audio    *texttospeechpb.AudioConfig
	encoding string
	timeout  time.Duration
	logger   *log.Logger
}

// Options configures NewSynthesizer.
type Options struct {
	Voice tts.Voice
	// CredentialsFile is a service account key. When empty or missing,
	// Application Default Credentials (GOOGLE_APPLICATION_CREDENTIALS) are used.
	CredentialsFile string
	Timeout         time.Duration
	ClientOptions   []option.ClientOption
}

// NewSynthesizer dials the Text-to-Speech API.
func NewSynthesizer(ctx context.Context, opts Options) (*Synthesizer, error) {
	clientOpts := opts.ClientOptions
	if opts.CredentialsFile != "" {
		if _, err := os.Stat(opts.CredentialsFile); err == nil {
			clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat credentials file: %w", err)
		}
	}
	client, err := texttospeech.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create text-to-speech client: %w", err)
	}
	s, err := newSynthesizer(client, opts.Voice, opts.Timeout)
	if err != nil {
		client.Close()
		return nil, err
	}
	if opts.CredentialsFile != "" {
		s.logger.Debug("credentials", "file", opts.CredentialsFile)
	}
	return s, nil
}

func newSynthesizer(client speechClient, voice tts.Voice, timeout time.Duration) (*Synthesizer, error) {
	encName := strings.ToUpper(voice.Encoding)
	enc, ok := texttospeechpb.AudioEncoding_value[encName]
	if !ok || enc == int32(texttospeechpb.AudioEncoding_AUDIO_ENCODING_UNSPECIFIED) {
		return nil, fmt.Errorf("unsupported audio encoding %q", voice.Encoding)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Synthesizer{
		client: client,
		voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: voice.LanguageCode,
			Name:         voice.Name,
		},
		audio: &texttospeechpb.AudioConfig{
			AudioEncoding:   texttospeechpb.AudioEncoding(enc),
			SampleRateHertz: int32(voice.SampleRateHertz),
		},
		encoding: encName,
		timeout:  timeout,
		logger:   logging.Named("tts"),
	}, nil
}

// Synthesize converts one chunk of text to audio bytes.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (*tts.Audio, error) {
	reqCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.client.SynthesizeSpeech(reqCtx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice:       s.voice,
		AudioConfig: s.audio,
	})
	if err != nil {
		return nil, fmt.Errorf("google synthesize speech: %w", err)
	}
	s.logger.Debug("synthesized",
		"chars", len([]rune(text)),
		"bytes", len(resp.GetAudioContent()),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return &tts.Audio{Data: resp.GetAudioContent(), Format: s.encoding}, nil
}

// ListVoices returns the voices available for languageCode ("" for all).
func (s *Synthesizer) ListVoices(ctx context.Context, languageCode string) ([]tts.VoiceInfo, error) {
	resp, err := s.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{LanguageCode: languageCode})
	if err != nil {
		return nil, fmt.Errorf("google list voices: %w", err)
	}
	voices := make([]tts.VoiceInfo, 0, len(resp.GetVoices()))
	for _, v := range resp.GetVoices() {
		voices = append(voices, tts.VoiceInfo{
			Name:                   v.GetName(),
			LanguageCodes:          v.GetLanguageCodes(),
			Gender:                 v.GetSsmlGender().String(),
			NaturalSampleRateHertz: int(v.GetNaturalSampleRateHertz()),
		})
	}
	return voices, nil
}

// Close releases the underlying gRPC connection.
func (s *Synthesizer) Close() error {
	return s.client.Close()
}

// WithVoiceName returns a Synthesizer sharing the client but speaking with the
// named voice. The language code is taken from the name ("ja-JP-Wavenet-B").
func (s *Synthesizer) WithVoiceName(name string) tts.Synthesizer {
	c := *s
	v := &texttospeechpb.VoiceSelectionParams{LanguageCode: s.voice.GetLanguageCode(), Name: name}
	if parts := strings.SplitN(name, "-", 3); len(parts) == 3 {
		v.LanguageCode = parts[0] + "-" + parts[1]
	}
	c.voice = v
	return &c
}
