package openai

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/x4x3r/google-text-to-speach/internal/config"
	"github.com/x4x3r/google-text-to-speach/internal/domain/tts"
	"github.com/x4x3r/google-text-to-speach/internal/logging"
)

// SampleRate is the fixed rate of OpenAI "pcm" responses (16-bit mono LE).
const SampleRate = 24000

// Synthesizer implements tts.Synthesizer using OpenAI TTS endpoint.
type Synthesizer struct {
	client  *goopenai.Client
	voice   string
	model   string
	speed   float64
	timeout time.Duration
	logger  *log.Logger
}

// NewSynthesizer creates OpenAI TTS synthesizer.
// If apiKey is empty, it tries environment variable OPENAI_API_KEY or file
// {SECRETS_DIR}/openai_api_key.txt.
func NewSynthesizer(apiKey, baseURL string, profile config.TTSConfig, timeout time.Duration) (*Synthesizer, error) {
	if apiKey == "" {
		apiKey = getOpenAIKey()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if profile.SampleRateHertz != SampleRate {
		return nil, fmt.Errorf("openai pcm output is %d Hz, voice profile asks for %d", SampleRate, profile.SampleRateHertz)
	}

	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	voice := profile.Voice
	// Google voice names do not exist on OpenAI.
	if voice == "" || strings.Contains(voice, "-") {
		voice = string(goopenai.VoiceAlloy)
	}
	model := profile.Model
	if model == "" {
		model = string(goopenai.TTSModel1)
	}
	speed := profile.Speed
	if speed == 0 {
		speed = 1.0
	}

	return &Synthesizer{
		client:  goopenai.NewClientWithConfig(cfg),
		voice:   voice,
		model:   model,
		speed:   speed,
		timeout: timeout,
		logger:  logging.Named("tts"),
	}, nil
}

// Synthesize converts text to raw 24 kHz 16-bit mono PCM.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (*tts.Audio, error) {
	s.logger.Debug("openai synthesis",
		"model", s.model, "voice", s.voice, "speed", s.speed, "chars", len([]rune(text)))

	start := time.Now()

	// adopt timeout from ctx or fallback
	reqCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.CreateSpeech(reqCtx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(s.model),
		Input:          text,
		Voice:          goopenai.SpeechVoice(s.voice),
		ResponseFormat: goopenai.SpeechResponseFormatPcm,
		Speed:          s.speed,
	})
	if err != nil {
		return nil, fmt.Errorf("openai create speech: %w", err)
	}
	defer resp.Close()

	audioBytes, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read openai audio: %w", err)
	}

	s.logger.Debug("openai synthesis done",
		"bytes", len(audioBytes), "elapsed", time.Since(start).Round(time.Millisecond))
	return &tts.Audio{Data: audioBytes, Format: "pcm"}, nil
}

// getOpenAIKey returns the OpenAI API key.
// Priority: env OPENAI_API_KEY > file openai_api_key.txt
func getOpenAIKey() string {
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		return k
	}
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "secrets"
	}
	path := filepath.Join(secretsDir, "openai_api_key.txt")
	if data, err := os.ReadFile(path); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// WithVoiceName returns a Synthesizer using the named OpenAI voice. Names that
// are not OpenAI voices keep the current one.
func (s *Synthesizer) WithVoiceName(name string) tts.Synthesizer {
	c := *s
	if name != "" && !strings.Contains(name, "-") {
		c.voice = name
	}
	return &c
}
