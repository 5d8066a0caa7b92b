package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TTSConfig is the voice profile used for every synthesis call of a run.
type TTSConfig struct {
	LanguageCode    string  `yaml:"language_code"`
	Voice           string  `yaml:"voice"`
	AudioEncoding   string  `yaml:"audio_encoding"`
	SampleRateHertz int     `yaml:"sample_rate_hertz"`
	Model           string  `yaml:"model"`
	Speed           float64 `yaml:"speed"`
}

// DefaultTTSConfig returns the profile used when no tts.yaml is present.
func DefaultTTSConfig() TTSConfig {
	return TTSConfig{
		LanguageCode:    "en-US",
		Voice:           "en-US-Wavenet-D",
		AudioEncoding:   "LINEAR16",
		SampleRateHertz: 24000,
		Model:           "tts-1",
		Speed:           1.0,
	}
}

// LoadTTSConfig reads the YAML voice profile at path. A missing file yields the
// defaults; fields absent from the file keep their default values.
func LoadTTSConfig(path string) (TTSConfig, error) {
	cfg := DefaultTTSConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read tts config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse tts config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("tts config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the profile produces raw PCM that can be framed into a WAV.
func (c TTSConfig) Validate() error {
	switch strings.ToUpper(c.AudioEncoding) {
	case "LINEAR16", "PCM":
	default:
		return fmt.Errorf("audio_encoding %q cannot be merged into WAV (use LINEAR16)", c.AudioEncoding)
	}
	if c.SampleRateHertz <= 0 {
		return fmt.Errorf("sample_rate_hertz must be > 0, got %d", c.SampleRateHertz)
	}
	if c.LanguageCode == "" {
		return errors.New("language_code is required")
	}
	return nil
}
