package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application-wide configuration populated from environment variables.
type Config struct {
	TTSBackend            string `env:"TTS_BACKEND"             envDefault:"google"`
	GoogleCredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE" envDefault:"key.json"`
	OpenAIAPIKey          string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL         string `env:"OPENAI_BASE_URL"         envDefault:"https://api.openai.com/v1"`
	VoiceConfigPath       string `env:"TTS_VOICE_CONFIG"        envDefault:"tts.yaml"`

	ChunkSize     int    `env:"CHUNK_SIZE"     envDefault:"40"`
	ChunkStrategy string `env:"CHUNK_STRATEGY" envDefault:"fixed"`

	TTSTimeout           time.Duration `env:"TTS_TIMEOUT"                envDefault:"90s"`
	MaxRetries           int           `env:"TTS_MAX_RETRIES"            envDefault:"3"`
	RetryInitialInterval time.Duration `env:"TTS_RETRY_INITIAL_INTERVAL" envDefault:"500ms"`

	AudioDir  string `env:"AUDIO_DIR"  envDefault:"audio"`
	KeepParts bool   `env:"KEEP_PARTS" envDefault:"false"`

	SecretsDir      string `env:"SECRETS_DIR"        envDefault:"secrets"`
	GmailTokenPath  string `env:"GMAIL_TOKEN"`
	CredentialsPath string `env:"GOOGLE_CREDENTIALS"`

	DriveUploadEnabled bool   `env:"DRIVE_UPLOAD_ENABLED" envDefault:"false"`
	DriveFolderID      string `env:"DRIVE_FOLDER_ID"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	HTTPDebug bool   `env:"HTTP_DEBUG" envDefault:"false"`
	HTTPAddr  string `env:"HTTP_ADDR"  envDefault:":8080"`
}

// Load reads .env (if present) and environment variables and returns Config with defaults applied.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.GmailTokenPath == "" {
		cfg.GmailTokenPath = filepath.Join(cfg.SecretsDir, "token.json")
	}
	if cfg.CredentialsPath == "" {
		cfg.CredentialsPath = filepath.Join(cfg.SecretsDir, "credentials.json")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be > 0, got %d", c.ChunkSize)
	}
	switch c.ChunkStrategy {
	case "fixed", "boundary":
	default:
		return fmt.Errorf("unknown CHUNK_STRATEGY %q", c.ChunkStrategy)
	}
	switch c.TTSBackend {
	case "google", "openai":
	default:
		return fmt.Errorf("unknown TTS_BACKEND %q", c.TTSBackend)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("TTS_MAX_RETRIES must be >= 0, got %d", c.MaxRetries)
	}
	return nil
}
