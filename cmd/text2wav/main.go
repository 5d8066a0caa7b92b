// Command text2wav reads text, synthesizes it chunk by chunk and writes a
// single mono 16-bit WAV file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/x4x3r/google-text-to-speach/internal/bootstrap"
	"github.com/x4x3r/google-text-to-speach/internal/config"
	"github.com/x4x3r/google-text-to-speach/internal/domain/message"
	"github.com/x4x3r/google-text-to-speach/internal/domain/text"
	driveuploader "github.com/x4x3r/google-text-to-speach/internal/infrastructure/drive"
	"github.com/x4x3r/google-text-to-speach/internal/infrastructure/gmail"
	"github.com/x4x3r/google-text-to-speach/internal/infrastructure/storage"
	"github.com/x4x3r/google-text-to-speach/internal/infrastructure/textfile"
	"github.com/x4x3r/google-text-to-speach/internal/logging"
	"github.com/x4x3r/google-text-to-speach/internal/usecase/speech"
)

const (
	defaultInput  = "test_input.txt"
	defaultOutput = "test_output.wav"
)

type flags struct {
	output       string
	chunkSize    int
	strategy     string
	voice        string
	backend      string
	gmailMessage string
	upload       bool
	auth         bool
	authAddr     string
	listVoices   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	var f flags
	flag.StringVar(&f.output, "o", "", "output WAV file (default "+defaultOutput+", or AUDIO_DIR/<message id>.wav with -gmail-message)")
	flag.IntVar(&f.chunkSize, "chunk-size", 0, "characters per synthesis request (overrides CHUNK_SIZE)")
	flag.StringVar(&f.strategy, "strategy", "", "chunking strategy: fixed or boundary (overrides CHUNK_STRATEGY)")
	flag.StringVar(&f.voice, "voice", "", "voice name (overrides the voice profile)")
	flag.StringVar(&f.backend, "backend", "", "tts backend: google or openai (overrides TTS_BACKEND)")
	flag.StringVar(&f.gmailMessage, "gmail-message", "", "synthesize the body of this Gmail message instead of files")
	flag.BoolVar(&f.upload, "upload", false, "upload the result to Google Drive")
	flag.BoolVar(&f.auth, "auth", false, "run the Google OAuth flow, save the token and exit")
	flag.StringVar(&f.authAddr, "auth-addr", "", "loopback address for the OAuth callback (default localhost:8085)")
	flag.BoolVar(&f.listVoices, "list-voices", false, "list voices for the profile language and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [file ...]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}
	if err := applyFlags(cfg, f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := checkSources(f, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		return 2
	}
	if err := logging.Setup(os.Stderr, cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	logger := logging.Named("flow")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if f.auth {
		ga, err := bootstrap.NewGoogleAuth(cfg)
		if err != nil {
			logger.Error("google auth", "err", err)
			return 1
		}
		if err := ga.ObtainTokenInteractive(ctx, f.authAddr); err != nil {
			logger.Error("authorization failed", "err", err)
			return 1
		}
		logger.Info("token saved", "path", cfg.GmailTokenPath)
		return 0
	}

	profile, err := config.LoadTTSConfig(cfg.VoiceConfigPath)
	if err != nil {
		logger.Error("voice profile", "err", err)
		return 2
	}
	if f.voice != "" {
		profile.Voice = f.voice
		if parts := strings.SplitN(f.voice, "-", 3); len(parts) == 3 {
			profile.LanguageCode = parts[0] + "-" + parts[1]
		}
	}

	backend, err := bootstrap.NewBackend(ctx, cfg, profile)
	if err != nil {
		logger.Error("tts backend", "err", err)
		return 1
	}
	defer backend.Close()

	if f.listVoices {
		return listVoices(ctx, backend, profile.LanguageCode)
	}

	if err := synthesize(ctx, cfg, f, backend, profile); err != nil {
		logger.Error("run failed", "err", err)
		return 1
	}
	return 0
}

func applyFlags(cfg *config.Config, f flags) error {
	if f.chunkSize != 0 {
		cfg.ChunkSize = f.chunkSize
	}
	if f.strategy != "" {
		cfg.ChunkStrategy = f.strategy
	}
	if f.backend != "" {
		cfg.TTSBackend = f.backend
	}
	if f.upload {
		cfg.DriveUploadEnabled = true
	}
	return cfg.Validate()
}

// checkSources rejects runs that name both a Gmail message and input files.
func checkSources(f flags, files []string) error {
	if f.gmailMessage != "" && len(files) > 0 {
		return fmt.Errorf("-gmail-message cannot be combined with input files (%s)", strings.Join(files, ", "))
	}
	return nil
}

func synthesize(ctx context.Context, cfg *config.Config, f flags, backend *bootstrap.Backend, profile config.TTSConfig) error {
	logger := logging.Named("flow")
	logger.Info("starting run flow")

	strategy, err := text.ParseStrategy(cfg.ChunkStrategy)
	if err != nil {
		return err
	}

	var opts []speech.Option
	if cfg.KeepParts {
		opts = append(opts, speech.WithParts(&storage.PartStore{Dir: cfg.AudioDir}))
	}

	var source text.Source
	input := &speech.GenerateWAVFromTextInput{
		OutputPath: f.output,
		ChunkSize:  cfg.ChunkSize,
		Strategy:   strategy,
		Upload:     cfg.DriveUploadEnabled,
	}

	// Gmail and Drive share one token; Gmail goes first so one consent covers both.
	if f.gmailMessage != "" || cfg.DriveUploadEnabled {
		auth, err := bootstrap.NewGoogleAuth(cfg)
		if err != nil {
			return err
		}
		if f.gmailMessage != "" {
			srv, err := bootstrap.EnsureGmailService(ctx, auth, true)
			if err != nil {
				return err
			}
			source = gmail.MessageSource{Repo: gmail.NewMessageRepository(srv), ID: message.ID(f.gmailMessage)}
			input.FileName = f.gmailMessage
		}
		if cfg.DriveUploadEnabled {
			logger.Info("upload enabled", "folder", cfg.DriveFolderID)
			srv, err := bootstrap.EnsureDriveService(ctx, auth, true)
			if err != nil {
				return err
			}
			opts = append(opts, speech.WithUploader(driveuploader.NewUploader(srv, cfg.DriveFolderID)))
		}
	}

	if source == nil {
		paths := flag.Args()
		if len(paths) == 0 {
			paths = []string{defaultInput}
		}
		source = textfile.NewReader(paths...)
		if input.OutputPath == "" {
			input.OutputPath = defaultOutput
		}
	}

	uc := speech.NewGenerateWAVFromText(backend.Synth, storage.NewFileStore(cfg.AudioDir), bootstrap.Format(profile), opts...)
	out, err := uc.Execute(ctx, input)
	if err != nil {
		return err
	}
	logger.Info("completed", "run", out.RunID, "path", out.LocalPath, "chunks", out.Chunks, "bytes", out.Bytes)
	if out.DriveLink != "" {
		logger.Info("uploaded", "id", out.DriveID, "link", out.DriveLink)
	}
	return nil
}

func listVoices(ctx context.Context, backend *bootstrap.Backend, languageCode string) int {
	logger := logging.Named("tts")
	if backend.Voices == nil {
		logger.Error("this backend cannot list voices")
		return 2
	}
	voices, err := backend.Voices.ListVoices(ctx, languageCode)
	if err != nil {
		logger.Error("list voices", "err", err)
		return 1
	}
	for _, v := range voices {
		fmt.Printf("%s\t%s\t%s\t%d\n", v.Name, strings.Join(v.LanguageCodes, ","), v.Gender, v.NaturalSampleRateHertz)
	}
	return 0
}
