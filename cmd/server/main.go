package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/x4x3r/google-text-to-speach/internal/bootstrap"
	"github.com/x4x3r/google-text-to-speach/internal/config"
	driveuploader "github.com/x4x3r/google-text-to-speach/internal/infrastructure/drive"
	"github.com/x4x3r/google-text-to-speach/internal/infrastructure/gmail"
	"github.com/x4x3r/google-text-to-speach/internal/infrastructure/storage"
	"github.com/x4x3r/google-text-to-speach/internal/interface/http/handler"
	"github.com/x4x3r/google-text-to-speach/internal/logging"
	ucmsg "github.com/x4x3r/google-text-to-speach/internal/usecase/message"
	"github.com/x4x3r/google-text-to-speach/internal/usecase/speech"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(2)
	}
	if err := logging.Setup(os.Stderr, cfg.LogLevel); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	logger := logging.Named("http")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	profile, err := config.LoadTTSConfig(cfg.VoiceConfigPath)
	if err != nil {
		logger.Fatal("voice profile", "err", err)
	}
	backend, err := bootstrap.NewBackend(ctx, cfg, profile)
	if err != nil {
		logger.Fatal("tts backend", "err", err)
	}
	defer backend.Close()

	app := fiber.New(fiber.Config{AppName: "text2wav", DisableStartupMessage: true})
	app.Use(recover.New())

	handler.NewSpeechHandler(backend.Synth, bootstrap.Format(profile)).Register(app)

	// Gmail routes need a stored token; run `text2wav -auth` first.
	if ga, err := bootstrap.NewGoogleAuth(cfg); err != nil {
		logger.Warn("gmail routes disabled", "err", err)
	} else if srv, err := bootstrap.EnsureGmailService(ctx, ga, false); err != nil {
		logger.Warn("gmail routes disabled", "err", err)
	} else {
		repo := gmail.NewMessageRepository(srv)
		var opts []speech.Option
		if cfg.KeepParts {
			opts = append(opts, speech.WithParts(&storage.PartStore{Dir: cfg.AudioDir}))
		}
		if cfg.DriveUploadEnabled {
			if dsrv, err := bootstrap.EnsureDriveService(ctx, ga, false); err != nil {
				logger.Warn("drive upload disabled", "err", err)
			} else {
				opts = append(opts, speech.WithUploader(driveuploader.NewUploader(dsrv, cfg.DriveFolderID)))
			}
		}
		sp := speech.NewGenerateWAVFromText(backend.Synth, storage.NewFileStore(cfg.AudioDir), bootstrap.Format(profile), opts...)
		handler.NewGmailListHandler(repo).Register(app)
		handler.NewMessageHandler(ucmsg.NewGenerateWAVFromMessage(repo, sp)).Register(app)
	}

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()

	logger.Info("server listening", "addr", cfg.HTTPAddr)
	if err := app.Listen(cfg.HTTPAddr); err != nil {
		logger.Fatal("failed to start server", "err", err)
	}
}
