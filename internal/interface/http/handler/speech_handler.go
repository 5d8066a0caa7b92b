package handler

import (
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/x4x3r/google-text-to-speach/internal/domain/text"
	"github.com/x4x3r/google-text-to-speach/internal/domain/tts"
	"github.com/x4x3r/google-text-to-speach/internal/infrastructure/wav"
	"github.com/x4x3r/google-text-to-speach/internal/logging"
	"github.com/x4x3r/google-text-to-speach/internal/usecase/speech"
)

const maxRequestChars = 5000

// synthesizeRequest is the body of POST /synthesize.
type synthesizeRequest struct {
	Text      string `json:"text"`
	Voice     string `json:"voice"`
	ChunkSize int    `json:"chunkSize"`
	Strategy  string `json:"strategy"`
}

// SpeechHandler renders request text to a WAV response.
type SpeechHandler struct {
	synth  tts.Synthesizer
	format wav.Format
	logger *log.Logger
}

func NewSpeechHandler(synth tts.Synthesizer, format wav.Format) *SpeechHandler {
	return &SpeechHandler{synth: synth, format: format, logger: logging.Named("handler")}
}

// Register registers routes to app.
func (h *SpeechHandler) Register(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Post("/synthesize", h.synthesize)
}

func (h *SpeechHandler) synthesize(c *fiber.Ctx) error {
	var req synthesizeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "text required")
	}
	if n := len([]rune(req.Text)); n > maxRequestChars {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "text too long")
	}
	strategy, err := text.ParseStrategy(req.Strategy)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	synth := h.synth
	if req.Voice != "" {
		vs, ok := synth.(tts.VoiceSelector)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "voice selection not supported by this backend")
		}
		synth = vs.WithVoiceName(req.Voice)
	}

	h.logger.Info("synthesize", "chars", len([]rune(req.Text)), "voice", req.Voice, "chunkSize", req.ChunkSize, "strategy", strategy)
	data, err := speech.NewGenerateWAVFromText(synth, nil, h.format).Render(c.Context(), req.Text, req.ChunkSize, strategy)
	switch {
	case errors.Is(err, text.ErrInvalidChunkSize):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case err != nil:
		h.logger.Error("synthesize failed", "err", err)
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	c.Set(fiber.HeaderContentType, "audio/wav")
	return c.Send(data)
}
