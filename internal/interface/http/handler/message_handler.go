package handler

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/x4x3r/google-text-to-speach/internal/logging"
	"github.com/x4x3r/google-text-to-speach/internal/usecase"
	ucmsg "github.com/x4x3r/google-text-to-speach/internal/usecase/message"
	"github.com/x4x3r/google-text-to-speach/internal/usecase/speech"
)

// MessageHandler bundles dependencies for message-related HTTP routes.
type MessageHandler struct {
	uc     usecase.UseCase[ucmsg.GenerateWAVFromMessageInput, ucmsg.GenerateWAVFromMessageOutput]
	logger *log.Logger
}

func NewMessageHandler(uc usecase.UseCase[ucmsg.GenerateWAVFromMessageInput, ucmsg.GenerateWAVFromMessageOutput]) *MessageHandler {
	return &MessageHandler{uc: uc, logger: logging.Named("handler")}
}

// Register registers routes to app.
func (h *MessageHandler) Register(app *fiber.App) {
	app.Post("/messages/:id/wav", h.generateWAV)
}

func (h *MessageHandler) generateWAV(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "id required")
	}
	limitChars := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limitChars = n
		}
	}
	h.logger.Info("generateWAV", "id", id, "limit", limitChars)

	out, err := h.uc.Execute(c.Context(), &ucmsg.GenerateWAVFromMessageInput{
		MessageID:  id,
		LimitChars: limitChars,
		Upload:     c.QueryBool("upload"),
	})
	if errors.Is(err, speech.ErrEmptyText) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "message has no text content")
	}
	if err != nil {
		h.logger.Error("generateWAV failed", "id", id, "err", err)
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	h.logger.Info("generateWAV done", "path", out.LocalPath, "bytes", out.Bytes)
	return c.JSON(out)
}
