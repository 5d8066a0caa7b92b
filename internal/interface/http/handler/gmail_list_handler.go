package handler

import (
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/x4x3r/google-text-to-speach/internal/domain/message"
	"github.com/x4x3r/google-text-to-speach/internal/logging"
)

// GmailListHandler serves inbox listings.
type GmailListHandler struct {
	repo   message.Repository
	logger *log.Logger
}

func NewGmailListHandler(repo message.Repository) *GmailListHandler {
	return &GmailListHandler{repo: repo, logger: logging.Named("handler")}
}

// Register sets up /messages endpoints for listing.
func (h *GmailListHandler) Register(app *fiber.App) {
	app.Get("/messages", h.listMessages)
	app.Get("/messages/latest", h.latestMessage)
}

func (h *GmailListHandler) listMessages(c *fiber.Ctx) error {
	// Parse max query param (default 5)
	max := int64(5)
	if m := c.Query("max"); m != "" {
		if v, err := strconv.ParseInt(m, 10, 64); err == nil && v > 0 {
			max = v
		}
	}
	return h.list(c, max)
}

func (h *GmailListHandler) latestMessage(c *fiber.Ctx) error {
	return h.list(c, 1)
}

func (h *GmailListHandler) list(c *fiber.Ctx, max int64) error {
	q := c.Query("q")
	h.logger.Info("list messages", "max", max, "q", q)

	summaries, err := h.repo.List(c.Context(), q, max)
	if err != nil {
		h.logger.Error("failed fetch messages", "err", err)
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(fiber.Map{"messages": summaries})
}
