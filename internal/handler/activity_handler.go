package handler

import (
	"github.com/gofiber/fiber/v2"

	"blogcms/internal/service/audit"
)

// ActivityHandler exposes the moderation activity log to the admin panel.
type ActivityHandler struct {
	auditService audit.Service
}

func NewActivityHandler(auditService audit.Service) *ActivityHandler {
	return &ActivityHandler{auditService: auditService}
}

func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	page, err := h.auditService.Recent(c.Context(), getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

func (h *ActivityHandler) History(c *fiber.Ctx) error {
	id, err := parseCommentID(c)
	if err != nil {
		return err
	}

	page, err := h.auditService.ForComment(c.Context(), id, getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(page)
}
