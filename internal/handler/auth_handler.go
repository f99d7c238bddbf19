package handler

import (
	"github.com/gofiber/fiber/v2"

	"blogcms/internal/middleware"
	"blogcms/internal/service/auth"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input auth.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("INVALID_BODY")
	}

	token, err := h.authService.Login(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(token)
}
