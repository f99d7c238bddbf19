package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"blogcms/internal/domain"
	"blogcms/internal/pkg/i18n"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorHandler maps the comment error taxonomy onto HTTP. Validation
// failures get a generic message so spam bots learn nothing about the rules.
func NewErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		locale := i18n.Negotiate(c.Get(fiber.HeaderAcceptLanguage))
		traceID := uuid.New().String()[:8]

		status, code, key := classify(err)
		message := i18n.Translate(locale, key)

		// fiber errors raised by handlers carry a catalog key or plain text.
		var fErr *fiber.Error
		if key == "" && errors.As(err, &fErr) {
			message = i18n.Translate(locale, fErr.Message)
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("trace_id", traceID),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		} else if errors.Is(err, domain.ErrValidation) {
			logger.Debug("comment rejected", zap.String("trace_id", traceID), zap.Error(err))
		}

		return c.Status(status).JSON(ErrorResponse{
			Code:    code,
			Message: message,
			TraceID: traceID,
		})
	}
}

func classify(err error) (status int, code, key string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "COMMENT_REJECTED"
	case errors.Is(err, domain.ErrCommentNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "COMMENT_NOT_FOUND"
	case errors.Is(err, domain.ErrVersionConflict):
		return fiber.StatusConflict, "CONFLICT", "COMMENT_CONFLICT"
	case errors.Is(err, domain.ErrInvalidAction):
		return fiber.StatusBadRequest, "BAD_REQUEST", "INVALID_ACTION"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable, "TRY_AGAIN", "STORE_UNAVAILABLE"
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidToken):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "UNAUTHORIZED"
	}

	var fErr *fiber.Error
	if errors.As(err, &fErr) {
		return fErr.Code, fiberErrorCode(fErr.Code), ""
	}
	return fiber.StatusInternalServerError, "INTERNAL_ERROR", "INTERNAL_ERROR"
}

func fiberErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case fiber.StatusServiceUnavailable:
		return "TRY_AGAIN"
	default:
		return "INTERNAL_ERROR"
	}
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}
