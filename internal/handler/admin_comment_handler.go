package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"blogcms/internal/domain"
	"blogcms/internal/middleware"
	"blogcms/internal/service/comment"
)

// AdminCommentHandler serves the moderation panel. Every route sits behind
// middleware.AdminRequired.
type AdminCommentHandler struct {
	commentService comment.Service
}

func NewAdminCommentHandler(commentService comment.Service) *AdminCommentHandler {
	return &AdminCommentHandler{commentService: commentService}
}

func parseCommentID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("INVALID_ID")
	}
	return id, nil
}

func (h *AdminCommentHandler) List(c *fiber.Ctx) error {
	filter, ok := domain.ParseCommentFilter(c.Query("filter"))
	if !ok {
		return middleware.BadRequest("INVALID_FILTER")
	}

	page, err := h.commentService.ListForAdmin(c.Context(), filter, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(page)
}

func (h *AdminCommentHandler) Counts(c *fiber.Ctx) error {
	counts, err := h.commentService.CountByStatus(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(counts)
}

func (h *AdminCommentHandler) Moderate(c *fiber.Ctx) error {
	moderator, err := middleware.GetModerator(c)
	if err != nil {
		return err
	}
	id, err := parseCommentID(c)
	if err != nil {
		return err
	}

	var input domain.ModerateInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("INVALID_BODY")
	}

	updated, err := h.commentService.Moderate(c.Context(), moderator, id, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *AdminCommentHandler) Delete(c *fiber.Ctx) error {
	moderator, err := middleware.GetModerator(c)
	if err != nil {
		return err
	}
	id, err := parseCommentID(c)
	if err != nil {
		return err
	}

	if err := h.commentService.Delete(c.Context(), moderator, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminCommentHandler) Reply(c *fiber.Ctx) error {
	moderator, err := middleware.GetModerator(c)
	if err != nil {
		return err
	}
	parentID, err := parseCommentID(c)
	if err != nil {
		return err
	}

	var input domain.AdminReplyInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("INVALID_BODY")
	}

	reply, err := h.commentService.ReplyAsAdmin(c.Context(), moderator, parentID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(reply)
}

// ApproveThread answers 207 when some approvals failed; the body still
// carries the approved count and the ids that did not complete.
func (h *AdminCommentHandler) ApproveThread(c *fiber.Ctx) error {
	moderator, err := middleware.GetModerator(c)
	if err != nil {
		return err
	}
	id, err := parseCommentID(c)
	if err != nil {
		return err
	}

	result, err := h.commentService.ApproveThreadByID(c.Context(), moderator, id)
	var bulkErr *domain.BulkApproveError
	if errors.As(err, &bulkErr) {
		return c.Status(fiber.StatusMultiStatus).JSON(fiber.Map{
			"approved_count": result.ApprovedCount,
			"failures":       result.Failures,
			"error":          bulkErr.Err.Error(),
		})
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
