package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"blogcms/internal/domain"
	"blogcms/internal/middleware"
	"blogcms/internal/pkg/i18n"
	"blogcms/internal/pkg/render"
	"blogcms/internal/service/comment"
)

// CommentHandler serves the public comment widget.
type CommentHandler struct {
	commentService comment.Service
}

func NewCommentHandler(commentService comment.Service) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type publicComment struct {
	ID          uuid.UUID  `json:"id"`
	ParentID    *uuid.UUID `json:"parent_id"`
	AuthorName  string     `json:"author_name"`
	AvatarHash  string     `json:"avatar_hash,omitempty"`
	Content     string     `json:"content"`
	ContentHTML string     `json:"content_html"`
	CreatedAt   time.Time  `json:"created_at"`
}

type publicThread struct {
	publicComment
	Replies []publicComment `json:"replies"`
}

func toPublicComment(c *domain.Comment) publicComment {
	return publicComment{
		ID:          c.ID,
		ParentID:    c.ParentID,
		AuthorName:  c.AuthorName,
		AvatarHash:  c.AvatarHash(),
		Content:     c.Content,
		ContentHTML: render.Comment(c.Content),
		CreatedAt:   c.CreatedAt,
	}
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return middleware.BadRequest("INVALID_POST_ID")
	}

	threads, err := h.commentService.ListForPost(c.Context(), postID)
	if err != nil {
		return err
	}

	out := make([]publicThread, 0, len(threads))
	for _, node := range threads {
		thread := publicThread{
			publicComment: toPublicComment(&node.Comment),
			Replies:       make([]publicComment, 0, len(node.Replies)),
		}
		for _, reply := range node.Replies {
			thread.Replies = append(thread.Replies, toPublicComment(&reply.Comment))
		}
		out = append(out, thread)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"post_id":  postID,
		"comments": out,
	})
}

// Create accepts a reader submission. A filled honeypot gets the same answer
// as a real submission, but nothing is stored.
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return middleware.BadRequest("INVALID_POST_ID")
	}

	var input domain.SubmitCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("INVALID_BODY")
	}

	locale := i18n.Negotiate(c.Get(fiber.HeaderAcceptLanguage))

	created, err := h.commentService.Submit(c.Context(), postID, input)
	if err != nil {
		if !domain.IsHoneypot(err) {
			return err
		}
		created = decoyComment(postID, input)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  created.Status,
		"message": i18n.Translate(locale, "COMMENT_RECEIVED"),
		"comment": created,
	})
}

// decoyComment echoes a honeypot submission back as if it had been stored.
func decoyComment(postID uuid.UUID, input domain.SubmitCommentInput) *domain.Comment {
	now := time.Now().UTC()
	return &domain.Comment{
		ID:          uuid.New(),
		PostID:      postID,
		ParentID:    input.ParentID,
		AuthorName:  strings.TrimSpace(input.AuthorName),
		AuthorEmail: input.AuthorEmail,
		Content:     strings.TrimSpace(input.Content),
		Status:      domain.StatusPending,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
