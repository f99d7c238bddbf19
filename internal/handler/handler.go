package handler

import (
	"github.com/gofiber/fiber/v2"

	"blogcms/internal/domain"
	"blogcms/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	Comment      *CommentHandler
	AdminComment *AdminCommentHandler
	Activity     *ActivityHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Comment:      NewCommentHandler(services.Comment),
		AdminComment: NewAdminCommentHandler(services.Comment),
		Activity:     NewActivityHandler(services.Audit),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", domain.DefaultPageSize); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}
