package audit

import (
	"context"

	"github.com/google/uuid"

	"blogcms/internal/domain"
	"blogcms/internal/repository"
)

// Service keeps the moderation activity log shown in the admin panel.
type Service interface {
	Record(ctx context.Context, input domain.CreateModerationEventInput) error
	Forget(ctx context.Context, commentID uuid.UUID) error
	Recent(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.ModerationEvent], error)
	ForComment(ctx context.Context, commentID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.ModerationEvent], error)
}

type service struct {
	eventRepo repository.ModerationEventRepository
}

func NewService(eventRepo repository.ModerationEventRepository) Service {
	return &service{eventRepo: eventRepo}
}

func (s *service) Record(ctx context.Context, input domain.CreateModerationEventInput) error {
	_, err := repository.RecordModerationEvent(ctx, s.eventRepo, input)
	return err
}

func (s *service) Forget(ctx context.Context, commentID uuid.UUID) error {
	return s.eventRepo.DeleteByComment(ctx, commentID)
}

func (s *service) Recent(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.ModerationEvent], error) {
	params.Validate()
	events, total, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.ModerationEvent]{}, err
	}
	return domain.NewPaginatedResponse(events, params.Page, params.PageSize, total), nil
}

func (s *service) ForComment(ctx context.Context, commentID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.ModerationEvent], error) {
	params.Validate()
	events, total, err := s.eventRepo.ListByComment(ctx, commentID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.ModerationEvent]{}, err
	}
	return domain.NewPaginatedResponse(events, params.Page, params.PageSize, total), nil
}
