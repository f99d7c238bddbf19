package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"blogcms/internal/domain"
)

type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID uuid.UUID, status domain.CommentStatus) ([]domain.Comment, error) {
	args := m.Called(ctx, postID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *CommentRepository) ListForAdmin(ctx context.Context, filter domain.CommentFilter, params domain.PaginationParams) ([]domain.Comment, int64, error) {
	args := m.Called(ctx, filter, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *CommentRepository) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.StatusCounts), args.Error(1)
}

func (m *CommentRepository) UpdateModeration(ctx context.Context, update domain.ModerationUpdate) (*domain.Comment, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
