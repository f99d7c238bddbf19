package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"blogcms/internal/domain"
)

type Notifier struct {
	mock.Mock
}

func (m *Notifier) NotifyNewComment(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *Notifier) NotifyAdminReply(ctx context.Context, parent, reply *domain.Comment) error {
	args := m.Called(ctx, parent, reply)
	return args.Error(0)
}
