package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Comment         CommentRepository
	ModerationEvent ModerationEventRepository
}

func NewRepositories(db *sqlx.DB, timeout time.Duration) *Repositories {
	return &Repositories{
		Comment:         NewCommentRepository(db, timeout),
		ModerationEvent: NewModerationEventRepository(db, timeout),
	}
}

// NewMemoryRepositories keeps everything in process memory.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Comment:         NewMemoryCommentRepository(),
		ModerationEvent: NewMemoryModerationEventRepository(),
	}
}
