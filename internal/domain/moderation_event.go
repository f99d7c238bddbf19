package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Moderation event actions.
const (
	EventModerated      = "moderate"
	EventReplied        = "reply"
	EventThreadApproved = "approve_thread"
)

// ModerationEvent is one entry in the moderation activity log. Events are
// removed together with their comment.
type ModerationEvent struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	ModeratorID string          `json:"moderator_id" db:"moderator_id"`
	Action      string          `json:"action" db:"action"`
	CommentID   uuid.UUID       `json:"comment_id" db:"comment_id"`
	PostID      uuid.UUID       `json:"post_id" db:"post_id"`
	Details     json.RawMessage `json:"details,omitempty" db:"details"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type CreateModerationEventInput struct {
	ModeratorID string
	Action      string
	CommentID   uuid.UUID
	PostID      uuid.UUID
	Details     interface{}
}
