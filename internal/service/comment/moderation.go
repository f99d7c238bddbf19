package comment

import (
	"time"

	"github.com/google/uuid"

	"blogcms/internal/domain"
)

// Target returns the status an action leads to. Both actions are accepted
// from every state and nothing leads back to pending, so a comment un-flagged
// from spam becomes approved.
func Target(action domain.ModerationAction) (domain.CommentStatus, error) {
	switch action {
	case domain.ActionApprove:
		return domain.StatusApproved, nil
	case domain.ActionSpam:
		return domain.StatusSpam, nil
	default:
		return "", domain.ErrInvalidAction
	}
}

// Transition builds the full moderation update for applying action to the
// comment with the given id.
func Transition(id uuid.UUID, action domain.ModerationAction, moderator domain.Moderator, expectedVersion int64, now time.Time) (domain.ModerationUpdate, error) {
	status, err := Target(action)
	if err != nil {
		return domain.ModerationUpdate{}, err
	}
	return domain.ModerationUpdate{
		ID:              id,
		Status:          status,
		ModeratedBy:     moderator.ID,
		ModeratedAt:     now.UTC(),
		ExpectedVersion: expectedVersion,
	}, nil
}
