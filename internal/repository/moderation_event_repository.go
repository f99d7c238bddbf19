package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogcms/internal/domain"
)

type ModerationEventRepository interface {
	Create(ctx context.Context, event *domain.ModerationEvent) error
	List(ctx context.Context, params domain.PaginationParams) ([]domain.ModerationEvent, int64, error)
	ListByComment(ctx context.Context, commentID uuid.UUID, params domain.PaginationParams) ([]domain.ModerationEvent, int64, error)
	DeleteByComment(ctx context.Context, commentID uuid.UUID) error
}

type moderationEventRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewModerationEventRepository(db *sqlx.DB, timeout time.Duration) ModerationEventRepository {
	return &moderationEventRepository{db: db, timeout: timeout}
}

func (r *moderationEventRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *moderationEventRepository) Create(ctx context.Context, event *domain.ModerationEvent) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO moderation_events (id, moderator_id, action, comment_id, post_id, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	if len(event.Details) == 0 {
		event.Details = json.RawMessage(`{}`)
	}

	err := r.db.QueryRowxContext(ctx, query,
		event.ID, event.ModeratorID, event.Action, event.CommentID, event.PostID, []byte(event.Details),
	).Scan(&event.CreatedAt)
	return classify(err, "create moderation event")
}

func (r *moderationEventRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.ModerationEvent, int64, error) {
	params.Validate()
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM moderation_events`); err != nil {
		return nil, 0, classify(err, "count moderation events")
	}

	query := `
		SELECT id, moderator_id, action, comment_id, post_id, details, created_at
		FROM moderation_events
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	events := []domain.ModerationEvent{}
	if err := r.db.SelectContext(ctx, &events, query, params.PageSize, params.Offset()); err != nil {
		return nil, 0, classify(err, "list moderation events")
	}
	return events, total, nil
}

func (r *moderationEventRepository) ListByComment(ctx context.Context, commentID uuid.UUID, params domain.PaginationParams) ([]domain.ModerationEvent, int64, error) {
	params.Validate()
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	countQuery := `SELECT COUNT(*) FROM moderation_events WHERE comment_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, commentID); err != nil {
		return nil, 0, classify(err, "count moderation events")
	}

	query := `
		SELECT id, moderator_id, action, comment_id, post_id, details, created_at
		FROM moderation_events
		WHERE comment_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	events := []domain.ModerationEvent{}
	if err := r.db.SelectContext(ctx, &events, query, commentID, params.PageSize, params.Offset()); err != nil {
		return nil, 0, classify(err, "list moderation events")
	}
	return events, total, nil
}

func (r *moderationEventRepository) DeleteByComment(ctx context.Context, commentID uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM moderation_events WHERE comment_id = $1`, commentID)
	return classify(err, "delete moderation events")
}

// RecordModerationEvent encodes input.Details as JSON and stores the event.
func RecordModerationEvent(ctx context.Context, repo ModerationEventRepository, input domain.CreateModerationEventInput) (*domain.ModerationEvent, error) {
	event := &domain.ModerationEvent{
		ID:          uuid.New(),
		ModeratorID: input.ModeratorID,
		Action:      input.Action,
		CommentID:   input.CommentID,
		PostID:      input.PostID,
	}
	if input.Details != nil {
		details, err := json.Marshal(input.Details)
		if err != nil {
			return nil, err
		}
		event.Details = details
	}

	if err := repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}
