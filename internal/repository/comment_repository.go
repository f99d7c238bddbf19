package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogcms/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID, status domain.CommentStatus) ([]domain.Comment, error)
	ListForAdmin(ctx context.Context, filter domain.CommentFilter, params domain.PaginationParams) ([]domain.Comment, int64, error)
	CountByStatus(ctx context.Context) (domain.StatusCounts, error)
	UpdateModeration(ctx context.Context, update domain.ModerationUpdate) (*domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewCommentRepository(db *sqlx.DB, timeout time.Duration) CommentRepository {
	return &commentRepository{db: db, timeout: timeout}
}

const commentColumns = `id, post_id, parent_id, author_name, author_email, content, status,
	moderated_by, moderated_at, version, created_at, updated_at`

func (r *commentRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO comments (id, post_id, parent_id, author_name, author_email, content, status, moderated_by, moderated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING version, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		comment.ID, comment.PostID, comment.ParentID, comment.AuthorName, comment.AuthorEmail,
		comment.Content, comment.Status, comment.ModeratedBy, comment.ModeratedAt,
	).Scan(&comment.Version, &comment.CreatedAt, &comment.UpdatedAt)
	return classify(err, "create comment")
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var comment domain.Comment
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		return nil, classify(err, "get comment")
	}
	return &comment, nil
}

// ListByPost returns every comment of a post, newest first. An empty status
// returns all statuses.
func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID, status domain.CommentStatus) ([]domain.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	comments := []domain.Comment{}
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE post_id = $1 AND ($2::text = '' OR status = $2::text)
		ORDER BY created_at DESC, id DESC`

	if err := r.db.SelectContext(ctx, &comments, query, postID, string(status)); err != nil {
		return nil, classify(err, "list comments by post")
	}
	return comments, nil
}

func (r *commentRepository) ListForAdmin(ctx context.Context, filter domain.CommentFilter, params domain.PaginationParams) ([]domain.Comment, int64, error) {
	params.Validate()
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	status := string(filter.Status())

	var total int64
	countQuery := `SELECT COUNT(*) FROM comments WHERE ($1::text = '' OR status = $1::text)`
	if err := r.db.GetContext(ctx, &total, countQuery, status); err != nil {
		return nil, 0, classify(err, "count comments")
	}

	comments := []domain.Comment{}
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	if err := r.db.SelectContext(ctx, &comments, query, status, params.PageSize, params.Offset()); err != nil {
		return nil, 0, classify(err, "list comments")
	}

	return comments, total, nil
}

func (r *commentRepository) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rows []struct {
		Status domain.CommentStatus `db:"status"`
		Count  int64                `db:"count"`
	}
	query := `SELECT status, COUNT(*) AS count FROM comments GROUP BY status`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return domain.StatusCounts{}, classify(err, "count comments by status")
	}

	var counts domain.StatusCounts
	for _, row := range rows {
		switch row.Status {
		case domain.StatusPending:
			counts.Pending = row.Count
		case domain.StatusApproved:
			counts.Approved = row.Count
		case domain.StatusSpam:
			counts.Spam = row.Count
		}
		counts.All += row.Count
	}
	return counts, nil
}

// UpdateModeration writes status and audit fields. A non-zero ExpectedVersion
// turns the write into an optimistic-lock update.
func (r *commentRepository) UpdateModeration(ctx context.Context, update domain.ModerationUpdate) (*domain.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE comments
		SET status = $2, moderated_by = $3, moderated_at = $4, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND ($5::bigint = 0 OR version = $5::bigint)
		RETURNING ` + commentColumns

	var comment domain.Comment
	err := r.db.QueryRowxContext(ctx, query,
		update.ID, update.Status, update.ModeratedBy, update.ModeratedAt, update.ExpectedVersion,
	).StructScan(&comment)
	if err == nil {
		return &comment, nil
	}
	if !errors.Is(err, sql.ErrNoRows) || update.ExpectedVersion == 0 {
		return nil, classify(err, "update comment moderation")
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)`, update.ID); err != nil {
		return nil, classify(err, "check comment")
	}
	if exists {
		return nil, domain.ErrVersionConflict
	}
	return nil, domain.ErrCommentNotFound
}

// Delete removes the comment permanently. Replies keep their parent_id and
// surface as orphans.
func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete comment")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return classify(err, "delete comment")
	}
	if affected == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

// classify maps driver errors onto the domain taxonomy.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCommentNotFound
	}
	if isTransient(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
