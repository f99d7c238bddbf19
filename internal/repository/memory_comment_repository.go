package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"blogcms/internal/domain"
)

// MemoryCommentRepository keeps comments in process memory. It backs local
// development without Postgres and the service tests.
type MemoryCommentRepository struct {
	mu       sync.RWMutex
	comments map[uuid.UUID]domain.Comment
	now      func() time.Time
}

func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{
		comments: make(map[uuid.UUID]domain.Comment),
		now:      time.Now,
	}
}

func (r *MemoryCommentRepository) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	comment.UpdatedAt = now
	comment.Version = 1
	r.comments[comment.ID] = *comment
	return nil
}

func (r *MemoryCommentRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	return &c, nil
}

func (r *MemoryCommentRepository) ListByPost(_ context.Context, postID uuid.UUID, status domain.CommentStatus) ([]domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Comment{}
	for _, c := range r.comments {
		if c.PostID == postID && (status == "" || c.Status == status) {
			out = append(out, c)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryCommentRepository) ListForAdmin(_ context.Context, filter domain.CommentFilter, params domain.PaginationParams) ([]domain.Comment, int64, error) {
	params.Validate()
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := filter.Status()
	matched := []domain.Comment{}
	for _, c := range r.comments {
		if status == "" || c.Status == status {
			matched = append(matched, c)
		}
	}
	sortNewestFirst(matched)

	total := int64(len(matched))
	start := params.Offset()
	if start >= len(matched) {
		return []domain.Comment{}, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MemoryCommentRepository) CountByStatus(_ context.Context) (domain.StatusCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var counts domain.StatusCounts
	for _, c := range r.comments {
		switch c.Status {
		case domain.StatusPending:
			counts.Pending++
		case domain.StatusApproved:
			counts.Approved++
		case domain.StatusSpam:
			counts.Spam++
		}
		counts.All++
	}
	return counts, nil
}

func (r *MemoryCommentRepository) UpdateModeration(_ context.Context, update domain.ModerationUpdate) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.comments[update.ID]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	if update.ExpectedVersion != 0 && c.Version != update.ExpectedVersion {
		return nil, domain.ErrVersionConflict
	}

	moderatedBy := update.ModeratedBy
	moderatedAt := update.ModeratedAt
	c.Status = update.Status
	c.ModeratedBy = &moderatedBy
	c.ModeratedAt = &moderatedAt
	c.Version++
	c.UpdatedAt = r.now().UTC()
	r.comments[c.ID] = c
	return &c, nil
}

func (r *MemoryCommentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

func sortNewestFirst(comments []domain.Comment) {
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID.String() > comments[j].ID.String()
		}
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
}
