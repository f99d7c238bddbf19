package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"blogcms/internal/domain"
)

type MemoryModerationEventRepository struct {
	mu     sync.RWMutex
	events []domain.ModerationEvent
	now    func() time.Time
}

func NewMemoryModerationEventRepository() *MemoryModerationEventRepository {
	return &MemoryModerationEventRepository{now: time.Now}
}

func (r *MemoryModerationEventRepository) Create(_ context.Context, event *domain.ModerationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.CreatedAt = r.now().UTC()
	r.events = append(r.events, *event)
	return nil
}

func (r *MemoryModerationEventRepository) List(_ context.Context, params domain.PaginationParams) ([]domain.ModerationEvent, int64, error) {
	return r.page(func(domain.ModerationEvent) bool { return true }, params)
}

func (r *MemoryModerationEventRepository) ListByComment(_ context.Context, commentID uuid.UUID, params domain.PaginationParams) ([]domain.ModerationEvent, int64, error) {
	return r.page(func(e domain.ModerationEvent) bool { return e.CommentID == commentID }, params)
}

func (r *MemoryModerationEventRepository) DeleteByComment(_ context.Context, commentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.events[:0]
	for _, e := range r.events {
		if e.CommentID != commentID {
			kept = append(kept, e)
		}
	}
	r.events = kept
	return nil
}

func (r *MemoryModerationEventRepository) page(match func(domain.ModerationEvent) bool, params domain.PaginationParams) ([]domain.ModerationEvent, int64, error) {
	params.Validate()
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []domain.ModerationEvent{}
	for i := len(r.events) - 1; i >= 0; i-- {
		if match(r.events[i]) {
			matched = append(matched, r.events[i])
		}
	}
	// Insertion order breaks ties between events with the same timestamp.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := params.Offset()
	if start >= len(matched) {
		return []domain.ModerationEvent{}, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
