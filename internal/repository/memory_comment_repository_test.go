package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogcms/internal/domain"
)

var epoch = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

func add(t *testing.T, repo *MemoryCommentRepository, postID uuid.UUID, status domain.CommentStatus, minutes int) *domain.Comment {
	t.Helper()
	c := &domain.Comment{
		ID:         uuid.New(),
		PostID:     postID,
		AuthorName: "Reader",
		Content:    "text",
		Status:     status,
		CreatedAt:  epoch.Add(time.Duration(minutes) * time.Minute),
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestMemoryCommentRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCommentRepository()
	repo.now = func() time.Time { return epoch }

	c := &domain.Comment{ID: uuid.New(), PostID: uuid.New(), AuthorName: "Ada", Content: "hi", Status: domain.StatusPending}
	require.NoError(t, repo.Create(ctx, c))

	assert.Equal(t, epoch, c.CreatedAt)
	assert.Equal(t, int64(1), c.Version)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, *c, *got)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)
}

func TestMemoryCommentRepository_ListByPost(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCommentRepository()
	postID := uuid.New()

	oldest := add(t, repo, postID, domain.StatusApproved, 0)
	newest := add(t, repo, postID, domain.StatusApproved, 10)
	spam := add(t, repo, postID, domain.StatusSpam, 5)
	add(t, repo, uuid.New(), domain.StatusApproved, 20)

	approved, err := repo.ListByPost(ctx, postID, domain.StatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 2)
	assert.Equal(t, newest.ID, approved[0].ID)
	assert.Equal(t, oldest.ID, approved[1].ID)

	all, err := repo.ListByPost(ctx, postID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, spam.ID, all[1].ID)
}

func TestMemoryCommentRepository_ListForAdmin_Pagination(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCommentRepository()
	postID := uuid.New()

	for i := 0; i < 25; i++ {
		add(t, repo, postID, domain.StatusPending, i)
	}
	add(t, repo, postID, domain.StatusSpam, 100)

	page, total, err := repo.ListForAdmin(ctx, domain.FilterPending, domain.PaginationParams{Page: 2, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.Equal(t, int64(25), total)
	for _, c := range page {
		assert.Equal(t, domain.StatusPending, c.Status)
	}

	beyond, total, err := repo.ListForAdmin(ctx, domain.FilterPending, domain.PaginationParams{Page: 9, PageSize: 20})
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.Equal(t, int64(25), total)

	all, total, err := repo.ListForAdmin(ctx, domain.FilterAll, domain.PaginationParams{Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, int64(26), total)
	assert.Equal(t, domain.StatusSpam, all[0].Status)
}

func TestMemoryCommentRepository_CountByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCommentRepository()
	postID := uuid.New()

	add(t, repo, postID, domain.StatusPending, 0)
	add(t, repo, postID, domain.StatusPending, 1)
	add(t, repo, postID, domain.StatusApproved, 2)
	add(t, repo, postID, domain.StatusSpam, 3)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCounts{Pending: 2, Approved: 1, Spam: 1, All: 4}, counts)
}

func TestMemoryCommentRepository_UpdateModeration(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCommentRepository()
	c := add(t, repo, uuid.New(), domain.StatusPending, 0)
	at := epoch.Add(time.Hour)

	updated, err := repo.UpdateModeration(ctx, domain.ModerationUpdate{
		ID:              c.ID,
		Status:          domain.StatusSpam,
		ModeratedBy:     "admin",
		ModeratedAt:     at,
		ExpectedVersion: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSpam, updated.Status)
	assert.Equal(t, int64(2), updated.Version)
	require.NotNil(t, updated.ModeratedBy)
	assert.Equal(t, "admin", *updated.ModeratedBy)
	assert.Equal(t, at, *updated.ModeratedAt)

	_, err = repo.UpdateModeration(ctx, domain.ModerationUpdate{ID: c.ID, Status: domain.StatusApproved, ExpectedVersion: 1})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	lastWrite, err := repo.UpdateModeration(ctx, domain.ModerationUpdate{ID: c.ID, Status: domain.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, lastWrite.Status)

	_, err = repo.UpdateModeration(ctx, domain.ModerationUpdate{ID: uuid.New(), Status: domain.StatusApproved})
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)
}

func TestMemoryCommentRepository_DeleteLeavesRepliesInPlace(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCommentRepository()
	postID := uuid.New()
	parent := add(t, repo, postID, domain.StatusApproved, 0)
	reply := &domain.Comment{ID: uuid.New(), PostID: postID, ParentID: &parent.ID, Status: domain.StatusApproved}
	require.NoError(t, repo.Create(ctx, reply))

	require.NoError(t, repo.Delete(ctx, parent.ID))

	got, err := repo.GetByID(ctx, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, *got.ParentID)

	assert.ErrorIs(t, repo.Delete(ctx, parent.ID), domain.ErrCommentNotFound)
}
