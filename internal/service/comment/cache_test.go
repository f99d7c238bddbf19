package comment

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogcms/internal/domain"
	"blogcms/internal/mocks"
	"blogcms/internal/repository"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return s, client
}

func TestThreadCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	s, client := newRedis(t)
	cache := &threadCache{client: client, ttl: time.Minute}
	postID := uuid.New()

	_, ok := cache.get(ctx, postID)
	assert.False(t, ok)

	email := "ada@example.com"
	root := record(1, 0, 0)
	root.AuthorEmail = &email
	threads := TwoLevel(BuildThreads([]domain.Comment{root, record(2, 1, 1)}))
	require.NoError(t, cache.set(ctx, postID, threads))
	assert.True(t, s.Exists(threadCacheKey(postID)))
	assert.Equal(t, time.Minute, s.TTL(threadCacheKey(postID)))

	cached, ok := cache.get(ctx, postID)
	require.True(t, ok)
	require.Len(t, cached, 1)
	assert.Equal(t, testID(1), cached[0].Comment.ID)
	assert.Equal(t, []uuid.UUID{testID(2)}, ids(cached[0].Replies))
	assert.Nil(t, cached[0].Comment.AuthorEmail)
	raw, err := s.Get(threadCacheKey(postID))
	require.NoError(t, err)
	assert.NotContains(t, raw, email)
	assert.Equal(t, root.AvatarHash(), cached[0].Comment.AvatarHash())
	assert.Empty(t, cached[0].Replies[0].Comment.AvatarHash())

	require.NoError(t, cache.invalidate(ctx, postID, uuid.New()))
	assert.False(t, s.Exists(threadCacheKey(postID)))
}

func TestThreadCache_NilClient(t *testing.T) {
	ctx := context.Background()
	cache := &threadCache{}

	assert.NoError(t, cache.set(ctx, uuid.New(), nil))
	assert.NoError(t, cache.invalidate(ctx, uuid.New()))
	_, ok := cache.get(ctx, uuid.New())
	assert.False(t, ok)
}

func TestThreadCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	s, client := newRedis(t)
	cache := &threadCache{client: client, ttl: time.Minute}
	postID := uuid.New()

	require.NoError(t, s.Set(threadCacheKey(postID), "{not json"))

	_, ok := cache.get(ctx, postID)
	assert.False(t, ok)
}

func TestService_ListForPost_UsesCache(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	mockRepo := new(mocks.CommentRepository)
	svc := NewService(mockRepo, client, Options{}).(*service)
	postID := uuid.New()

	email := "ada@example.com"
	approved := domain.Comment{ID: uuid.New(), PostID: postID, AuthorName: "Ada", AuthorEmail: &email, Content: "hi", Status: domain.StatusApproved}
	mockRepo.On("ListByPost", ctx, postID, domain.StatusApproved).Return([]domain.Comment{approved}, nil).Once()

	first, err := svc.ListForPost(ctx, postID)
	require.NoError(t, err)
	second, err := svc.ListForPost(ctx, postID)
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].Comment.ID, second[0].Comment.ID)
	assert.NotEmpty(t, second[0].Comment.AvatarHash())
	assert.Equal(t, approved.AvatarHash(), second[0].Comment.AvatarHash())
	mockRepo.AssertNumberOfCalls(t, "ListByPost", 1)
}

func TestService_ModerationInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	repo := repository.NewMemoryCommentRepository()
	svc := NewService(repo, client, Options{}).(*service)
	postID := uuid.New()

	c := seed(t, repo, postID, nil, domain.StatusPending, 0)

	threads, err := svc.ListForPost(ctx, postID)
	require.NoError(t, err)
	assert.Empty(t, threads)

	_, err = svc.Moderate(ctx, moderator, c.ID, domain.ModerateInput{Action: domain.ActionApprove})
	require.NoError(t, err)

	threads, err = svc.ListForPost(ctx, postID)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, c.ID, threads[0].Comment.ID)

	_, err = svc.ReplyAsAdmin(ctx, moderator, c.ID, domain.AdminReplyInput{Content: "thanks"})
	require.NoError(t, err)

	threads, err = svc.ListForPost(ctx, postID)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Len(t, threads[0].Replies, 1)
}

func TestService_SubmitDoesNotTouchCache(t *testing.T) {
	ctx := context.Background()
	s, client := newRedis(t)
	mockRepo := new(mocks.CommentRepository)
	svc := NewService(mockRepo, client, Options{}).(*service)
	postID := uuid.New()

	mockRepo.On("ListByPost", ctx, postID, domain.StatusApproved).Return([]domain.Comment{}, nil).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Comment")).Return(nil).Once()

	_, err := svc.ListForPost(ctx, postID)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, postID, domain.SubmitCommentInput{AuthorName: "Ada", Content: "hi"})
	require.NoError(t, err)

	assert.True(t, s.Exists(threadCacheKey(postID)))
	mockRepo.AssertExpectations(t)
}
