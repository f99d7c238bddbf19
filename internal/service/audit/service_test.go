package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogcms/internal/domain"
	"blogcms/internal/repository"
)

func TestService_RecordAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewService(repository.NewMemoryModerationEventRepository())
	commentID := uuid.New()
	other := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(ctx, domain.CreateModerationEventInput{
			ModeratorID: "admin",
			Action:      domain.EventModerated,
			CommentID:   commentID,
			Details:     map[string]any{"n": i},
		}))
	}
	require.NoError(t, svc.Record(ctx, domain.CreateModerationEventInput{
		ModeratorID: "admin",
		Action:      domain.EventReplied,
		CommentID:   other,
	}))

	recent, err := svc.Recent(ctx, domain.PaginationParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), recent.Total)
	assert.Equal(t, 2, recent.TotalPages)
	require.Len(t, recent.Data, 2)
	assert.Equal(t, domain.EventReplied, recent.Data[0].Action)

	history, err := svc.ForComment(ctx, commentID, domain.DefaultPagination())
	require.NoError(t, err)
	require.Len(t, history.Data, 3)

	var details map[string]int
	require.NoError(t, json.Unmarshal(history.Data[0].Details, &details))
	assert.Equal(t, 2, details["n"])

	require.NoError(t, svc.Forget(ctx, commentID))
	history, err = svc.ForComment(ctx, commentID, domain.DefaultPagination())
	require.NoError(t, err)
	assert.Empty(t, history.Data)
	assert.Zero(t, history.Total)
}
