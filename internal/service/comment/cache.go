package comment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"blogcms/internal/domain"
)

// threadCache keeps the public thread listing of each post in Redis. A nil
// client disables it.
type threadCache struct {
	client *redis.Client
	ttl    time.Duration
}

func threadCacheKey(postID uuid.UUID) string {
	return fmt.Sprintf("comments:post:%s:threads", postID)
}

func (c *threadCache) get(ctx context.Context, postID uuid.UUID) ([]*domain.ThreadNode, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	cached, err := c.client.Get(ctx, threadCacheKey(postID)).Result()
	if err != nil {
		return nil, false
	}
	var threads []*domain.ThreadNode
	if json.Unmarshal([]byte(cached), &threads) != nil {
		return nil, false
	}
	return threads, true
}

func (c *threadCache) set(ctx context.Context, postID uuid.UUID, threads []*domain.ThreadNode) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(threads)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, threadCacheKey(postID), data, c.ttl).Err()
}

func (c *threadCache) invalidate(ctx context.Context, postIDs ...uuid.UUID) error {
	if c == nil || c.client == nil || len(postIDs) == 0 {
		return nil
	}
	keys := make([]string, len(postIDs))
	for i, id := range postIDs {
		keys[i] = threadCacheKey(id)
	}
	return c.client.Del(ctx, keys...).Err()
}
