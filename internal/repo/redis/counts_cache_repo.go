package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

const countsKeyPrefix = "cache:moderation:counts:"

// CountsCacheRepo keeps recomputed queue counts for a bounded time. Nothing
// increments these keys; they are only overwritten or expire.
type CountsCacheRepo struct {
	client *goredis.Client
}

func NewCountsCacheRepo(client *goredis.Client) *CountsCacheRepo {
	return &CountsCacheRepo{client: client}
}

func (r *CountsCacheRepo) Get(ctx context.Context, category enums.Category) (model.QueueCounts, bool, error) {
	if r.client == nil {
		return model.QueueCounts{}, false, fmt.Errorf("redis client is nil")
	}

	raw, err := r.client.Get(ctx, countsKey(category)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return model.QueueCounts{}, false, nil
	}
	if err != nil {
		return model.QueueCounts{}, false, fmt.Errorf("get cached counts: %w", err)
	}

	var counts model.QueueCounts
	if err := json.Unmarshal(raw, &counts); err != nil {
		return model.QueueCounts{}, false, fmt.Errorf("decode cached counts: %w", err)
	}
	return counts, true, nil
}

func (r *CountsCacheRepo) Set(ctx context.Context, category enums.Category, counts model.QueueCounts, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("encode counts: %w", err)
	}
	if err := r.client.Set(ctx, countsKey(category), raw, ttl).Err(); err != nil {
		return fmt.Errorf("set cached counts: %w", err)
	}
	return nil
}

func countsKey(category enums.Category) string {
	return countsKeyPrefix + string(category)
}
