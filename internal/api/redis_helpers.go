package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// dailyKey 返回按 UTC 日期分桶的计数 key，例如 extract:limit:<ip>:20240101。
func dailyKey(prefix, subject string, now time.Time) string {
	return fmt.Sprintf("%s:%s:%s", prefix, subject, now.UTC().Format("20060102"))
}

// incrWithTTL 递增计数，首次写入时设置过期时间。
// 过期设置失败时仍返回当前计数，同时返回错误。
func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}
	if count == 1 {
		if err := client.Expire(ctx, key, ttl).Err(); err != nil {
			return count, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return count, nil
}
