package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore хранит счётчики окон в Redis: при нескольких экземплярах
// сервиса счётчики в памяти процесса недопускают корректного ограничения,
// общий INCR с TTL — допускает.
type RedisStore struct {
	db *redis.Client
}

// NewRedisStore создаёт хранилище счётчиков поверх клиента Redis.
func NewRedisStore(db *redis.Client) *RedisStore {
	return &RedisStore{db: db}
}

// Incr атомарно увеличивает счётчик окна ключа. Окно создаётся первым
// обращением: EXPIRE перезаписывается только если TTL ещё не выставлен,
// поэтому границы окна одинаковы для всех экземпляров.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	const op = "ratelimit.RedisStore.Incr"

	redisKey := "ratelimit:" + key

	pipe := s.db.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	expiresIn := ttl.Val()
	if expiresIn < 0 {
		expiresIn = window
	}
	return int(incr.Val()), expiresIn, nil
}
