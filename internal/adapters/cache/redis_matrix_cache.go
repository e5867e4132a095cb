package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"collection-route-service/internal/instance"
)

const redisMatrixPrefix = "matrix_cache:"

// RedisMatrixCache keeps encoded matrices in Redis with an optional TTL.
// A zero TTL stores entries without expiry.
type RedisMatrixCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisMatrixCache(client *redis.Client, ttl time.Duration) *RedisMatrixCache {
	return &RedisMatrixCache{Client: client, TTL: ttl}
}

func (r *RedisMatrixCache) Get(ctx context.Context, nodeOrder []string) (*instance.TravelMatrix, error) {
	if r.Client == nil {
		return nil, errors.New("matrix cache: redis client is nil")
	}
	if len(nodeOrder) == 0 {
		return nil, errors.New("get matrix cache: node order must not be empty")
	}

	data, err := r.Client.Get(ctx, redisMatrixKey(nodeOrder)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get matrix cache: redis get: %w", err)
	}

	m, err := decodeMatrix(data, nodeOrder)
	if err != nil {
		return nil, fmt.Errorf("get matrix cache: %w", err)
	}
	return m, nil
}

func (r *RedisMatrixCache) Put(ctx context.Context, nodeOrder []string, m *instance.TravelMatrix) error {
	if r.Client == nil {
		return errors.New("matrix cache: redis client is nil")
	}
	if len(nodeOrder) == 0 || m == nil {
		return errors.New("insert matrix cache: node order and matrix must be non-empty")
	}

	data, err := encodeMatrix(nodeOrder, m)
	if err != nil {
		return fmt.Errorf("insert matrix cache: %w", err)
	}

	if err := r.Client.Set(ctx, redisMatrixKey(nodeOrder), data, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert matrix cache: redis set: %w", err)
	}
	return nil
}

func redisMatrixKey(nodeOrder []string) string {
	return redisMatrixPrefix + strings.Join(nodeOrder, "|")
}
