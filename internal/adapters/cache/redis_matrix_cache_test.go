package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"collection-route-service/internal/instance"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisMatrixCacheRoundTrip(t *testing.T) {
	c := NewRedisMatrixCache(testRedis(t), 0)
	ctx := context.Background()
	order := []string{"D", "C1"}

	got, err := c.Get(ctx, order)
	if err != nil {
		t.Fatalf("get empty cache: %v", err)
	}
	if got != nil {
		t.Fatal("expected miss on empty cache")
	}

	if err := c.Put(ctx, order, testMatrix()); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err = c.Get(ctx, order)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected hit after put")
	}
	if got.DistanceKm[instance.Arc{From: "C1", To: "D"}] != 2.5 {
		t.Fatalf("unexpected distance %v", got.DistanceKm)
	}
}

func TestRedisMatrixCacheTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisMatrixCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	ctx := context.Background()
	order := []string{"D", "C1"}

	if err := c.Put(ctx, order, testMatrix()); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, order)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("expected miss after expiry")
	}
}
