package matrix

import (
	"context"
	"errors"
	"testing"

	"collection-route-service/internal/domain"
	"collection-route-service/internal/instance"
	"collection-route-service/internal/ports"
)

type fakeCache struct {
	entries map[string]*instance.TravelMatrix
	puts    int
	putErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*instance.TravelMatrix)}
}

func (c *fakeCache) key(order []string) string {
	k := ""
	for _, id := range order {
		k += id + "|"
	}
	return k
}

func (c *fakeCache) Get(ctx context.Context, order []string) (*instance.TravelMatrix, error) {
	return c.entries[c.key(order)], nil
}

func (c *fakeCache) Put(ctx context.Context, order []string, m *instance.TravelMatrix) error {
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[c.key(order)] = m
	return nil
}

type countingProvider struct {
	inner ports.MatrixProvider
	calls int
}

func (p *countingProvider) FetchMatrix(ctx context.Context, nodes []ports.NodePoint) (*instance.TravelMatrix, error) {
	p.calls++
	return p.inner.FetchMatrix(ctx, nodes)
}

func cachedTestNodes() []ports.NodePoint {
	return []ports.NodePoint{
		{ID: "D", Position: domain.Coordinates{}},
		{ID: "C1", Position: domain.Coordinates{}},
	}
}

func cachedTestPairs() []MockPair {
	return []MockPair{
		{From: "D", To: "C1", DistanceKm: 1.5, DurationMin: 2},
		{From: "C1", To: "D", DistanceKm: 2.5, DurationMin: 3},
	}
}

func TestCachedProviderMissThenHit(t *testing.T) {
	inner := &countingProvider{inner: NewMockProvider(cachedTestPairs())}
	cache := newFakeCache()
	p := NewCachedProvider(inner, cache)

	ctx := context.Background()
	first, err := p.FetchMatrix(ctx, cachedTestNodes())
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if inner.calls != 1 || cache.puts != 1 {
		t.Fatalf("expected one inner call and one write, got calls=%d puts=%d", inner.calls, cache.puts)
	}

	second, err := p.FetchMatrix(ctx, cachedTestNodes())
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected cache hit, got %d inner calls", inner.calls)
	}
	if second.DistanceKm[instance.Arc{From: "D", To: "C1"}] != first.DistanceKm[instance.Arc{From: "D", To: "C1"}] {
		t.Fatal("cached matrix differs from fetched matrix")
	}
}

func TestCachedProviderDifferentOrderIsMiss(t *testing.T) {
	inner := &countingProvider{inner: NewMockProvider(cachedTestPairs())}
	p := NewCachedProvider(inner, newFakeCache())

	ctx := context.Background()
	if _, err := p.FetchMatrix(ctx, cachedTestNodes()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	reversed := []ports.NodePoint{cachedTestNodes()[1], cachedTestNodes()[0]}
	if _, err := p.FetchMatrix(ctx, reversed); err != nil {
		t.Fatalf("fetch reversed: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected a second fetch for a different node order, got %d calls", inner.calls)
	}
}

func TestCachedProviderWriteFailureNotFatal(t *testing.T) {
	inner := &countingProvider{inner: NewMockProvider(cachedTestPairs())}
	cache := newFakeCache()
	cache.putErr = errors.New("disk full")
	p := NewCachedProvider(inner, cache)

	if _, err := p.FetchMatrix(context.Background(), cachedTestNodes()); err != nil {
		t.Fatalf("expected fetch to succeed despite write failure, got %v", err)
	}
}
