package matrix

import (
	"context"
	"fmt"
	"log"

	"collection-route-service/internal/instance"
	"collection-route-service/internal/ports"
)

// CachedProvider serves travel matrices from a MatrixCache keyed by the
// exact ordered node-id list and falls through to the inner provider on
// a miss. A fresh fetch is written back; a failed write is logged, not
// fatal.
type CachedProvider struct {
	Inner ports.MatrixProvider
	Cache ports.MatrixCache
}

func NewCachedProvider(inner ports.MatrixProvider, cache ports.MatrixCache) *CachedProvider {
	return &CachedProvider{Inner: inner, Cache: cache}
}

func (p *CachedProvider) FetchMatrix(ctx context.Context, nodes []ports.NodePoint) (*instance.TravelMatrix, error) {
	order := make([]string, 0, len(nodes))
	for _, n := range nodes {
		order = append(order, n.ID)
	}

	if p.Cache != nil {
		m, err := p.Cache.Get(ctx, order)
		if err != nil {
			return nil, fmt.Errorf("cached matrix: read cache: %w", err)
		}
		if m != nil {
			return m, nil
		}
	}

	m, err := p.Inner.FetchMatrix(ctx, nodes)
	if err != nil {
		return nil, err
	}

	if p.Cache != nil {
		if err := p.Cache.Put(ctx, order, m); err != nil {
			log.Printf("matrix cache write failed: %v", err)
		}
	}

	return m, nil
}
