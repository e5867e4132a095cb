package ports

import (
	"context"

	"collection-route-service/internal/domain"
	"collection-route-service/internal/instance"
)

// NodePoint pairs a node id with its geographic position for bulk matrix
// acquisition.
type NodePoint struct {
	ID       string
	Position domain.Coordinates
}

// MatrixProvider produces a full pairwise travel matrix for an ordered
// node list from an external routing service. The call blocks for at
// most the provider's configured timeout and is never retried
// automatically; the caller decides whether to try again.
type MatrixProvider interface {
	FetchMatrix(ctx context.Context, nodes []NodePoint) (*instance.TravelMatrix, error)
}

// MatrixCache persists travel matrices keyed by the exact ordered
// node-id list. Get returns (nil, nil) on a miss; a cached matrix stored
// under a different node order is a miss, not an error.
type MatrixCache interface {
	Get(ctx context.Context, nodeOrder []string) (*instance.TravelMatrix, error)
	Put(ctx context.Context, nodeOrder []string, m *instance.TravelMatrix) error
}
