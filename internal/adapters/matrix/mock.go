package matrix

import (
	"context"
	"fmt"

	"collection-route-service/internal/instance"
	"collection-route-service/internal/ports"
)

type MockPair struct {
	From, To    string
	DistanceKm  float64
	DurationMin float64
}

// MockProvider serves a fixed matrix for tests and offline runs.
type MockProvider struct {
	m *instance.TravelMatrix
}

func NewMockProvider(pairs []MockPair) *MockProvider {
	m := &instance.TravelMatrix{
		DistanceKm:  make(map[instance.Arc]float64, len(pairs)),
		DurationMin: make(map[instance.Arc]float64, len(pairs)),
	}
	for _, p := range pairs {
		arc := instance.Arc{From: p.From, To: p.To}
		m.DistanceKm[arc] = p.DistanceKm
		m.DurationMin[arc] = p.DurationMin
	}
	return &MockProvider{m: m}
}

func (p *MockProvider) FetchMatrix(ctx context.Context, nodes []ports.NodePoint) (*instance.TravelMatrix, error) {
	for _, from := range nodes {
		for _, to := range nodes {
			if from.ID == to.ID {
				continue
			}
			if _, ok := p.m.DistanceKm[instance.Arc{From: from.ID, To: to.ID}]; !ok {
				return nil, fmt.Errorf("missing pair %q -> %q", from.ID, to.ID)
			}
		}
	}
	return p.m, nil
}
