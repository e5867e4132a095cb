package cache

import (
	"encoding/json"
	"fmt"
	"strings"

	"collection-route-service/internal/instance"
)

// matrixPayload is the stored form of a travel matrix: the exact node
// order it was fetched for plus sparse pair maps keyed "from|to". A
// payload is served only to a request with the identical node order;
// anything else is a miss.
type matrixPayload struct {
	Nodes       []string           `json:"nodes"`
	DistanceKm  map[string]float64 `json:"distance_km"`
	DurationMin map[string]float64 `json:"duration_min"`
}

func nodeSetKey(nodeOrder []string) string {
	return strings.Join(nodeOrder, "|")
}

func encodeMatrix(nodeOrder []string, m *instance.TravelMatrix) ([]byte, error) {
	p := matrixPayload{
		Nodes:       nodeOrder,
		DistanceKm:  make(map[string]float64, len(m.DistanceKm)),
		DurationMin: make(map[string]float64, len(m.DurationMin)),
	}
	for arc, v := range m.DistanceKm {
		p.DistanceKm[arc.From+"|"+arc.To] = v
	}
	for arc, v := range m.DurationMin {
		p.DurationMin[arc.From+"|"+arc.To] = v
	}
	return json.Marshal(p)
}

func decodeMatrix(data []byte, nodeOrder []string) (*instance.TravelMatrix, error) {
	var p matrixPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode matrix payload: %w", err)
	}

	if len(p.Nodes) != len(nodeOrder) {
		return nil, nil
	}
	for i, id := range nodeOrder {
		if p.Nodes[i] != id {
			return nil, nil
		}
	}

	m := &instance.TravelMatrix{
		DistanceKm:  make(map[instance.Arc]float64, len(p.DistanceKm)),
		DurationMin: make(map[instance.Arc]float64, len(p.DurationMin)),
	}
	for key, v := range p.DistanceKm {
		from, to, ok := strings.Cut(key, "|")
		if !ok {
			return nil, fmt.Errorf("decode matrix payload: malformed pair key %q", key)
		}
		m.DistanceKm[instance.Arc{From: from, To: to}] = v
	}
	for key, v := range p.DurationMin {
		from, to, ok := strings.Cut(key, "|")
		if !ok {
			return nil, fmt.Errorf("decode matrix payload: malformed pair key %q", key)
		}
		m.DurationMin[instance.Arc{From: from, To: to}] = v
	}
	return m, nil
}
