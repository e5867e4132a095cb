package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"collection-route-service/internal/domain"
	"collection-route-service/internal/instance"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// SolutionGeoJSON renders a planned solution as a FeatureCollection:
// one LineString per used vehicle and one Point per node, suitable for
// dropping into geojson.io or a map layer.
func SolutionGeoJSON(inst *instance.Instance, sol *domain.Solution) ([]byte, error) {
	if inst == nil || sol == nil {
		return nil, fmt.Errorf("geojson export: instance and solution must be non-nil")
	}

	fc := featureCollection{Type: "FeatureCollection"}

	for _, vehicleID := range sol.UsedVehicles() {
		route := sol.Routes[vehicleID]
		line := make([][]float64, 0, len(route.Nodes))
		for _, node := range route.Nodes {
			pos, ok := inst.Positions[node]
			if !ok {
				return nil, fmt.Errorf("geojson export: no position for node %q", node)
			}
			line = append(line, pos.CoordsToList())
		}
		fc.Features = append(fc.Features, feature{
			Type:     "Feature",
			Geometry: geometry{Type: "LineString", Coordinates: line},
			Properties: map[string]any{
				"vehicle": vehicleID,
				"cost":    route.Cost,
				"time":    route.Time,
				"load":    route.Load,
				"stops":   len(route.Nodes),
			},
		})
	}

	for _, node := range inst.Nodes {
		pos, ok := inst.Positions[node]
		if !ok {
			return nil, fmt.Errorf("geojson export: no position for node %q", node)
		}
		fc.Features = append(fc.Features, feature{
			Type:     "Feature",
			Geometry: geometry{Type: "Point", Coordinates: pos.CoordsToList()},
			Properties: map[string]any{
				"id":   node,
				"kind": nodeKind(inst, node),
			},
		})
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("geojson export: marshal: %w", err)
	}
	return data, nil
}

// WriteGeoJSON writes the rendered solution to path, creating parent
// directories as needed.
func WriteGeoJSON(path string, inst *instance.Instance, sol *domain.Solution) error {
	data, err := SolutionGeoJSON(inst, sol)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("geojson export: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("geojson export: write %s: %w", path, err)
	}
	return nil
}

func nodeKind(inst *instance.Instance, node string) string {
	switch {
	case node == inst.Depot.ID:
		return "depot"
	case node == inst.Facility.ID:
		return "facility"
	default:
		return "customer"
	}
}
