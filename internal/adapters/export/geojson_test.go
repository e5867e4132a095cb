package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"collection-route-service/internal/domain"
	"collection-route-service/internal/instance"
)

func exportInstance(t *testing.T) *instance.Instance {
	t.Helper()

	in, err := instance.Build(
		[]domain.Vehicle{{ID: "V1", Capacity: 20, MaxShift: 1000}},
		[]domain.Customer{{ID: "C1", Demand: 5, Service: 2, Position: domain.Coordinates{Lat: 1, Lon: 2}}},
		[]domain.Depot{{ID: "D", Position: domain.Coordinates{Lat: 0, Lon: 0}}},
		[]domain.DisposalFacility{{ID: "F", Position: domain.Coordinates{Lat: 3, Lon: 4}}},
		instance.BuildOptions{},
	)
	if err != nil {
		t.Fatalf("build instance: %v", err)
	}
	return in
}

func exportSolution() *domain.Solution {
	return &domain.Solution{
		Routes: map[string]domain.Route{
			"V1": {VehicleID: "V1", Nodes: []string{"D", "C1", "F", "D"}, Cost: 12, Time: 20, Load: 5},
		},
	}
}

func TestSolutionGeoJSON(t *testing.T) {
	data, err := SolutionGeoJSON(exportInstance(t), exportSolution())
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if fc.Type != "FeatureCollection" {
		t.Fatalf("expected FeatureCollection, got %q", fc.Type)
	}
	// One route line plus a point per node.
	if want := 1 + 3; len(fc.Features) != want {
		t.Fatalf("expected %d features, got %d", want, len(fc.Features))
	}

	line := fc.Features[0]
	if line.Geometry.Type != "LineString" {
		t.Fatalf("expected LineString first, got %q", line.Geometry.Type)
	}
	if line.Properties["vehicle"] != "V1" {
		t.Fatalf("expected vehicle property, got %v", line.Properties)
	}

	kinds := map[string]string{}
	for _, f := range fc.Features[1:] {
		if f.Geometry.Type != "Point" {
			t.Fatalf("expected Point, got %q", f.Geometry.Type)
		}
		kinds[f.Properties["id"].(string)] = f.Properties["kind"].(string)
	}
	if kinds["D"] != "depot" || kinds["F"] != "facility" || kinds["C1"] != "customer" {
		t.Fatalf("unexpected node kinds %v", kinds)
	}
}

func TestWriteGeoJSONCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.geojson")
	if err := WriteGeoJSON(path, exportInstance(t), exportSolution()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}
}
