package services

import (
	"reflect"
	"testing"

	"collection-route-service/internal/domain"
	"collection-route-service/internal/instance"
)

// buildInstance resolves an instance with depot "D", facility "F" and a
// caller-supplied distance map. Pairs not listed default to a large
// distance so greedy selection follows the listed arcs.
func buildInstance(t *testing.T, vehicles []domain.Vehicle, customers []domain.Customer, dist map[instance.Arc]float64) *instance.Instance {
	t.Helper()

	depots := []domain.Depot{{ID: "D"}}
	facilities := []domain.DisposalFacility{{ID: "F"}}

	nodes := []string{"D"}
	for _, c := range customers {
		nodes = append(nodes, c.ID)
	}
	nodes = append(nodes, "F")

	m := &instance.TravelMatrix{DistanceKm: make(map[instance.Arc]float64)}
	for _, i := range nodes {
		for _, j := range nodes {
			if i == j {
				continue
			}
			arc := instance.Arc{From: i, To: j}
			if d, ok := dist[arc]; ok {
				m.DistanceKm[arc] = d
			} else {
				m.DistanceKm[arc] = 100
			}
		}
	}

	in, err := instance.Build(vehicles, customers, depots, facilities, instance.BuildOptions{
		TimePerUnit: 1.0,
		Matrix:      m,
	})
	if err != nil {
		t.Fatalf("build instance: %v", err)
	}
	return in
}

func TestConstructSingleVehicleRoute(t *testing.T) {
	vehicles := []domain.Vehicle{{ID: "V1", Capacity: 20, MaxShift: 1000}}
	customers := []domain.Customer{
		{ID: "C1", Demand: 5, Service: 2},
		{ID: "C2", Demand: 7, Service: 3},
	}
	in := buildInstance(t, vehicles, customers, map[instance.Arc]float64{
		{From: "D", To: "C1"}:  4,
		{From: "D", To: "C2"}:  6,
		{From: "C1", To: "C2"}: 2,
		{From: "C2", To: "F"}:  3,
		{From: "F", To: "D"}:   7,
	})

	sol := ConstructSolution(in)

	if !sol.Complete() {
		t.Fatalf("expected all customers served, unserved=%v", sol.Unserved)
	}
	route := sol.Routes["V1"]
	wantNodes := []string{"D", "C1", "C2", "F", "D"}
	if !reflect.DeepEqual(route.Nodes, wantNodes) {
		t.Fatalf("expected route %v, got %v", wantNodes, route.Nodes)
	}
	if route.Cost != 16 {
		t.Fatalf("expected cost 16, got %d", route.Cost)
	}
	if route.Load != 12 {
		t.Fatalf("expected load 12, got %d", route.Load)
	}
	// Arc times equal distances (TimePerUnit 1) plus customer services.
	if want := 4 + 2 + 2 + 3 + 3 + 7; route.Time != want {
		t.Fatalf("expected time %d, got %d", want, route.Time)
	}
	if sol.TotalCost != route.Cost {
		t.Fatalf("expected total cost %d, got %d", route.Cost, sol.TotalCost)
	}
}

func TestConstructStartupCostCounted(t *testing.T) {
	vehicles := []domain.Vehicle{{ID: "V1", Capacity: 20, MaxShift: 1000, StartupCost: 50}}
	customers := []domain.Customer{{ID: "C1", Demand: 5, Service: 2}}
	in := buildInstance(t, vehicles, customers, map[instance.Arc]float64{
		{From: "D", To: "C1"}: 4,
		{From: "C1", To: "F"}: 3,
		{From: "F", To: "D"}:  7,
	})

	sol := ConstructSolution(in)
	if got := sol.Routes["V1"].Cost; got != 4+3+7+50 {
		t.Fatalf("expected cost 64 including startup, got %d", got)
	}
}

func TestConstructOverDemandCustomerUnserved(t *testing.T) {
	vehicles := []domain.Vehicle{{ID: "V1", Capacity: 10, MaxShift: 1000}}
	customers := []domain.Customer{
		{ID: "C1", Demand: 4, Service: 1},
		{ID: "C2", Demand: 25, Service: 1}, // exceeds every capacity
	}
	in := buildInstance(t, vehicles, customers, nil)

	sol := ConstructSolution(in)

	if !reflect.DeepEqual(sol.Unserved, []string{"C2"}) {
		t.Fatalf("expected C2 unserved, got %v", sol.Unserved)
	}
	if got := sol.Routes["V1"].Load; got != 4 {
		t.Fatalf("expected V1 to still serve C1, load=%d", got)
	}
}

func TestConstructTinyShiftLeavesVehicleUnused(t *testing.T) {
	vehicles := []domain.Vehicle{{ID: "V1", Capacity: 100, MaxShift: 3}}
	customers := []domain.Customer{{ID: "C1", Demand: 1, Service: 1}}
	in := buildInstance(t, vehicles, customers, nil)

	sol := ConstructSolution(in)

	route := sol.Routes["V1"]
	if route.Used() {
		t.Fatalf("expected unused vehicle, got route %v", route.Nodes)
	}
	if route.Cost != 0 || route.Time != 0 || route.Load != 0 {
		t.Fatalf("expected zeroed route, got %+v", route)
	}
	if !reflect.DeepEqual(sol.Unserved, []string{"C1"}) {
		t.Fatalf("expected C1 unserved, got %v", sol.Unserved)
	}
	if sol.TotalCost != 0 {
		t.Fatalf("expected zero total cost, got %d", sol.TotalCost)
	}
}

func TestConstructEqualCostTieBreaksOnLowestID(t *testing.T) {
	vehicles := []domain.Vehicle{{ID: "V1", Capacity: 100, MaxShift: 10000}}
	customers := []domain.Customer{
		{ID: "C2", Demand: 1, Service: 1},
		{ID: "C1", Demand: 1, Service: 1},
	}
	// Both customers are equally far from the depot.
	in := buildInstance(t, vehicles, customers, map[instance.Arc]float64{
		{From: "D", To: "C1"}: 5,
		{From: "D", To: "C2"}: 5,
	})

	sol := ConstructSolution(in)

	route := sol.Routes["V1"]
	if len(route.Nodes) < 2 || route.Nodes[1] != "C1" {
		t.Fatalf("expected C1 first on equal cost, got %v", route.Nodes)
	}
}

func TestConstructSecondVehicleTakesOverflow(t *testing.T) {
	vehicles := []domain.Vehicle{
		{ID: "V1", Capacity: 6, MaxShift: 10000},
		{ID: "V2", Capacity: 6, MaxShift: 10000},
	}
	customers := []domain.Customer{
		{ID: "C1", Demand: 5, Service: 1},
		{ID: "C2", Demand: 5, Service: 1},
	}
	in := buildInstance(t, vehicles, customers, nil)

	sol := ConstructSolution(in)

	if !sol.Complete() {
		t.Fatalf("expected both customers served, unserved=%v", sol.Unserved)
	}
	if sol.Routes["V1"].Load != 5 || sol.Routes["V2"].Load != 5 {
		t.Fatalf("expected one customer per vehicle, got V1=%d V2=%d",
			sol.Routes["V1"].Load, sol.Routes["V2"].Load)
	}
}
