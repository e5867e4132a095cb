package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"collection-route-service/internal/domain"
	"collection-route-service/internal/instance"
)

func TestWarmStartFromCompleteSolution(t *testing.T) {
	in := formulationInstance(t)

	sol := &domain.Solution{
		Routes: map[string]domain.Route{
			"V1": {VehicleID: "V1", Nodes: []string{"D", "C1", "C2", "F", "D"}, Load: 12},
			"V2": {VehicleID: "V2"},
		},
	}

	ws := WarmStartFrom(in, sol)
	require.NotNil(t, ws)

	require.Equal(t, 1.0, ws.Used[VehicleUse{Vehicle: "V1"}])
	require.Equal(t, 0.0, ws.Used[VehicleUse{Vehicle: "V2"}])

	require.Len(t, ws.Arcs, 4)
	require.Equal(t, 1.0, ws.Arcs[VehicleArc{Vehicle: "V1", Arc: instance.Arc{From: "D", To: "C1"}}])
	require.Equal(t, 1.0, ws.Arcs[VehicleArc{Vehicle: "V1", Arc: instance.Arc{From: "F", To: "D"}}])

	// Loads accumulate along the route.
	require.Equal(t, 5.0, ws.Loads[VehicleLoad{Vehicle: "V1", Customer: "C1"}])
	require.Equal(t, 12.0, ws.Loads[VehicleLoad{Vehicle: "V1", Customer: "C2"}])
}

func TestWarmStartFromIncompleteSolution(t *testing.T) {
	in := formulationInstance(t)

	sol := &domain.Solution{
		Routes: map[string]domain.Route{
			"V1": {VehicleID: "V1", Nodes: []string{"D", "C1", "F", "D"}, Load: 5},
			"V2": {VehicleID: "V2"},
		},
		Unserved: []string{"C2"},
	}

	require.Nil(t, WarmStartFrom(in, sol))
}

func TestWarmStartFromAllVehiclesUnused(t *testing.T) {
	in := formulationInstance(t)

	sol := &domain.Solution{
		Routes: map[string]domain.Route{
			"V1": {VehicleID: "V1"},
			"V2": {VehicleID: "V2"},
		},
	}

	require.Nil(t, WarmStartFrom(in, sol))
}
