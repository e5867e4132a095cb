package model

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/instance"
)

// WarmStart is an initial feasible point derived from the construction
// heuristic: selected arcs, vehicle usage flags and cumulative loads.
type WarmStart struct {
	Arcs  map[VehicleArc]float64
	Used  map[VehicleUse]float64
	Loads map[VehicleLoad]float64
}

// WarmStartFrom derives a warm start from a heuristic solution. It
// returns nil when the solution leaves customers unserved or no vehicle
// drives a route; callers report that absence instead of treating it as
// an error.
func WarmStartFrom(inst *instance.Instance, sol *domain.Solution) *WarmStart {
	if inst == nil || sol == nil || !sol.Complete() {
		return nil
	}
	if len(sol.UsedVehicles()) == 0 {
		return nil
	}

	ws := &WarmStart{
		Arcs:  make(map[VehicleArc]float64),
		Used:  make(map[VehicleUse]float64),
		Loads: make(map[VehicleLoad]float64),
	}

	for id, r := range sol.Routes {
		if !r.Used() {
			ws.Used[VehicleUse{Vehicle: id}] = 0
			continue
		}
		ws.Used[VehicleUse{Vehicle: id}] = 1

		load := 0
		for k := 0; k+1 < len(r.Nodes); k++ {
			from, to := r.Nodes[k], r.Nodes[k+1]
			ws.Arcs[VehicleArc{Vehicle: id, Arc: instance.Arc{From: from, To: to}}] = 1
			if inst.IsCustomer(to) {
				load += inst.Demand[to]
				ws.Loads[VehicleLoad{Vehicle: id, Customer: to}] = float64(load)
			}
		}
	}

	return ws
}
