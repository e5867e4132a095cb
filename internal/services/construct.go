package services

import (
	"sort"

	"collection-route-service/internal/domain"
	"collection-route-service/internal/instance"
)

// ConstructSolution builds a feasible multi-route solution with a greedy
// nearest-cost rule. Vehicles are processed in their given order; each
// takes the cheapest feasible next customer until none remains, then
// closes via the disposal facility back to the depot.
//
// The result is cheap, not optimal. It stands on its own as a fallback
// and doubles as a warm start for the exact model. Customers that no
// vehicle can accommodate end up in Unserved; that is a reportable
// outcome, not an error.
func ConstructSolution(inst *instance.Instance) *domain.Solution {
	// Sorting the remaining set makes the equal-cost tie-break
	// deterministic: the lowest customer id wins.
	remaining := inst.CustomerIDs()
	sort.Strings(remaining)

	routes := make(map[string]domain.Route, len(inst.Vehicles))
	total := 0
	for _, v := range inst.Vehicles {
		route, rest := extendVehicleRoute(inst, v, remaining)
		remaining = rest
		routes[v.ID] = route
		total += route.Cost
	}

	return &domain.Solution{
		Routes:    routes,
		Unserved:  remaining,
		TotalCost: total,
	}
}

// extendVehicleRoute grows one vehicle's route from the depot. It takes
// the current remaining-customer set and returns the set left over for
// the next vehicle; the input slice is not mutated.
//
// A candidate is feasible when its demand fits the remaining capacity,
// the arcs reaching it and closing the route exist, and the projected
// total time through the candidate, the facility and back to the depot
// stays within the vehicle's shift.
func extendVehicleRoute(inst *instance.Instance, v domain.Vehicle, remaining []string) (domain.Route, []string) {
	depot := inst.Depot.ID
	facility := inst.Facility.ID

	nodes := []string{depot}
	cur := depot
	load := 0
	elapsed := 0
	cost := 0
	served := make(map[string]struct{})

	for {
		best := ""
		bestCost := 0
		for _, c := range remaining {
			if _, done := served[c]; done {
				continue
			}
			if load+inst.Demand[c] > v.Capacity {
				continue
			}
			if !inst.HasArc(cur, c) || !inst.HasArc(c, facility) || !inst.HasArc(facility, depot) {
				continue
			}

			projected := elapsed +
				inst.Time[instance.Arc{From: cur, To: c}] + inst.Service[c] +
				inst.Time[instance.Arc{From: c, To: facility}] + inst.Service[facility] +
				inst.Time[instance.Arc{From: facility, To: depot}]
			if projected > v.MaxShift {
				continue
			}

			// Strict < keeps the first (lowest-id) candidate on ties.
			if direct := inst.Cost[instance.Arc{From: cur, To: c}]; best == "" || direct < bestCost {
				best = c
				bestCost = direct
			}
		}
		if best == "" {
			break
		}

		elapsed += inst.Time[instance.Arc{From: cur, To: best}] + inst.Service[best]
		load += inst.Demand[best]
		cost += bestCost
		nodes = append(nodes, best)
		served[best] = struct{}{}
		cur = best
	}

	if len(served) == 0 {
		// Never left the depot: the vehicle is unused.
		return domain.Route{VehicleID: v.ID}, remaining
	}

	elapsed += inst.Time[instance.Arc{From: cur, To: facility}] + inst.Service[facility] +
		inst.Time[instance.Arc{From: facility, To: depot}]
	cost += inst.Cost[instance.Arc{From: cur, To: facility}] +
		inst.Cost[instance.Arc{From: facility, To: depot}] +
		v.StartupCost
	nodes = append(nodes, facility, depot)

	rest := make([]string, 0, len(remaining)-len(served))
	for _, c := range remaining {
		if _, done := served[c]; !done {
			rest = append(rest, c)
		}
	}

	return domain.Route{
		VehicleID: v.ID,
		Nodes:     nodes,
		Cost:      cost,
		Time:      elapsed,
		Load:      load,
	}, rest
}
