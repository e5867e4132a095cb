package services

import (
	"fmt"
	"sort"

	"collection-route-service/internal/domain"
	"collection-route-service/internal/instance"
	"collection-route-service/internal/ports"
)

// selectionThreshold separates selected arcs from noise in the
// solver-reported relaxation values.
const selectionThreshold = 0.5

// routeFollowSlack bounds successor-following beyond |N| so a malformed
// or cyclic solver result terminates instead of looping.
const routeFollowSlack = 5

// IntegrityError reports solver output whose selected arcs do not
// describe a depot-to-depot walk within the step bound. It is a
// data-integrity failure, distinct from infeasibility.
type IntegrityError struct {
	VehicleID string
	Reason    string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("route reconstruction for vehicle %s: %s", e.VehicleID, e.Reason)
}

// ExtractSolution rebuilds ordered per-vehicle routes from the sparse
// arc-selection result of a solve and recomputes realized cost, time and
// load from the instance data.
func ExtractSolution(inst *instance.Instance, outcome ports.SolveOutcome) (*domain.Solution, error) {
	depot := inst.Depot.ID

	routes := make(map[string]domain.Route, len(inst.Vehicles))
	servedBy := make(map[string]string, len(inst.Customers))
	total := 0

	for _, v := range inst.Vehicles {
		if outcome.UsedValues[v.ID] < selectionThreshold {
			routes[v.ID] = domain.Route{VehicleID: v.ID}
			continue
		}

		succ := make(map[string]string)
		for arc, val := range outcome.ArcValues[v.ID] {
			if val < selectionThreshold {
				continue
			}
			if prev, dup := succ[arc.From]; dup {
				return nil, &IntegrityError{
					VehicleID: v.ID,
					Reason:    fmt.Sprintf("node %s has successors %s and %s", arc.From, prev, arc.To),
				}
			}
			succ[arc.From] = arc.To
		}

		nodes := []string{depot}
		cur := depot
		closed := false
		for i := 0; i < len(inst.Nodes)+routeFollowSlack; i++ {
			next, ok := succ[cur]
			if !ok {
				break
			}
			nodes = append(nodes, next)
			cur = next
			if cur == depot {
				closed = true
				break
			}
		}
		if !closed {
			return nil, &IntegrityError{
				VehicleID: v.ID,
				Reason:    fmt.Sprintf("selected arcs do not return to depot within %d steps", len(inst.Nodes)+routeFollowSlack),
			}
		}

		route := realizeRoute(inst, v, nodes)
		for _, n := range nodes {
			if inst.IsCustomer(n) {
				servedBy[n] = v.ID
			}
		}
		routes[v.ID] = route
		total += route.Cost
	}

	unserved := make([]string, 0)
	for _, c := range inst.Customers {
		if _, ok := servedBy[c.ID]; !ok {
			unserved = append(unserved, c.ID)
		}
	}
	sort.Strings(unserved)

	return &domain.Solution{
		Routes:    routes,
		Unserved:  unserved,
		TotalCost: total,
	}, nil
}

// realizeRoute re-sums cost, time and load of a reconstructed node
// sequence from the instance's arc and service data.
func realizeRoute(inst *instance.Instance, v domain.Vehicle, nodes []string) domain.Route {
	cost := v.StartupCost
	elapsed := 0
	load := 0
	for k := 0; k+1 < len(nodes); k++ {
		arc := instance.Arc{From: nodes[k], To: nodes[k+1]}
		cost += inst.Cost[arc]
		elapsed += inst.Time[arc] + inst.Service[nodes[k]]
		if inst.IsCustomer(nodes[k+1]) {
			load += inst.Demand[nodes[k+1]]
		}
	}
	return domain.Route{
		VehicleID: v.ID,
		Nodes:     nodes,
		Cost:      cost,
		Time:      elapsed,
		Load:      load,
	}
}
