package instance

import (
	"collection-route-service/internal/domain"
)

// Arc identifies a directed edge between two distinct nodes.
type Arc struct {
	From string
	To   string
}

// TravelMatrix holds sparse pairwise travel distances (kilometers) and,
// optionally, durations (minutes) keyed by ordered node-id pairs. When
// DurationMin is nil, travel times are derived from distances at build
// time.
type TravelMatrix struct {
	DistanceKm  map[Arc]float64
	DurationMin map[Arc]float64
}

// Instance is the fully resolved, read-only problem graph for one
// optimization run. Every ordered pair of distinct nodes has a cost and a
// time entry; the builder fails rather than producing a partial graph.
type Instance struct {
	Vehicles  []domain.Vehicle
	Customers []domain.Customer
	Depot     domain.Depot
	Facility  domain.DisposalFacility

	// Nodes is the universal vertex set: depot, customers, facility.
	Nodes []string

	Demand      map[string]int
	Service     map[string]int
	Capacity    map[string]int
	StartupCost map[string]int
	MaxShift    map[string]int

	Positions map[string]domain.Coordinates

	Cost map[Arc]int
	Time map[Arc]int
}

// HasArc reports whether a direct arc from one node to another exists.
func (in *Instance) HasArc(from, to string) bool {
	_, ok := in.Cost[Arc{From: from, To: to}]
	return ok
}

// CustomerIDs returns customer ids in input order.
func (in *Instance) CustomerIDs() []string {
	ids := make([]string, 0, len(in.Customers))
	for _, c := range in.Customers {
		ids = append(ids, c.ID)
	}
	return ids
}

// IsCustomer reports whether the node id belongs to a customer.
func (in *Instance) IsCustomer(id string) bool {
	_, ok := in.Demand[id]
	return ok
}
