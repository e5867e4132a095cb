package domain

import "sort"

// Route is the ordered node sequence driven by one vehicle. A used route
// starts and ends at the depot and passes the disposal facility exactly
// once, immediately before the final return. An unused vehicle has an
// empty node sequence.
//
// Routes are produced by the construction heuristic or by solution
// extraction and are not mutated afterwards.
type Route struct {
	VehicleID string
	Nodes     []string
	Cost      int // arc costs plus startup cost when used
	Time      int // travel time plus service time
	Load      int // total collected demand
}

// Used reports whether the route serves at least one customer.
func (r Route) Used() bool { return len(r.Nodes) > 0 }

// Solution maps each vehicle to its route and lists the customers no
// route serves. A non-empty Unserved set is a reportable outcome, not an
// error.
type Solution struct {
	Routes    map[string]Route
	Unserved  []string
	TotalCost int
}

// Complete reports whether every customer is served.
func (s *Solution) Complete() bool { return len(s.Unserved) == 0 }

// UsedVehicles returns the ids of vehicles whose route serves at least
// one customer, in ascending order.
func (s *Solution) UsedVehicles() []string {
	ids := make([]string, 0, len(s.Routes))
	for id, r := range s.Routes {
		if r.Used() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
