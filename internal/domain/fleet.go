package domain

// Vehicle is a capacity- and shift-limited collection vehicle.
// StartupCost is incurred only when the vehicle actually drives a route.
// Immutable once loaded.
type Vehicle struct {
	ID          string
	Capacity    int
	MaxShift    int
	StartupCost int
}

// Customer is a collection stop with a fixed demand and on-site service
// duration.
type Customer struct {
	ID       string
	Demand   int
	Service  int
	Position Coordinates
}

// Depot is the start and end point of every route. Exactly one per
// instance.
type Depot struct {
	ID       string
	Position Coordinates
}

// DisposalFacility is the mandatory stop between the last customer and
// the return to the depot. Exactly one per instance.
type DisposalFacility struct {
	ID       string
	Position Coordinates
}
