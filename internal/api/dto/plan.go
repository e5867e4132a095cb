package dto

// PlanRequest is the wire form of one planning run. Entity fields mirror
// the CSV ingestion columns; matrix entries are optional and switch the
// builder from closed-form distances to the supplied values.
type PlanRequest struct {
	Vehicles   []VehiclePayload  `json:"vehicles"`
	Customers  []CustomerPayload `json:"customers"`
	Depots     []NodePayload     `json:"depots"`
	Facilities []NodePayload     `json:"facilities"`

	CostPerUnit float64 `json:"cost_per_unit,omitempty"`
	TimePerUnit float64 `json:"time_per_unit,omitempty"`

	// DistanceMode is "euclidean", "haversine_km" or "osrm". Ignored when
	// Matrix is supplied.
	DistanceMode string          `json:"distance_mode,omitempty"`
	Matrix       []MatrixPayload `json:"matrix,omitempty"`

	TimeLimitS  float64 `json:"time_limit_s,omitempty"`
	RelativeGap float64 `json:"relative_gap,omitempty"`
	SolverLog   bool    `json:"solver_log,omitempty"`
}

type VehiclePayload struct {
	ID          string `json:"id"`
	Capacity    int    `json:"capacity"`
	MaxShift    int    `json:"max_shift"`
	StartupCost int    `json:"startup_cost,omitempty"`
}

type CustomerPayload struct {
	ID      string  `json:"id"`
	Demand  int     `json:"demand"`
	Service int     `json:"service"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type NodePayload struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type MatrixPayload struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	DistanceKm  float64  `json:"distance_km"`
	DurationMin *float64 `json:"duration_min,omitempty"`
}

// PlanResponse reports the planning outcome. Routes come from the exact
// solution when the solver produced one, else from the heuristic.
type PlanResponse struct {
	Status       string  `json:"status"`
	Objective    float64 `json:"objective,omitempty"`
	HasObjective bool    `json:"has_objective"`
	WarmStarted  bool    `json:"warm_started"`
	FallbackUsed bool    `json:"fallback_used"`

	Routes    []RoutePayload `json:"routes"`
	Unserved  []string       `json:"unserved"`
	TotalCost int            `json:"total_cost"`
}

type RoutePayload struct {
	Vehicle string   `json:"vehicle"`
	Nodes   []string `json:"nodes"`
	Cost    int      `json:"cost"`
	Time    int      `json:"time"`
	Load    int      `json:"load"`
}
