package instance

import (
	"errors"
	"fmt"
	"math"

	"collection-route-service/internal/domain"
)

// DistanceMode selects the closed-form distance function used when no
// external travel matrix is supplied.
type DistanceMode string

const (
	// DistanceEuclidean treats positions as planar coordinates.
	DistanceEuclidean DistanceMode = "euclidean"
	// DistanceHaversineKm computes great-circle kilometers from lat/lon.
	DistanceHaversineKm DistanceMode = "haversine_km"
)

// ErrConfiguration marks fatal input-shape errors (wrong depot/facility
// cardinality, empty lists, duplicate ids). No partial Instance is ever
// produced for these.
var ErrConfiguration = errors.New("invalid instance configuration")

// MissingDistanceError reports an ordered node pair absent from a
// caller-supplied travel matrix.
type MissingDistanceError struct {
	From string
	To   string
}

func (e *MissingDistanceError) Error() string {
	return fmt.Sprintf("missing distance for (%s, %s) in travel matrix", e.From, e.To)
}

// BuildOptions control distance sourcing and arc-weight scaling.
type BuildOptions struct {
	// CostPerUnit scales distance into integer arc cost. Defaults to 1.
	CostPerUnit float64
	// TimePerUnit scales distance into integer arc time when no duration
	// matrix is supplied. Defaults to 3.
	TimePerUnit float64
	// Mode picks the closed-form distance function. Ignored when Matrix
	// is set. Defaults to DistanceEuclidean.
	Mode DistanceMode
	// Matrix, when set, supplies distances (and optionally durations)
	// instead of a closed-form function. A missing ordered pair is a
	// build error.
	Matrix *TravelMatrix
}

// Build validates the raw entities and resolves them into an Instance.
//
// Exactly one depot and one disposal facility are supported; vehicle and
// customer lists must be non-empty and node ids unique. Arc cost and time
// are always integers >= 1: degenerate zero-weight arcs would break both
// feasibility and time accounting downstream.
func Build(
	vehicles []domain.Vehicle,
	customers []domain.Customer,
	depots []domain.Depot,
	facilities []domain.DisposalFacility,
	opts BuildOptions,
) (*Instance, error) {
	if len(depots) != 1 {
		return nil, fmt.Errorf("%w: exactly one depot is supported, got %d", ErrConfiguration, len(depots))
	}
	if len(facilities) != 1 {
		return nil, fmt.Errorf("%w: exactly one disposal facility is supported, got %d", ErrConfiguration, len(facilities))
	}
	if len(vehicles) == 0 {
		return nil, fmt.Errorf("%w: vehicle list must not be empty", ErrConfiguration)
	}
	if len(customers) == 0 {
		return nil, fmt.Errorf("%w: customer list must not be empty", ErrConfiguration)
	}

	if opts.CostPerUnit == 0 {
		opts.CostPerUnit = 1.0
	}
	if opts.TimePerUnit == 0 {
		opts.TimePerUnit = 3.0
	}
	if opts.Mode == "" {
		opts.Mode = DistanceEuclidean
	}

	depot := depots[0]
	facility := facilities[0]

	in := &Instance{
		Vehicles:    vehicles,
		Customers:   customers,
		Depot:       depot,
		Facility:    facility,
		Nodes:       make([]string, 0, len(customers)+2),
		Demand:      make(map[string]int, len(customers)),
		Service:     make(map[string]int, len(customers)),
		Capacity:    make(map[string]int, len(vehicles)),
		StartupCost: make(map[string]int, len(vehicles)),
		MaxShift:    make(map[string]int, len(vehicles)),
		Positions:   make(map[string]domain.Coordinates, len(customers)+2),
	}

	in.Nodes = append(in.Nodes, depot.ID)
	in.Positions[depot.ID] = depot.Position
	for _, c := range customers {
		in.Nodes = append(in.Nodes, c.ID)
		in.Demand[c.ID] = c.Demand
		in.Service[c.ID] = c.Service
		in.Positions[c.ID] = c.Position
	}
	in.Nodes = append(in.Nodes, facility.ID)
	in.Positions[facility.ID] = facility.Position

	seen := make(map[string]struct{}, len(in.Nodes))
	for _, id := range in.Nodes {
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrConfiguration, id)
		}
		seen[id] = struct{}{}
	}
	for _, v := range vehicles {
		if _, ok := in.Capacity[v.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate vehicle id %q", ErrConfiguration, v.ID)
		}
		in.Capacity[v.ID] = v.Capacity
		in.StartupCost[v.ID] = v.StartupCost
		in.MaxShift[v.ID] = v.MaxShift
	}

	distance, err := distanceFunc(in, opts)
	if err != nil {
		return nil, err
	}

	n := len(in.Nodes)
	in.Cost = make(map[Arc]int, n*(n-1))
	in.Time = make(map[Arc]int, n*(n-1))
	for _, i := range in.Nodes {
		for _, j := range in.Nodes {
			if i == j {
				continue
			}
			dist, err := distance(i, j)
			if err != nil {
				return nil, err
			}

			arc := Arc{From: i, To: j}
			in.Cost[arc] = scaled(dist, opts.CostPerUnit)

			if opts.Matrix != nil && opts.Matrix.DurationMin != nil {
				raw, ok := opts.Matrix.DurationMin[arc]
				if !ok {
					return nil, &MissingDistanceError{From: i, To: j}
				}
				in.Time[arc] = scaled(raw, 1.0)
			} else {
				in.Time[arc] = scaled(dist, opts.TimePerUnit)
			}
		}
	}

	return in, nil
}

func distanceFunc(in *Instance, opts BuildOptions) (func(a, b string) (float64, error), error) {
	if opts.Matrix != nil {
		m := opts.Matrix
		return func(a, b string) (float64, error) {
			d, ok := m.DistanceKm[Arc{From: a, To: b}]
			if !ok {
				return 0, &MissingDistanceError{From: a, To: b}
			}
			return d, nil
		}, nil
	}

	switch opts.Mode {
	case DistanceEuclidean:
		return func(a, b string) (float64, error) {
			return in.Positions[a].PlanarDistance(in.Positions[b]), nil
		}, nil
	case DistanceHaversineKm:
		return func(a, b string) (float64, error) {
			return in.Positions[a].HaversineKm(in.Positions[b]), nil
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown distance mode %q", ErrConfiguration, opts.Mode)
	}
}

// scaled converts a raw distance or duration into an integer arc weight,
// never below 1 even for zero or sub-unit inputs.
func scaled(raw, scale float64) int {
	v := int(math.Round(raw * scale))
	if v < 1 {
		return 1
	}
	return v
}
