package ports

import (
	"context"
	"time"

	"collection-route-service/internal/instance"
	"collection-route-service/internal/model"
)

// SolveStatus classifies the outcome of one solver invocation.
type SolveStatus string

const (
	// StatusOptimal means the engine proved optimality of the returned
	// assignment (within the configured relative gap).
	StatusOptimal SolveStatus = "OPTIMAL"
	// StatusSuboptimal means the engine ran out of time and returned its
	// best incumbent without an optimality proof.
	StatusSuboptimal SolveStatus = "SUBOPTIMAL"
	// StatusInfeasible means no assignment satisfying the constraints
	// exists (or none was found and feasibility was disproved).
	StatusInfeasible SolveStatus = "INFEASIBLE"
	// StatusError means the engine failed before producing a verdict.
	StatusError SolveStatus = "ERROR"
)

// SolverConfig is passed explicitly into every submission. There is no
// package-level solver state.
type SolverConfig struct {
	// TimeLimit is the wall-clock budget for the solve. Required: the
	// engine must return its best incumbent instead of hanging.
	TimeLimit time.Duration
	// RelativeGap is the optimality-gap tolerance (0 proves optimality).
	RelativeGap float64
	// LogEnabled turns on engine output.
	LogEnabled bool
}

// SolveOutcome is the structured result of a solver run. Infeasibility
// and time-limit exhaustion are values here, never Go errors.
type SolveOutcome struct {
	Status       SolveStatus
	Objective    float64
	HasObjective bool

	// ArcValues holds the solver-reported selection value of every arc
	// variable, keyed by vehicle id. Values above 0.5 are selected arcs.
	ArcValues map[string]map[instance.Arc]float64
	// UsedValues holds the usage-indicator value per vehicle id.
	UsedValues map[string]float64

	Runtime time.Duration
}

// Solver is the external solving-engine boundary: it accepts an
// assembled formulation and returns one of the four outcomes. It does no
// model construction of its own.
type Solver interface {
	Solve(ctx context.Context, f *model.Formulation, cfg SolverConfig) (SolveOutcome, error)
}
