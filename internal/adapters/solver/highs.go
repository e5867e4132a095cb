package solver

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nextmv-io/sdk/mip"

	"collection-route-service/internal/instance"
	"collection-route-service/internal/model"
	"collection-route-service/internal/platform/obs"
	"collection-route-service/internal/ports"
)

// HighsSolver submits formulations to the HiGHS engine bundled with the
// nextmv MIP SDK. It is stateless and safe for concurrent use; all
// per-run configuration arrives with the submission.
type HighsSolver struct{}

func NewHighsSolver() *HighsSolver { return &HighsSolver{} }

// Solve runs the engine under the configured wall-clock limit and
// relative gap and maps its verdict onto the four-way solve status. The
// engine returns its best incumbent when the limit expires; it never
// hangs past it.
func (s *HighsSolver) Solve(ctx context.Context, f *model.Formulation, cfg ports.SolverConfig) (_ ports.SolveOutcome, err error) {
	defer obs.Time(ctx, "solver.highs.Solve")(&err)

	failed := ports.SolveOutcome{Status: ports.StatusError}

	if f == nil || f.MIP == nil {
		return failed, errors.New("highs solve: formulation is nil")
	}
	if cfg.TimeLimit <= 0 {
		return failed, errors.New("highs solve: a positive time limit is required")
	}

	if f.Warm != nil {
		// The HiGHS binding exposes no initial-solution hook, so the
		// offered warm start cannot be consumed; the run starts cold.
		log.Printf("highs solve: warm start offered arcs=%d, backend accepts none, solving cold", len(f.Warm.Arcs))
	} else {
		log.Printf("highs solve: no warm start offered")
	}

	engine, err := mip.NewSolver("highs", f.MIP)
	if err != nil {
		return failed, fmt.Errorf("highs solve: create solver: %w", err)
	}

	opts := mip.NewSolveOptions()
	if err := opts.SetMaximumDuration(cfg.TimeLimit); err != nil {
		return failed, fmt.Errorf("highs solve: set time limit: %w", err)
	}
	if err := opts.SetMIPGapRelative(cfg.RelativeGap); err != nil {
		return failed, fmt.Errorf("highs solve: set relative gap: %w", err)
	}
	if cfg.LogEnabled {
		opts.SetVerbosity(mip.Low)
	} else {
		opts.SetVerbosity(mip.Off)
	}

	solution, err := engine.Solve(opts)
	if err != nil {
		return failed, fmt.Errorf("highs solve: %w", err)
	}

	return outcomeFromSolution(f, solution), nil
}

// outcomeFromSolution maps the engine's verdict onto the four-way solve
// status. A missing incumbent is reported as INFEASIBLE only when the
// engine actually proved infeasibility; a time limit reached before the
// first incumbent and a numerical failure are no such proof.
func outcomeFromSolution(f *model.Formulation, solution mip.Solution) ports.SolveOutcome {
	outcome := ports.SolveOutcome{}

	if solution == nil {
		outcome.Status = ports.StatusError
		return outcome
	}
	outcome.Runtime = solution.RunTime()

	if !solution.HasValues() {
		switch {
		case solution.IsInfeasible():
			outcome.Status = ports.StatusInfeasible
		case solution.IsTimeOut():
			// Out of time with nothing to show. No assignment is
			// attached; the caller falls back to the heuristic.
			outcome.Status = ports.StatusSuboptimal
		default:
			outcome.Status = ports.StatusError
		}
		return outcome
	}

	if solution.IsOptimal() {
		outcome.Status = ports.StatusOptimal
	} else {
		outcome.Status = ports.StatusSuboptimal
	}
	outcome.Objective = solution.ObjectiveValue()
	outcome.HasObjective = true

	outcome.ArcValues = make(map[string]map[instance.Arc]float64, len(f.Uses))
	outcome.UsedValues = make(map[string]float64, len(f.Uses))
	for _, u := range f.Uses {
		outcome.ArcValues[u.Vehicle] = make(map[instance.Arc]float64)
		outcome.UsedValues[u.Vehicle] = solution.Value(f.Y.Get(u))
	}
	for _, k := range f.Arcs {
		outcome.ArcValues[k.Vehicle][k.Arc] = solution.Value(f.X.Get(k))
	}

	return outcome
}
