package services

import (
	"context"
	"fmt"
	"log"

	"collection-route-service/internal/domain"
	"collection-route-service/internal/instance"
	"collection-route-service/internal/model"
	"collection-route-service/internal/platform/obs"
	"collection-route-service/internal/ports"
)

// PlanResult carries both candidate solutions of one planning run so a
// caller can fall back to the heuristic when the exact model gives no
// usable assignment.
type PlanResult struct {
	Heuristic *domain.Solution
	// Exact is nil when the solver returned no assignment.
	Exact *domain.Solution

	Status       ports.SolveStatus
	Objective    float64
	HasObjective bool
	WarmStarted  bool
	FallbackUsed bool
}

// Best returns the exact solution when the solver produced one, else the
// heuristic solution.
func (r *PlanResult) Best() *domain.Solution {
	if r.Exact != nil {
		return r.Exact
	}
	return r.Heuristic
}

// PlanCollection runs the full pipeline on a built instance: construct a
// heuristic solution, formulate the exact model (seeded by the heuristic
// when it is complete), submit it to the solving engine, and extract
// routes from the assignment.
//
// Solver infeasibility, time-limit exhaustion and engine failures are
// structured results, never raised as generic errors. The only error
// paths are formulation bugs and reconstruction integrity failures.
func PlanCollection(ctx context.Context, inst *instance.Instance, solver ports.Solver, cfg ports.SolverConfig) (_ *PlanResult, err error) {
	defer obs.Time(ctx, "services.PlanCollection")(&err)

	heuristic := ConstructSolution(inst)

	warm := model.WarmStartFrom(inst, heuristic)
	if warm == nil {
		log.Printf("plan collection: no warm start available unserved=%d", len(heuristic.Unserved))
	}

	f, err := model.BuildFormulation(inst, warm)
	if err != nil {
		return nil, fmt.Errorf("plan collection: build formulation: %w", err)
	}

	result := &PlanResult{
		Heuristic:   heuristic,
		WarmStarted: warm != nil,
	}

	outcome, solveErr := solver.Solve(ctx, f, cfg)
	if solveErr != nil {
		log.Printf("plan collection: solver failed, falling back to heuristic err=%v", solveErr)
		result.Status = ports.StatusError
		result.FallbackUsed = true
		return result, nil
	}

	log.Printf("plan collection: solve finished status=%s runtime=%s", outcome.Status, outcome.Runtime)

	result.Status = outcome.Status
	usable := outcome.Status == ports.StatusOptimal || outcome.Status == ports.StatusSuboptimal
	if usable && outcome.ArcValues != nil {
		exact, err := ExtractSolution(inst, outcome)
		if err != nil {
			return nil, fmt.Errorf("plan collection: %w", err)
		}
		result.Exact = exact
		result.Objective = outcome.Objective
		result.HasObjective = outcome.HasObjective
	} else {
		// INFEASIBLE, ERROR and a time-out without an incumbent carry
		// no assignment; the heuristic solution remains the best
		// candidate.
		result.FallbackUsed = true
	}

	return result, nil
}
