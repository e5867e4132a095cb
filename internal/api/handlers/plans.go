package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"collection-route-service/internal/api/dto"
	"collection-route-service/internal/domain"
	"collection-route-service/internal/instance"
	"collection-route-service/internal/ports"
	"collection-route-service/internal/services"
)

const (
	defaultTimeLimit   = 10 * time.Second
	defaultRelativeGap = 0.0
)

// PlanHandler runs one planning request end to end: build the instance,
// construct, solve, extract, respond.
type PlanHandler struct {
	Provider ports.MatrixProvider
	Solver   ports.Solver
}

func NewPlanHandler(provider ports.MatrixProvider, solver ports.Solver) *PlanHandler {
	return &PlanHandler{Provider: provider, Solver: solver}
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	vehicles := make([]domain.Vehicle, 0, len(req.Vehicles))
	for _, v := range req.Vehicles {
		vehicles = append(vehicles, domain.Vehicle{
			ID:          v.ID,
			Capacity:    v.Capacity,
			MaxShift:    v.MaxShift,
			StartupCost: v.StartupCost,
		})
	}
	customers := make([]domain.Customer, 0, len(req.Customers))
	for _, c := range req.Customers {
		customers = append(customers, domain.Customer{
			ID:       c.ID,
			Demand:   c.Demand,
			Service:  c.Service,
			Position: domain.Coordinates{Lat: c.Lat, Lon: c.Lon},
		})
	}
	depots := make([]domain.Depot, 0, len(req.Depots))
	for _, d := range req.Depots {
		depots = append(depots, domain.Depot{
			ID:       d.ID,
			Position: domain.Coordinates{Lat: d.Lat, Lon: d.Lon},
		})
	}
	facilities := make([]domain.DisposalFacility, 0, len(req.Facilities))
	for _, f := range req.Facilities {
		facilities = append(facilities, domain.DisposalFacility{
			ID:       f.ID,
			Position: domain.Coordinates{Lat: f.Lat, Lon: f.Lon},
		})
	}

	opts := instance.BuildOptions{
		CostPerUnit: req.CostPerUnit,
		TimePerUnit: req.TimePerUnit,
	}

	switch {
	case len(req.Matrix) > 0:
		opts.Matrix = matrixFromPayload(req.Matrix)
	case req.DistanceMode == "osrm":
		if h.Provider == nil {
			writeError(w, http.StatusBadRequest, "distance_mode osrm is not configured")
			return
		}
		points := make([]ports.NodePoint, 0, len(customers)+2)
		for _, d := range depots {
			points = append(points, ports.NodePoint{ID: d.ID, Position: d.Position})
		}
		for _, c := range customers {
			points = append(points, ports.NodePoint{ID: c.ID, Position: c.Position})
		}
		for _, f := range facilities {
			points = append(points, ports.NodePoint{ID: f.ID, Position: f.Position})
		}
		m, err := h.Provider.FetchMatrix(r.Context(), points)
		if err != nil {
			writeError(w, http.StatusBadGateway, fmt.Sprintf("fetch travel matrix: %v", err))
			return
		}
		opts.Matrix = m
	case req.DistanceMode != "":
		opts.Mode = instance.DistanceMode(req.DistanceMode)
	}

	inst, err := instance.Build(vehicles, customers, depots, facilities, opts)
	if err != nil {
		var missing *instance.MissingDistanceError
		if errors.Is(err, instance.ErrConfiguration) || errors.As(err, &missing) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	cfg := ports.SolverConfig{
		TimeLimit:   defaultTimeLimit,
		RelativeGap: defaultRelativeGap,
		LogEnabled:  req.SolverLog,
	}
	if req.TimeLimitS > 0 {
		cfg.TimeLimit = time.Duration(req.TimeLimitS * float64(time.Second))
	}
	if req.RelativeGap > 0 {
		cfg.RelativeGap = req.RelativeGap
	}

	result, err := services.PlanCollection(r.Context(), inst, h.Solver, cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, planResponse(result))
}

func matrixFromPayload(entries []dto.MatrixPayload) *instance.TravelMatrix {
	m := &instance.TravelMatrix{
		DistanceKm: make(map[instance.Arc]float64, len(entries)),
	}
	for _, e := range entries {
		arc := instance.Arc{From: e.From, To: e.To}
		m.DistanceKm[arc] = e.DistanceKm
		if e.DurationMin != nil {
			if m.DurationMin == nil {
				m.DurationMin = make(map[instance.Arc]float64, len(entries))
			}
			m.DurationMin[arc] = *e.DurationMin
		}
	}
	return m
}

func planResponse(result *services.PlanResult) dto.PlanResponse {
	best := result.Best()

	resp := dto.PlanResponse{
		Status:       string(result.Status),
		Objective:    result.Objective,
		HasObjective: result.HasObjective,
		WarmStarted:  result.WarmStarted,
		FallbackUsed: result.FallbackUsed,
		Routes:       []dto.RoutePayload{},
		Unserved:     []string{},
		TotalCost:    best.TotalCost,
	}
	for _, vehicleID := range best.UsedVehicles() {
		route := best.Routes[vehicleID]
		resp.Routes = append(resp.Routes, dto.RoutePayload{
			Vehicle: vehicleID,
			Nodes:   route.Nodes,
			Cost:    route.Cost,
			Time:    route.Time,
			Load:    route.Load,
		})
	}
	if len(best.Unserved) > 0 {
		resp.Unserved = best.Unserved
	}
	return resp
}
