package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"collection-route-service/internal/adapters/export"
	"collection-route-service/internal/adapters/matrix"
	"collection-route-service/internal/adapters/repositories"
	"collection-route-service/internal/adapters/solver"
	"collection-route-service/internal/config"
	"collection-route-service/internal/instance"
	"collection-route-service/internal/ports"
	"collection-route-service/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	repo := repositories.NewCSVFleetRepository(
		config.Get("VEHICLES_CSV", "data/vehicles.csv"),
		config.Get("CUSTOMERS_CSV", "data/customers.csv"),
		config.Get("DEPOTS_CSV", "data/depots.csv"),
		config.Get("FACILITIES_CSV", "data/facilities.csv"),
	)

	ctx := context.Background()

	vehicles, err := repo.Vehicles(ctx)
	if err != nil {
		log.Fatalf("load vehicles: %v", err)
	}
	customers, err := repo.Customers(ctx)
	if err != nil {
		log.Fatalf("load customers: %v", err)
	}
	depots, err := repo.Depots(ctx)
	if err != nil {
		log.Fatalf("load depots: %v", err)
	}
	facilities, err := repo.Facilities(ctx)
	if err != nil {
		log.Fatalf("load facilities: %v", err)
	}

	opts := instance.BuildOptions{
		CostPerUnit: envFloat("COST_PER_UNIT", 0),
		TimePerUnit: envFloat("TIME_PER_UNIT", 0),
	}

	mode := config.Get("DISTANCE_MODE", "euclidean")
	if mode == "osrm" {
		provider := matrix.NewOSRMProvider(config.Get("OSRM_BASE_URL", ""))
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
		m, err := provider.FetchMatrix(ctx, points)
		if err != nil {
			log.Fatalf("fetch travel matrix: %v", err)
		}
		opts.Matrix = m
	} else {
		opts.Mode = instance.DistanceMode(mode)
	}

	inst, err := instance.Build(vehicles, customers, depots, facilities, opts)
	if err != nil {
		log.Fatalf("build instance: %v", err)
	}

	cfg := ports.SolverConfig{
		TimeLimit:   time.Duration(envFloat("TIME_LIMIT_S", 30) * float64(time.Second)),
		RelativeGap: envFloat("RELATIVE_GAP", 0),
		LogEnabled:  config.Get("SOLVER_LOG", "") == "1",
	}

	result, err := services.PlanCollection(ctx, inst, solver.NewHighsSolver(), cfg)
	if err != nil {
		log.Fatalf("plan collection: %v", err)
	}

	best := result.Best()
	log.Printf("plan finished status=%s fallback=%t total_cost=%d unserved=%d",
		result.Status, result.FallbackUsed, best.TotalCost, len(best.Unserved))
	for _, vehicleID := range best.UsedVehicles() {
		route := best.Routes[vehicleID]
		log.Printf("route vehicle=%s cost=%d time=%d load=%d nodes=%v",
			vehicleID, route.Cost, route.Time, route.Load, route.Nodes)
	}

	out := config.Get("GEOJSON_OUT", "out/solution.geojson")
	if err := export.WriteGeoJSON(out, inst, best); err != nil {
		log.Fatalf("write geojson: %v", err)
	}
	log.Printf("wrote geojson path=%s", out)
}

func envFloat(key string, fallback float64) float64 {
	raw := config.Get(key, "")
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("parse %s: %v", key, err)
	}
	return f
}
