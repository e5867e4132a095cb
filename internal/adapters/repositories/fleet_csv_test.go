package repositories

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCSVFleetRepositoryVehicles(t *testing.T) {
	repo := &CSVFleetRepository{VehiclesPath: writeCSV(t, "vehicles.csv",
		"id,capacity,max_shift,startup_cost\nV1,100,480,25\nV2,80,480,\n")}

	vehicles, err := repo.Vehicles(context.Background())
	if err != nil {
		t.Fatalf("vehicles: %v", err)
	}
	if len(vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(vehicles))
	}
	if vehicles[0].ID != "V1" || vehicles[0].Capacity != 100 || vehicles[0].StartupCost != 25 {
		t.Fatalf("unexpected first vehicle %+v", vehicles[0])
	}
	if vehicles[1].StartupCost != 0 {
		t.Fatalf("expected default startup cost 0, got %d", vehicles[1].StartupCost)
	}
}

func TestCSVFleetRepositoryCustomers(t *testing.T) {
	repo := &CSVFleetRepository{CustomersPath: writeCSV(t, "customers.csv",
		"id,demand,service,lat,lon\nC1,5,10,52.52,13.405\n")}

	customers, err := repo.Customers(context.Background())
	if err != nil {
		t.Fatalf("customers: %v", err)
	}
	if len(customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(customers))
	}
	c := customers[0]
	if c.ID != "C1" || c.Demand != 5 || c.Service != 10 {
		t.Fatalf("unexpected customer %+v", c)
	}
	if c.Position.Lat != 52.52 || c.Position.Lon != 13.405 {
		t.Fatalf("unexpected position %+v", c.Position)
	}
}

func TestCSVFleetRepositoryBadInteger(t *testing.T) {
	repo := &CSVFleetRepository{VehiclesPath: writeCSV(t, "vehicles.csv",
		"id,capacity,max_shift\nV1,lots,480\n")}

	_, err := repo.Vehicles(context.Background())
	if err == nil {
		t.Fatal("expected error for non-integer capacity")
	}
	if !strings.Contains(err.Error(), "capacity") || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected field and line in error, got %v", err)
	}
}

func TestCSVFleetRepositoryMissingRequiredField(t *testing.T) {
	repo := &CSVFleetRepository{CustomersPath: writeCSV(t, "customers.csv",
		"id,demand,service,lat,lon\nC1,5,,52.52,13.405\n")}

	_, err := repo.Customers(context.Background())
	if err == nil || !strings.Contains(err.Error(), "service is required") {
		t.Fatalf("expected missing-service error, got %v", err)
	}
}

func TestCSVFleetRepositoryEmptyFile(t *testing.T) {
	repo := &CSVFleetRepository{DepotsPath: writeCSV(t, "depots.csv", "")}

	_, err := repo.Depots(context.Background())
	if err == nil || !strings.Contains(err.Error(), "file is empty") {
		t.Fatalf("expected empty-file error, got %v", err)
	}
}
