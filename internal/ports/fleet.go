package ports

import (
	"context"

	"collection-route-service/internal/domain"
)

// FleetRepository loads the immutable problem entities from a data
// source. Empty result sets are repository errors: an instance cannot be
// built without vehicles and customers.
type FleetRepository interface {
	Vehicles(ctx context.Context) ([]domain.Vehicle, error)
	Customers(ctx context.Context) ([]domain.Customer, error)
	Depots(ctx context.Context) ([]domain.Depot, error)
	Facilities(ctx context.Context) ([]domain.DisposalFacility, error)
}

// Geocoder resolves a free-text address to geographic coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}
