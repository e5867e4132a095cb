package repositories

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"collection-route-service/internal/domain"
)

// CSVFleetRepository reads fleet data from four CSV files, one per
// entity kind. Files are read on every call so a rerun picks up edits
// without restarting the process.
type CSVFleetRepository struct {
	VehiclesPath   string
	CustomersPath  string
	DepotsPath     string
	FacilitiesPath string
}

func NewCSVFleetRepository(vehicles, customers, depots, facilities string) *CSVFleetRepository {
	return &CSVFleetRepository{
		VehiclesPath:   vehicles,
		CustomersPath:  customers,
		DepotsPath:     depots,
		FacilitiesPath: facilities,
	}
}

func (r *CSVFleetRepository) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := readCSV(ctx, r.VehiclesPath)
	if err != nil {
		return nil, fmt.Errorf("read vehicles: %w", err)
	}

	out := make([]domain.Vehicle, 0, len(rows))
	for _, row := range rows {
		v := domain.Vehicle{ID: row.field("id")}
		if v.ID == "" {
			return nil, rowError(r.VehiclesPath, row, "id is required")
		}
		if v.Capacity, err = row.intField("capacity"); err != nil {
			return nil, rowError(r.VehiclesPath, row, err.Error())
		}
		if v.MaxShift, err = row.intField("max_shift"); err != nil {
			return nil, rowError(r.VehiclesPath, row, err.Error())
		}
		// startup_cost is optional and defaults to zero.
		if raw := row.field("startup_cost"); raw != "" {
			if v.StartupCost, err = row.intField("startup_cost"); err != nil {
				return nil, rowError(r.VehiclesPath, row, err.Error())
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *CSVFleetRepository) Customers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := readCSV(ctx, r.CustomersPath)
	if err != nil {
		return nil, fmt.Errorf("read customers: %w", err)
	}

	out := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		c := domain.Customer{ID: row.field("id")}
		if c.ID == "" {
			return nil, rowError(r.CustomersPath, row, "id is required")
		}
		if c.Demand, err = row.intField("demand"); err != nil {
			return nil, rowError(r.CustomersPath, row, err.Error())
		}
		if c.Service, err = row.intField("service"); err != nil {
			return nil, rowError(r.CustomersPath, row, err.Error())
		}
		if c.Position, err = row.position(); err != nil {
			return nil, rowError(r.CustomersPath, row, err.Error())
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *CSVFleetRepository) Depots(ctx context.Context) ([]domain.Depot, error) {
	rows, err := readCSV(ctx, r.DepotsPath)
	if err != nil {
		return nil, fmt.Errorf("read depots: %w", err)
	}

	out := make([]domain.Depot, 0, len(rows))
	for _, row := range rows {
		d := domain.Depot{ID: row.field("id")}
		if d.ID == "" {
			return nil, rowError(r.DepotsPath, row, "id is required")
		}
		if d.Position, err = row.position(); err != nil {
			return nil, rowError(r.DepotsPath, row, err.Error())
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *CSVFleetRepository) Facilities(ctx context.Context) ([]domain.DisposalFacility, error) {
	rows, err := readCSV(ctx, r.FacilitiesPath)
	if err != nil {
		return nil, fmt.Errorf("read facilities: %w", err)
	}

	out := make([]domain.DisposalFacility, 0, len(rows))
	for _, row := range rows {
		f := domain.DisposalFacility{ID: row.field("id")}
		if f.ID == "" {
			return nil, rowError(r.FacilitiesPath, row, "id is required")
		}
		if f.Position, err = row.position(); err != nil {
			return nil, rowError(r.FacilitiesPath, row, err.Error())
		}
		out = append(out, f)
	}
	return out, nil
}

type csvRow struct {
	line   int
	values map[string]string
}

func (r csvRow) field(name string) string {
	return strings.TrimSpace(r.values[name])
}

func (r csvRow) intField(name string) (int, error) {
	raw := r.field(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", name, raw)
	}
	return n, nil
}

func (r csvRow) floatField(name string) (float64, error) {
	raw := r.field(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, raw)
	}
	return f, nil
}

func (r csvRow) position() (domain.Coordinates, error) {
	lat, err := r.floatField("lat")
	if err != nil {
		return domain.Coordinates{}, err
	}
	lon, err := r.floatField("lon")
	if err != nil {
		return domain.Coordinates{}, err
	}
	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}

func rowError(path string, row csvRow, msg string) error {
	return fmt.Errorf("%s line %d: %s", path, row.line, msg)
}

// readCSV loads the file into header-keyed rows. The first record is
// the header; an empty file is an error since every entity kind needs
// at least one row somewhere downstream.
func readCSV(ctx context.Context, path string) ([]csvRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: file is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []csvRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}

		values := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				values[name] = record[i]
			}
		}
		rows = append(rows, csvRow{line: line, values: values})
	}
	return rows, nil
}
