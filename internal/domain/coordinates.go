package domain

import "math"

// Mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0088

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// PlanarDistance treats both points as planar coordinates and returns the
// Euclidean distance between them. Intended for synthetic instances whose
// positions are not geographic.
func (c Coordinates) PlanarDistance(o Coordinates) float64 {
	return math.Hypot(c.Lat-o.Lat, c.Lon-o.Lon)
}

// HaversineKm returns the great-circle distance to o in kilometers.
func (c Coordinates) HaversineKm(o Coordinates) float64 {
	phi1 := radians(c.Lat)
	phi2 := radians(o.Lat)
	dPhi := radians(o.Lat - c.Lat)
	dLambda := radians(o.Lon - c.Lon)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
