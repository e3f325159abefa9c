package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const earthRadiusKm = 6371.0

// Immutable geographic coordinates (latitude, longitude) in fixed precision.
type Coordinates struct {
	Lat decimal.Decimal
	Lon decimal.Decimal
}

func NewCoordinates(lat, lon float64) Coordinates {
	return Coordinates{Lat: decimal.NewFromFloat(lat), Lon: decimal.NewFromFloat(lon)}
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 {
	return []float64{c.Lon.InexactFloat64(), c.Lat.InexactFloat64()}
}

// Key is a stable cache key with six decimal places (~10cm).
func (c Coordinates) Key() string {
	return fmt.Sprintf("%s,%s", c.Lat.StringFixed(6), c.Lon.StringFixed(6))
}

func (c Coordinates) Valid() bool {
	lat, lon := c.Lat.InexactFloat64(), c.Lon.InexactFloat64()
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// GreatCircleKm returns the unrounded haversine distance between two points.
func GreatCircleKm(from, to Coordinates) float64 {
	lat1, lon1 := from.Lat.InexactFloat64(), from.Lon.InexactFloat64()
	lat2, lon2 := to.Lat.InexactFloat64(), to.Lon.InexactFloat64()

	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	a := sinLat*sinLat + math.Cos(radians(lat1))*math.Cos(radians(lat2))*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
