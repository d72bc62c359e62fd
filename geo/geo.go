package geo

import (
	"math"

	"github.com/shopspring/decimal"

	"safepulse/models"
)

// EarthRadiusKm is the sphere radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// kmPerDegreeLat approximates one degree of latitude anywhere on the sphere
// and one degree of longitude at the equator.
const kmPerDegreeLat = 111.0

// minCosLat guards the longitude half-width against division by zero near
// the poles.
const minCosLat = 1e-9

// HaversineKm returns the great-circle distance between a and b in
// kilometers. Symmetric; exactly zero for identical points.
func HaversineKm(a, b models.GeoPoint) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLng := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusKm * 2 * math.Asin(math.Sqrt(h))
}

// BoundingBox is the coordinate window used to prefilter radius searches
// before the exact Haversine test. FullLongitude means the longitude window
// cannot be expressed as a single BETWEEN range and all longitudes must be
// scanned.
type BoundingBox struct {
	LatMin        float64
	LatMax        float64
	LngMin        float64
	LngMax        float64
	FullLongitude bool
}

// BoundingBoxAround returns the prefilter window for a radius search. The
// window is never narrower than the exact circle: near the poles, and when
// the longitude window would cross the antimeridian, it widens to the full
// longitude range.
func BoundingBoxAround(center models.GeoPoint, radiusKm float64) BoundingBox {
	latRange := radiusKm / kmPerDegreeLat
	box := BoundingBox{
		LatMin: center.Latitude - latRange,
		LatMax: center.Latitude + latRange,
	}

	cosLat := math.Cos(radians(center.Latitude))
	if cosLat < minCosLat {
		return fullLongitude(box)
	}

	lngRange := radiusKm / (kmPerDegreeLat * cosLat)
	box.LngMin = center.Longitude - lngRange
	box.LngMax = center.Longitude + lngRange
	if box.LngMin < -180 || box.LngMax > 180 {
		return fullLongitude(box)
	}
	return box
}

// RoundKm rounds a distance for output to two decimal places. Stored
// coordinates are never rounded; only distances in responses are.
func RoundKm(km float64) float64 {
	return decimal.NewFromFloat(km).Round(2).InexactFloat64()
}

func fullLongitude(box BoundingBox) BoundingBox {
	box.LngMin = -180
	box.LngMax = 180
	box.FullLongitude = true
	return box
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
