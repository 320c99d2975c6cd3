// Package geo provides great-circle and corridor distance calculations.
// All inputs are degrees; all distances are kilometers.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for all conversions.
const EarthRadiusKm = 6371.0

func deg2rad(d float64) float64 {
	return d * math.Pi / 180.0
}

// HaversineKm returns the great-circle distance between two coordinates.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dlat := deg2rad(lat2 - lat1)
	dlng := deg2rad(lng2 - lng1)
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// equirectXY projects a coordinate into a local planar frame centered at
// reference latitude lat0. Valid for city-scale extents only.
func equirectXY(lat, lng, lat0 float64) (x, y float64) {
	x = deg2rad(lng) * math.Cos(deg2rad(lat0))
	y = deg2rad(lat)
	return x, y
}

// PointSegmentDistanceKm returns the perpendicular distance from point p to
// the segment a->b, using an equirectangular projection centered at the
// segment's mean latitude. The projection parameter is clamped to [0,1] so
// the closest point always lies on the segment. A zero-length segment
// degenerates to the distance to the single point.
func PointSegmentDistanceKm(aLat, aLng, bLat, bLng, pLat, pLng float64) float64 {
	lat0 := (aLat + bLat) / 2.0
	ax, ay := equirectXY(aLat, aLng, lat0)
	bx, by := equirectXY(bLat, bLng, lat0)
	px, py := equirectXY(pLat, pLng, lat0)

	vx, vy := bx-ax, by-ay
	wx, wy := px-ax, py-ay
	c1 := vx*wx + vy*wy
	c2 := vx*vx + vy*vy

	t := 0.0
	if c2 != 0 {
		t = math.Max(0.0, math.Min(1.0, c1/c2))
	}
	sx, sy := ax+t*vx, ay+t*vy
	dx, dy := px-sx, py-sy
	return math.Hypot(dx, dy) * EarthRadiusKm
}
