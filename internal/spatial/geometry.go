package spatial

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// LatLng converts the point to an s2.LatLng.
func (p Point) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lon)
}

// Valid reports whether the point lies within the latitude/longitude domain.
func (p Point) Valid() bool {
	return p.LatLng().IsValid()
}

// Centroid returns the spherical centroid of the points: the normalized sum
// of their unit vectors. Antipodal inputs that cancel out fall back to the
// first point.
func Centroid(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}

	var sum r3.Vector
	for _, p := range points {
		sum = sum.Add(s2.PointFromLatLng(p.LatLng()).Vector)
	}
	if sum.Norm2() == 0 {
		return points[0], true
	}

	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return Point{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}, true
}

// MaxDistanceFrom returns the largest great-circle distance in meters from
// center to any of the points.
func MaxDistanceFrom(center Point, points []Point) float64 {
	var max float64
	for _, p := range points {
		if d := HaversineDistance(center.Lat, center.Lon, p.Lat, p.Lon); d > max {
			max = d
		}
	}
	return max
}
