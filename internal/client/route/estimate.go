// Package route estimates straight-line travel between two geographic
// points. It is a convenience estimator for the map screen, not a routing
// engine: no road network, no turn-by-turn path.
package route

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

const (
	earthRadiusKm  = 6371
	averageSpeedKm = 50
)

// Estimate is a straight-line distance and naive duration between two points.
type Estimate struct {
	DistanceKm      float64
	DurationMinutes float64
}

// Between computes the great-circle estimate from origin to destination.
// Non-finite coordinates yield NaN fields; guarding is the caller's job.
func Between(origin, destination orb.Point) Estimate {
	distance := Distance(origin, destination)

	return Estimate{
		DistanceKm:      distance,
		DurationMinutes: Duration(distance),
	}
}

// Distance returns the haversine surface distance in kilometers.
// Points follow the orb convention: Point[0] is longitude, Point[1] latitude.
func Distance(origin, destination orb.Point) float64 {
	if !finite(origin) || !finite(destination) {
		return math.NaN()
	}

	lat1 := radians(origin.Lat())
	lat2 := radians(destination.Lat())
	dLat := radians(destination.Lat() - origin.Lat())
	dLon := radians(destination.Lon() - origin.Lon())

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Duration converts a distance in kilometers to minutes at the assumed
// constant average speed.
func Duration(distanceKm float64) float64 {
	return distanceKm / averageSpeedKm * 60
}

// FormatDistance renders a distance as shown on the map screen, e.g. "3.2 km".
func FormatDistance(distanceKm float64) string {
	return fmt.Sprintf("%.1f km", distanceKm)
}

// FormatDuration renders a duration in Turkish, e.g. "45 dakika" or
// "1 saat 10 dakika".
func FormatDuration(minutes float64) string {
	total := int(math.Round(minutes))
	if total < 60 {
		return fmt.Sprintf("%d dakika", total)
	}

	hours := total / 60
	rest := total % 60
	if rest == 0 {
		return fmt.Sprintf("%d saat", hours)
	}

	return fmt.Sprintf("%d saat %d dakika", hours, rest)
}

func finite(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) &&
		!math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
