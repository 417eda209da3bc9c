package maps

import (
	"context"
	"math"

	"loadapp/internal/modules/route"
)

// StaticEstimator is the offline fallback: great-circle distance scaled by
// a road winding factor and a fixed average truck speed. Deterministic, so
// local runs and tests need no API key.
type StaticEstimator struct {
	RoadFactor  float64 // straight-line to road distance multiplier
	AvgSpeedKmH float64
}

func NewStaticEstimator() *StaticEstimator {
	return &StaticEstimator{RoadFactor: 1.3, AvgSpeedKmH: 70.0}
}

func (e *StaticEstimator) Estimate(ctx context.Context, origin, destination route.Location) (route.Estimate, error) {
	km := haversineKm(origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude) * e.RoadFactor
	return route.Estimate{
		DistanceKm:    km,
		DurationHours: km / e.AvgSpeedKmH,
		CountrySegments: []route.CountrySegment{
			{Country: "unknown", DistanceKm: km},
		},
	}, nil
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const R = 6371.0
	rlat1 := lat1 * math.Pi / 180.0
	rlat2 := lat2 * math.Pi / 180.0
	dlat := (lat2 - lat1) * math.Pi / 180.0
	dlng := (lng2 - lng1) * math.Pi / 180.0
	h := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	return 2 * R * math.Asin(math.Sqrt(h))
}
