package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"loadapp/internal/modules/route"
)

// GoogleEstimator handles interactions with the Google Maps Directions API.
type GoogleEstimator struct {
	client *maps.Client
}

// NewGoogleEstimator creates a new estimator with the given API key.
func NewGoogleEstimator(apiKey string) (*GoogleEstimator, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleEstimator{client: client}, nil
}

// Estimate returns driving distance and duration between two locations.
// Country segmentation is not available from the Directions API, so the
// main leg comes back as a single segment.
func (e *GoogleEstimator) Estimate(ctx context.Context, origin, destination route.Location) (route.Estimate, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude),
		Destination: fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := e.client.Directions(ctx, r)
	if err != nil {
		return route.Estimate{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return route.Estimate{}, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	distanceKm := float64(leg.Distance.Meters) / 1000.0
	return route.Estimate{
		DistanceKm:    distanceKm,
		DurationHours: leg.Duration.Hours(),
		CountrySegments: []route.CountrySegment{
			{Country: "unknown", DistanceKm: distanceKm},
		},
	}, nil
}
