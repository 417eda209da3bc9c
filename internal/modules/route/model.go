// README: Route aggregate: locations, legs, cargo, timeline, feasibility.
package route

import (
	"errors"
	"fmt"
	"time"

	"loadapp/internal/types"
)

var (
	ErrBadRequest = errors.New("invalid route request")
	ErrNotFound   = errors.New("route not found")
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type Cargo struct {
	Type                string   `json:"type"`
	WeightKg            float64  `json:"weight_kg"`
	Value               float64  `json:"value"`
	SpecialRequirements []string `json:"special_requirements,omitempty"`
}

type TransportType struct {
	Name        string  `json:"name"`
	MaxWeightKg float64 `json:"max_weight_kg"`
	MaxVolumeM3 float64 `json:"max_volume_m3"`
}

type CountrySegment struct {
	Country    string  `json:"country"`
	DistanceKm float64 `json:"distance_km"`
}

// Segment is one leg of a route: the empty positioning drive or the loaded
// main haul.
type Segment struct {
	DistanceKm      float64          `json:"distance_km"`
	DurationHours   float64          `json:"duration_hours"`
	CountrySegments []CountrySegment `json:"country_segments,omitempty"`
	BaseCost        float64          `json:"base_cost"`
}

type TimelineEvent struct {
	Type            string    `json:"type"`
	Time            time.Time `json:"time"`
	Location        Location  `json:"location"`
	DurationMinutes int       `json:"duration_minutes"`
	Description     string    `json:"description,omitempty"`
}

type Route struct {
	ID                 types.ID        `json:"id"`
	Origin             Location        `json:"origin"`
	Destination        Location        `json:"destination"`
	PickupTime         time.Time       `json:"pickup_time"`
	DeliveryTime       time.Time       `json:"delivery_time"`
	TransportType      *TransportType  `json:"transport_type,omitempty"`
	Cargo              *Cargo          `json:"cargo,omitempty"`
	EmptyDriving       Segment         `json:"empty_driving"`
	MainRoute          Segment         `json:"main_route"`
	Timeline           []TimelineEvent `json:"timeline"`
	TotalDurationHours float64         `json:"total_duration_hours"`
	IsFeasible         bool            `json:"is_feasible"`
	DurationValidation bool            `json:"duration_validation"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Validate checks the request-shape invariants. Distance/duration
// positivity is the calculation engine's concern.
func (r *Route) Validate() error {
	if r.PickupTime.IsZero() || r.DeliveryTime.IsZero() {
		return fmt.Errorf("%w: pickup and delivery times are required", ErrBadRequest)
	}
	if !r.DeliveryTime.After(r.PickupTime) {
		return fmt.Errorf("%w: delivery time must be after pickup time", ErrBadRequest)
	}
	return nil
}
