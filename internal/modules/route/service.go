// README: Route planning service: estimates legs, builds timeline, checks feasibility.
package route

import (
	"context"
	"time"

	"go.uber.org/zap"

	"loadapp/internal/types"
)

// Estimate is what a route estimator returns for one leg.
type Estimate struct {
	DistanceKm      float64
	DurationHours   float64
	CountrySegments []CountrySegment
}

// Estimator supplies travel distance and duration between two locations.
// Implemented by the Google Maps adapter and the offline haversine fallback.
type Estimator interface {
	Estimate(ctx context.Context, origin, destination Location) (Estimate, error)
}

// Repository persists planned routes.
type Repository interface {
	Create(ctx context.Context, r *Route) error
	Get(ctx context.Context, id types.ID) (*Route, error)
}

// Empty-driving defaults mirror the fixed positioning leg the planner
// assumes when no depot information is available.
const (
	defaultEmptyDrivingKm    = 200.0
	defaultEmptyDrivingHours = 4.0
	defaultMainBaseCost      = 150.0
)

type Service struct {
	store                Repository
	estimator            Estimator
	emptyDrivingBaseCost float64
	logger               *zap.Logger
}

func NewService(store Repository, estimator Estimator, emptyDrivingBaseCost float64, logger *zap.Logger) *Service {
	return &Service{
		store:                store,
		estimator:            estimator,
		emptyDrivingBaseCost: emptyDrivingBaseCost,
		logger:               logger,
	}
}

type PlanCommand struct {
	Origin        Location
	Destination   Location
	PickupTime    time.Time
	DeliveryTime  time.Time
	TransportType *TransportType
	Cargo         *Cargo
}

// Plan estimates the main haul, attaches the fixed empty-driving leg,
// builds the event timeline, and persists the result.
func (s *Service) Plan(ctx context.Context, cmd PlanCommand) (*Route, error) {
	r := &Route{
		ID:            types.NewID(),
		Origin:        cmd.Origin,
		Destination:   cmd.Destination,
		PickupTime:    cmd.PickupTime,
		DeliveryTime:  cmd.DeliveryTime,
		TransportType: cmd.TransportType,
		Cargo:         cmd.Cargo,
		CreatedAt:     time.Now().UTC(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	est, err := s.estimator.Estimate(ctx, cmd.Origin, cmd.Destination)
	if err != nil {
		return nil, err
	}
	r.MainRoute = Segment{
		DistanceKm:      est.DistanceKm,
		DurationHours:   est.DurationHours,
		CountrySegments: est.CountrySegments,
		BaseCost:        defaultMainBaseCost,
	}
	r.EmptyDriving = Segment{
		DistanceKm:    defaultEmptyDrivingKm,
		DurationHours: defaultEmptyDrivingHours,
		BaseCost:      s.emptyDrivingBaseCost,
	}
	r.TotalDurationHours = r.MainRoute.DurationHours + r.EmptyDriving.DurationHours

	// The empty leg runs before pickup, so only the loaded haul has to fit
	// into the pickup→delivery window.
	available := cmd.DeliveryTime.Sub(cmd.PickupTime).Hours()
	r.DurationValidation = available >= r.MainRoute.DurationHours
	r.IsFeasible = r.DurationValidation

	r.Timeline = buildTimeline(r)

	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("route planned",
		zap.String("route_id", r.ID.String()),
		zap.Float64("distance_km", r.MainRoute.DistanceKm),
		zap.Float64("duration_hours", r.TotalDurationHours),
		zap.Bool("feasible", r.IsFeasible),
	)
	return r, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Route, error) {
	return s.store.Get(ctx, id)
}

func buildTimeline(r *Route) []TimelineEvent {
	events := []TimelineEvent{
		{
			Type:            "pickup",
			Time:            r.PickupTime,
			Location:        r.Origin,
			DurationMinutes: 60,
			Description:     "Loading at origin",
		},
	}
	for _, cs := range r.MainRoute.CountrySegments {
		events = append(events, TimelineEvent{
			Type:        "transit",
			Time:        r.PickupTime,
			Location:    r.Origin,
			Description: cs.Country,
		})
	}
	events = append(events, TimelineEvent{
		Type:            "delivery",
		Time:            r.DeliveryTime,
		Location:        r.Destination,
		DurationMinutes: 60,
		Description:     "Unloading at destination",
	})
	return events
}
