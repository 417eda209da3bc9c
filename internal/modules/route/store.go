// README: Route store backed by PostgreSQL; legs and timeline held as JSONB.
package route

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"loadapp/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, r *Route) error {
	emptyDriving, err := json.Marshal(r.EmptyDriving)
	if err != nil {
		return err
	}
	mainRoute, err := json.Marshal(r.MainRoute)
	if err != nil {
		return err
	}
	timeline, err := json.Marshal(r.Timeline)
	if err != nil {
		return err
	}
	transportType, err := json.Marshal(r.TransportType)
	if err != nil {
		return err
	}
	cargo, err := json.Marshal(r.Cargo)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO routes (
			id, origin_lat, origin_lng, origin_address,
			destination_lat, destination_lng, destination_address,
			pickup_time, delivery_time, transport_type, cargo,
			empty_driving, main_route, timeline,
			total_duration_hours, is_feasible, duration_validation, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17, $18
		)`,
		string(r.ID),
		r.Origin.Latitude, r.Origin.Longitude, r.Origin.Address,
		r.Destination.Latitude, r.Destination.Longitude, r.Destination.Address,
		r.PickupTime, r.DeliveryTime, transportType, cargo,
		emptyDriving, mainRoute, timeline,
		r.TotalDurationHours, r.IsFeasible, r.DurationValidation, r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Route, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, origin_lat, origin_lng, origin_address,
		       destination_lat, destination_lng, destination_address,
		       pickup_time, delivery_time, transport_type, cargo,
		       empty_driving, main_route, timeline,
		       total_duration_hours, is_feasible, duration_validation, created_at
		FROM routes
		WHERE id = $1`, string(id),
	)

	var r Route
	var transportType, cargo, emptyDriving, mainRoute, timeline []byte
	err := row.Scan(
		&r.ID, &r.Origin.Latitude, &r.Origin.Longitude, &r.Origin.Address,
		&r.Destination.Latitude, &r.Destination.Longitude, &r.Destination.Address,
		&r.PickupTime, &r.DeliveryTime, &transportType, &cargo,
		&emptyDriving, &mainRoute, &timeline,
		&r.TotalDurationHours, &r.IsFeasible, &r.DurationValidation, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(transportType, &r.TransportType); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cargo, &r.Cargo); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(emptyDriving, &r.EmptyDriving); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(mainRoute, &r.MainRoute); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(timeline, &r.Timeline); err != nil {
		return nil, err
	}
	return &r, nil
}
