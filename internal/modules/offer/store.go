// README: Offer store backed by PostgreSQL; writes are CAS on the version column.
package offer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"loadapp/internal/modules/costcalc"
	"loadapp/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, o *Offer) error {
	breakdown, err := json.Marshal(o.CostBreakdown)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO offers (
			id, route_id, total_cost, margin, final_price, currency,
			cost_breakdown, fun_fact, status, created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(o.ID), string(o.RouteID), o.TotalCost, o.Margin, o.FinalPrice,
		o.Currency, breakdown, o.FunFact, string(o.Status),
		o.CreatedAt, o.UpdatedAt, o.Version,
	)
	return err
}

const offerColumns = `
	id, route_id, total_cost, margin, final_price, currency,
	cost_breakdown, fun_fact, status, created_at, updated_at, version`

func (s *Store) Get(ctx context.Context, id types.ID) (*Offer, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+offerColumns+`
		FROM offers
		WHERE id = $1`, string(id),
	)
	return scanOffer(row)
}

func (s *Store) List(ctx context.Context, f Filter) ([]*Offer, int, error) {
	var status *string
	if f.Status != nil {
		v := string(*f.Status)
		status = &v
	}
	var routeID *string
	if f.RouteID != nil {
		v := string(*f.RouteID)
		routeID = &v
	}

	var total int
	if err := s.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM offers
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR route_id = $2)`,
		status, routeID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT `+offerColumns+`
		FROM offers
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR route_id = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`,
		status, routeID, f.PageSize, (f.Page-1)*f.PageSize,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

// UpdateStatus is a conditional write: it succeeds only when both the
// current status and version still match what the caller read.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE offers
		SET status = $1,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $2 AND status = $3 AND version = $4`,
		string(to), string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) UpdateMargin(ctx context.Context, id types.ID, margin, finalPrice float64, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE offers
		SET margin = $1,
		    final_price = $2,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $3 AND version = $4`,
		margin, finalPrice, string(id), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendVersion(ctx context.Context, rec *VersionRecord) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO offer_versions (
			offer_id, version, status, margin, final_price, reason, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(rec.OfferID), rec.Version, string(rec.Status),
		rec.Margin, rec.FinalPrice, rec.Reason, rec.CreatedAt,
	)
	return err
}

func (s *Store) ListVersions(ctx context.Context, id types.ID) ([]*VersionRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT offer_id, version, status, margin, final_price, reason, created_at
		FROM offer_versions
		WHERE offer_id = $1
		ORDER BY version`, string(id),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*VersionRecord
	for rows.Next() {
		var rec VersionRecord
		if err := rows.Scan(
			&rec.OfferID, &rec.Version, &rec.Status,
			&rec.Margin, &rec.FinalPrice, &rec.Reason, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func scanOffer(row pgx.Row) (*Offer, error) {
	var o Offer
	var breakdown []byte
	err := row.Scan(
		&o.ID, &o.RouteID, &o.TotalCost, &o.Margin, &o.FinalPrice, &o.Currency,
		&breakdown, &o.FunFact, &o.Status, &o.CreatedAt, &o.UpdatedAt, &o.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(breakdown) > 0 {
		o.CostBreakdown = &costcalc.Response{}
		if err := json.Unmarshal(breakdown, o.CostBreakdown); err != nil {
			return nil, err
		}
	}
	return &o, nil
}
