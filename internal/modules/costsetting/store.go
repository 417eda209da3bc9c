// README: Cost setting store backed by PostgreSQL.
package costsetting

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const settingColumns = `
	id, type, category, base_value, multiplier, currency, is_enabled,
	description, last_used, usage_count, average_impact, confidence_score,
	created_at, last_updated`

func (s *Store) List(ctx context.Context, f Filter) ([]*Setting, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+settingColumns+`
		FROM cost_settings
		WHERE ($1::text IS NULL OR category = $1)
		  AND ($2::boolean IS NULL OR is_enabled = $2)
		ORDER BY created_at, id`,
		f.Category, f.Enabled,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Setting
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, setting)
	}
	return out, rows.Err()
}

// ApplyPatches applies the batch inside a single transaction. Any unknown
// id or invalid value rolls the whole batch back.
func (s *Store) ApplyPatches(ctx context.Context, patches []Patch) ([]*Setting, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	updated := make([]*Setting, 0, len(patches))
	for _, p := range patches {
		row := tx.QueryRow(ctx, `
			SELECT `+settingColumns+`
			FROM cost_settings
			WHERE id = $1
			FOR UPDATE`, string(p.ID),
		)
		current, err := scanSetting(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: setting %s: %s", ErrValidation, p.ID, ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		if err := applyPatch(current, p); err != nil {
			return nil, err
		}
		current.LastUpdated = time.Now().UTC()
		if _, err := tx.Exec(ctx, `
			UPDATE cost_settings
			SET base_value = $1, multiplier = $2, is_enabled = $3,
			    description = $4, last_updated = $5
			WHERE id = $6`,
			current.BaseValue, current.Multiplier, current.IsEnabled,
			current.Description, current.LastUpdated, string(current.ID),
		); err != nil {
			return nil, err
		}
		updated = append(updated, current)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// Replace swaps the full registry contents for the given set.
func (s *Store) Replace(ctx context.Context, settings []*Setting) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cost_settings`); err != nil {
		return err
	}
	for _, setting := range settings {
		if _, err := tx.Exec(ctx, `
			INSERT INTO cost_settings (
				id, type, category, base_value, multiplier, currency, is_enabled,
				description, usage_count, average_impact, confidence_score,
				created_at, last_updated
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			string(setting.ID), setting.Type, setting.Category, setting.BaseValue,
			setting.Multiplier, setting.Currency, setting.IsEnabled, setting.Description,
			setting.Usage.UsageCount, setting.Usage.AverageImpact, setting.Usage.ConfidenceScore,
			setting.CreatedAt, setting.LastUpdated,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// MarkUsed records one calculation's use of the given settings.
func (s *Store) MarkUsed(ctx context.Context, ids []types.ID, impact float64) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	_, err := s.db.Exec(ctx, `
		UPDATE cost_settings
		SET last_used = NOW(),
		    usage_count = usage_count + 1,
		    average_impact = (average_impact * usage_count + $2) / (usage_count + 1),
		    confidence_score = LEAST(1.0, confidence_score + 0.01)
		WHERE id = ANY($1)`,
		raw, impact,
	)
	return err
}

func scanSetting(row pgx.Row) (*Setting, error) {
	var setting Setting
	var lastUsed *time.Time
	err := row.Scan(
		&setting.ID, &setting.Type, &setting.Category, &setting.BaseValue,
		&setting.Multiplier, &setting.Currency, &setting.IsEnabled,
		&setting.Description, &lastUsed, &setting.Usage.UsageCount,
		&setting.Usage.AverageImpact, &setting.Usage.ConfidenceScore,
		&setting.CreatedAt, &setting.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	setting.Usage.LastUsed = lastUsed
	return &setting, nil
}
