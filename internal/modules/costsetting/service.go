// README: Cost setting registry service: list, atomic batch update, reset.
package costsetting

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"loadapp/internal/types"
)

// Registry is the persistence contract the service runs on. Both the
// Postgres and in-memory stores satisfy it; updates are all-or-nothing.
type Registry interface {
	List(ctx context.Context, f Filter) ([]*Setting, error)
	ApplyPatches(ctx context.Context, patches []Patch) ([]*Setting, error)
	Replace(ctx context.Context, settings []*Setting) error
	MarkUsed(ctx context.Context, ids []types.ID, impact float64) error
}

type Service struct {
	store    Registry
	currency string
	logger   *zap.Logger
}

func NewService(store Registry, currency string, logger *zap.Logger) *Service {
	return &Service{store: store, currency: currency, logger: logger}
}

func (s *Service) ListSettings(ctx context.Context, f Filter) ([]*Setting, error) {
	return s.store.List(ctx, f)
}

// EnabledSettings is what the calculation engine consumes.
func (s *Service) EnabledSettings(ctx context.Context) ([]*Setting, error) {
	enabled := true
	return s.store.List(ctx, Filter{Enabled: &enabled})
}

// UpdateSettings applies a batch of typed patches. The batch fails as a
// whole if any patch references an unknown id or breaks a range rule.
func (s *Service) UpdateSettings(ctx context.Context, patches []Patch) ([]*Setting, error) {
	if len(patches) == 0 {
		return nil, fmt.Errorf("%w: empty patch batch", ErrValidation)
	}
	for _, p := range patches {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: patch without setting id", ErrValidation)
		}
	}
	updated, err := s.store.ApplyPatches(ctx, patches)
	if err != nil {
		s.logger.Warn("cost settings update rejected", zap.Int("patches", len(patches)), zap.Error(err))
		return nil, err
	}
	s.logger.Info("cost settings updated", zap.Int("count", len(updated)))
	return updated, nil
}

// ResetToDefaults replaces the registry contents with the built-in set.
func (s *Service) ResetToDefaults(ctx context.Context) ([]*Setting, error) {
	defaults := DefaultSettings(s.currency)
	if err := s.store.Replace(ctx, defaults); err != nil {
		return nil, err
	}
	s.logger.Info("cost settings reset to defaults", zap.Int("count", len(defaults)))
	return defaults, nil
}

// MarkUsed is called by the calculation service after a breakdown is
// produced; failures only lose usage telemetry, so they are logged, not
// propagated.
func (s *Service) MarkUsed(ctx context.Context, ids []types.ID, impact float64) {
	if err := s.store.MarkUsed(ctx, ids, impact); err != nil {
		s.logger.Warn("failed to record setting usage", zap.Error(err))
	}
}
