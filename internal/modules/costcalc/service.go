// README: Calculation service: loads enabled settings, runs the engine, caches the result.
package costcalc

import (
	"context"

	"go.uber.org/zap"

	"loadapp/internal/modules/costsetting"
	"loadapp/internal/modules/route"
	"loadapp/internal/types"
)

type Service struct {
	engine   *Engine
	settings *costsetting.Service
	routes   *route.Service
	cache    *Cache
	logger   *zap.Logger
}

func NewService(engine *Engine, settings *costsetting.Service, routes *route.Service, cache *Cache, logger *zap.Logger) *Service {
	return &Service{
		engine:   engine,
		settings: settings,
		routes:   routes,
		cache:    cache,
		logger:   logger,
	}
}

// CalculateForRoute runs a full calculation for a stored route.
func (s *Service) CalculateForRoute(ctx context.Context, routeID types.ID) (*Response, error) {
	r, err := s.routes.Get(ctx, routeID)
	if err != nil {
		return nil, err
	}
	return s.Calculate(ctx, r)
}

func (s *Service) Calculate(ctx context.Context, r *route.Route) (*Response, error) {
	enabled, err := s.settings.EnabledSettings(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.engine.Calculate(ctx, r, enabled)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, resp); err != nil {
		// A cache miss later is recoverable; the calculation itself is not
		// invalidated by a failed write.
		s.logger.Warn("failed to cache calculation", zap.String("calculation_id", resp.CalculationID.String()), zap.Error(err))
	}
	if ids := resp.AppliedSettingIDs(); len(ids) > 0 {
		s.settings.MarkUsed(ctx, ids, resp.TotalCost)
	}

	s.logger.Info("cost calculated",
		zap.String("route_id", r.ID.String()),
		zap.String("calculation_id", resp.CalculationID.String()),
		zap.Float64("total_cost", resp.TotalCost),
		zap.Float64("accuracy_score", resp.AccuracyScore),
		zap.Float64("calculation_time_ms", resp.CalculationTimeMs),
	)
	return resp, nil
}

// GetCalculation returns a previously produced breakdown by id.
func (s *Service) GetCalculation(ctx context.Context, id types.ID) (*Response, error) {
	return s.cache.Get(ctx, id)
}
