// README: Cost calculation engine: enabled settings × route drivers → breakdown.
package costcalc

import (
	"context"
	"errors"
	"time"

	"loadapp/internal/modules/costsetting"
	"loadapp/internal/modules/route"
	"loadapp/internal/types"
)

var ErrInvalidRoute = errors.New("route distance and duration must be positive")

const (
	WarnNoSettings      = "no cost settings applied"
	WarnMissingVariable = "missing variable cost settings"
	WarnNoCargo         = "cargo-specific settings skipped: route has no cargo"
)

// InsightProvider turns a finished breakdown into an optimization insight
// and a savings estimate. The engine tolerates a nil provider and provider
// failures alike: the breakdown itself never depends on it.
type InsightProvider interface {
	OptimizationInsight(ctx context.Context, resp *Response) (*Insight, float64, error)
}

type Engine struct {
	currency             string
	emptyDrivingBaseCost float64
	insights             InsightProvider
}

func NewEngine(currency string, emptyDrivingBaseCost float64, insights InsightProvider) *Engine {
	return &Engine{
		currency:             currency,
		emptyDrivingBaseCost: emptyDrivingBaseCost,
		insights:             insights,
	}
}

// Calculate produces the cost breakdown for a route from the enabled
// settings. Disabled settings in the input are ignored.
func (e *Engine) Calculate(ctx context.Context, r *route.Route, settings []*costsetting.Setting) (*Response, error) {
	if r.MainRoute.DistanceKm <= 0 || r.TotalDurationHours <= 0 {
		return nil, ErrInvalidRoute
	}
	if r.EmptyDriving.DistanceKm < 0 || r.EmptyDriving.DurationHours < 0 {
		return nil, ErrInvalidRoute
	}

	start := time.Now()
	resp := &Response{
		CalculationID: types.NewID(),
		Currency:      e.currency,
		Breakdown:     make(map[string]BreakdownItem),
	}

	var emptyDrivingOverride *costsetting.Setting
	applied := 0
	variableApplied := false
	cargoApplied := false

	items := map[string]*BreakdownItem{
		costsetting.CategoryBase: newItem(),
	}
	item := func(category string) *BreakdownItem {
		if it, ok := items[category]; ok {
			return it
		}
		it := newItem()
		items[category] = it
		return it
	}

	for _, s := range settings {
		if !s.IsEnabled {
			continue
		}
		if s.Type == costsetting.TypeEmptyDriving {
			emptyDrivingOverride = s
			continue
		}

		var term float64
		switch s.Category {
		case costsetting.CategoryBase:
			term = s.EffectiveValue()
		case costsetting.CategoryVariable:
			term = s.EffectiveValue() * variableDriver(s.Type, r)
			variableApplied = true
		case costsetting.CategoryCargoSpecific:
			if r.Cargo == nil {
				resp.Warnings = appendUnique(resp.Warnings, WarnNoCargo)
				continue
			}
			term = s.EffectiveValue() * cargoDriver(s.Type, r.Cargo)
			cargoApplied = true
		default:
			continue
		}

		it := item(s.Category)
		it.BaseAmount += term
		it.Adjustments[s.Type+"_multiplier"] = s.Multiplier
		it.AppliedSettings = append(it.AppliedSettings, s.ID)
		resp.AppliedSettings = append(resp.AppliedSettings, snapshotSetting(s))
		applied++
	}

	// The positioning leg and the loaded leg always carry their flat trip
	// costs; an enabled empty_driving setting replaces the leg fallback.
	base := items[costsetting.CategoryBase]
	emptyCost := r.EmptyDriving.BaseCost
	if emptyCost <= 0 {
		emptyCost = e.emptyDrivingBaseCost
	}
	if emptyDrivingOverride != nil {
		emptyCost = emptyDrivingOverride.EffectiveValue()
		base.Adjustments[costsetting.TypeEmptyDriving+"_multiplier"] = emptyDrivingOverride.Multiplier
		base.AppliedSettings = append(base.AppliedSettings, emptyDrivingOverride.ID)
		resp.AppliedSettings = append(resp.AppliedSettings, snapshotSetting(emptyDrivingOverride))
		applied++
	}
	base.BaseAmount += emptyCost + r.MainRoute.BaseCost
	base.Notes = "includes empty driving and main route trip costs"

	for category, it := range items {
		// Composition across recorded factors is multiplicative; with no
		// seasonal factor configured the neutral 1.0 keeps final == base.
		it.Adjustments["seasonal_adjustment"] = 1.0
		it.FinalAmount = it.BaseAmount * it.Adjustments["seasonal_adjustment"]
		resp.TotalCost += it.FinalAmount
		resp.Breakdown[category] = *it
	}

	resp.AccuracyScore = accuracyScore(r, applied, len(items[costsetting.CategoryBase].AppliedSettings) > 0, variableApplied, cargoApplied)
	if applied == 0 {
		resp.Warnings = appendUnique(resp.Warnings, WarnNoSettings)
	} else if !variableApplied && r.MainRoute.DistanceKm > 0 {
		resp.Warnings = appendUnique(resp.Warnings, WarnMissingVariable)
	}

	if e.insights != nil {
		if insight, potential, err := e.insights.OptimizationInsight(ctx, resp); err == nil && insight != nil {
			resp.Insight = insight
			resp.OptimizationPotential = potential
		}
	}

	resp.CalculationTimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	return resp, nil
}

func newItem() *BreakdownItem {
	return &BreakdownItem{Adjustments: make(map[string]float64)}
}

// variableDriver picks the route attribute a variable setting scales with:
// duration for time-based types, distance for everything else.
func variableDriver(settingType string, r *route.Route) float64 {
	if settingType == costsetting.TypeTime {
		return r.TotalDurationHours
	}
	return r.MainRoute.DistanceKm
}

func cargoDriver(settingType string, c *route.Cargo) float64 {
	if settingType == costsetting.TypeValue {
		return c.Value
	}
	return c.WeightKg
}

// accuracyScore reflects category coverage: 1.0 when every category the
// route needs has at least one applied setting, degraded proportionally.
func accuracyScore(r *route.Route, applied int, baseCovered, variableCovered, cargoCovered bool) float64 {
	if applied == 0 {
		return 0.0
	}
	required := 2.0
	covered := 0.0
	if baseCovered {
		covered++
	}
	if variableCovered {
		covered++
	}
	if r.Cargo != nil {
		required++
		if cargoCovered {
			covered++
		}
	}
	return covered / required
}

func appendUnique(warnings []string, w string) []string {
	for _, existing := range warnings {
		if existing == w {
			return warnings
		}
	}
	return append(warnings, w)
}
