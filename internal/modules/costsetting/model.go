// README: Cost setting entity, categories, typed patch, and built-in defaults.
package costsetting

import (
	"time"

	"loadapp/internal/types"
)

const (
	CategoryBase          = "base"
	CategoryVariable      = "variable"
	CategoryCargoSpecific = "cargo-specific"
)

const (
	TypeFuel         = "fuel"
	TypeMaintenance  = "maintenance"
	TypeToll         = "toll"
	TypeTime         = "time"
	TypeWeight       = "weight"
	TypeValue        = "value"
	TypeInsurance    = "insurance"
	TypeOverhead     = "overhead"
	TypeEmptyDriving = "empty_driving"
)

// Usage tracks how a setting has been exercised by past calculations.
type Usage struct {
	LastUsed        *time.Time `json:"last_used,omitempty"`
	UsageCount      int        `json:"usage_count"`
	AverageImpact   float64    `json:"average_impact"`
	ConfidenceScore float64    `json:"confidence_score"`
}

type Setting struct {
	ID          types.ID  `json:"id"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	BaseValue   float64   `json:"base_value"`
	Multiplier  float64   `json:"multiplier"`
	Currency    string    `json:"currency"`
	IsEnabled   bool      `json:"is_enabled"`
	Description string    `json:"description,omitempty"`
	Usage       Usage     `json:"usage"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// EffectiveValue is the per-unit contribution of the setting: zero when
// disabled, base_value × multiplier otherwise.
func (s *Setting) EffectiveValue() float64 {
	if !s.IsEnabled {
		return 0
	}
	return s.BaseValue * s.Multiplier
}

// Patch lists the mutable fields of a setting. Only non-nil fields are
// applied; everything else on the entity stays untouched.
type Patch struct {
	ID          types.ID `json:"id"`
	BaseValue   *float64 `json:"base_value,omitempty"`
	Multiplier  *float64 `json:"multiplier,omitempty"`
	IsEnabled   *bool    `json:"is_enabled,omitempty"`
	Description *string  `json:"description,omitempty"`
}

type Filter struct {
	Category *string
	Enabled  *bool
}

func (f Filter) matches(s *Setting) bool {
	if f.Category != nil && s.Category != *f.Category {
		return false
	}
	if f.Enabled != nil && s.IsEnabled != *f.Enabled {
		return false
	}
	return true
}

// DefaultSettings is the built-in set the registry is reset to: one entry
// per core cost type, all enabled.
func DefaultSettings(currency string) []*Setting {
	now := time.Now().UTC()
	mk := func(settingType, category string, baseValue float64, description string) *Setting {
		return &Setting{
			ID:          types.NewID(),
			Type:        settingType,
			Category:    category,
			BaseValue:   baseValue,
			Multiplier:  1.0,
			Currency:    currency,
			IsEnabled:   true,
			Description: description,
			CreatedAt:   now,
			LastUpdated: now,
		}
	}
	return []*Setting{
		mk(TypeFuel, CategoryVariable, 1.5, "Fuel cost per kilometer"),
		mk(TypeMaintenance, CategoryVariable, 0.3, "Vehicle maintenance per kilometer"),
		mk(TypeTime, CategoryVariable, 35.0, "Driver and vehicle cost per hour"),
		mk(TypeWeight, CategoryCargoSpecific, 0.1, "Cost per kilogram of cargo"),
	}
}
