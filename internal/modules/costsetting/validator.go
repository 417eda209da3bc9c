// README: Field-level validation rules for cost settings and patches.
package costsetting

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("cost setting validation failed")
	ErrNotFound   = errors.New("cost setting not found")
)

const (
	MinMultiplier = 0.0
	MaxMultiplier = 10.0
	MaxBaseValue  = 1_000_000.0
)

// Per-type floors on base_value. Types without an entry fall back to the
// generic minimum.
var typeMinimums = map[string]float64{
	TypeFuel:        0.1,
	TypeTime:        1.0,
	TypeMaintenance: 0.05,
}

const defaultMinimum = 0.01

var validCategories = map[string]bool{
	CategoryBase:          true,
	CategoryVariable:      true,
	CategoryCargoSpecific: true,
}

func MinBaseValue(settingType string) float64 {
	if min, ok := typeMinimums[settingType]; ok {
		return min
	}
	return defaultMinimum
}

func validateSetting(s *Setting) error {
	if s.Type == "" {
		return fmt.Errorf("%w: type is required", ErrValidation)
	}
	if !validCategories[s.Category] {
		return fmt.Errorf("%w: invalid category %q", ErrValidation, s.Category)
	}
	if min := MinBaseValue(s.Type); s.BaseValue < min {
		return fmt.Errorf("%w: base_value %.4f below minimum %.2f for type %q",
			ErrValidation, s.BaseValue, min, s.Type)
	}
	if s.BaseValue > MaxBaseValue {
		return fmt.Errorf("%w: base_value %.2f above maximum %.0f", ErrValidation, s.BaseValue, MaxBaseValue)
	}
	if s.Multiplier < MinMultiplier || s.Multiplier > MaxMultiplier {
		return fmt.Errorf("%w: multiplier %.2f outside [%.0f, %.0f]",
			ErrValidation, s.Multiplier, MinMultiplier, MaxMultiplier)
	}
	return nil
}

// applyPatch validates the patch against the current entity and mutates it.
// Shared by the Postgres and in-memory stores so both enforce identical
// rules inside their atomic sections.
func applyPatch(current *Setting, p Patch) error {
	next := *current
	if p.BaseValue != nil {
		next.BaseValue = *p.BaseValue
	}
	if p.Multiplier != nil {
		next.Multiplier = *p.Multiplier
	}
	if p.IsEnabled != nil {
		next.IsEnabled = *p.IsEnabled
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if err := validateSetting(&next); err != nil {
		return err
	}
	*current = next
	return nil
}
