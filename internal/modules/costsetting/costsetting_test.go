// README: Cost setting registry tests (validation rules + atomic batch updates).
package costsetting

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"loadapp/internal/types"
)

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc := NewService(store, "EUR", zap.NewNop())
	if _, err := svc.ResetToDefaults(context.Background()); err != nil {
		t.Fatalf("seed defaults: %v", err)
	}
	return svc, store
}

func settingByType(t *testing.T, svc *Service, settingType string) *Setting {
	t.Helper()
	settings, err := svc.ListSettings(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list settings: %v", err)
	}
	for _, s := range settings {
		if s.Type == settingType {
			return s
		}
	}
	t.Fatalf("no setting of type %q", settingType)
	return nil
}

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestValidateSettingRules(t *testing.T) {
	cases := []struct {
		name    string
		setting Setting
		ok      bool
	}{
		{"valid fuel", Setting{Type: TypeFuel, Category: CategoryVariable, BaseValue: 1.5, Multiplier: 1.0}, true},
		{"fuel below type minimum", Setting{Type: TypeFuel, Category: CategoryVariable, BaseValue: 0.05, Multiplier: 1.0}, false},
		{"time below type minimum", Setting{Type: TypeTime, Category: CategoryVariable, BaseValue: 0.5, Multiplier: 1.0}, false},
		{"generic minimum applies", Setting{Type: TypeToll, Category: CategoryVariable, BaseValue: 0.005, Multiplier: 1.0}, false},
		{"generic minimum boundary", Setting{Type: TypeToll, Category: CategoryVariable, BaseValue: 0.01, Multiplier: 1.0}, true},
		{"base value above cap", Setting{Type: TypeOverhead, Category: CategoryBase, BaseValue: 1_000_001, Multiplier: 1.0}, false},
		{"multiplier at upper bound", Setting{Type: TypeFuel, Category: CategoryVariable, BaseValue: 1.5, Multiplier: 10.0}, true},
		{"multiplier above upper bound", Setting{Type: TypeFuel, Category: CategoryVariable, BaseValue: 1.5, Multiplier: 10.01}, false},
		{"negative multiplier", Setting{Type: TypeFuel, Category: CategoryVariable, BaseValue: 1.5, Multiplier: -0.1}, false},
		{"missing type", Setting{Category: CategoryVariable, BaseValue: 1.0, Multiplier: 1.0}, false},
		{"unknown category", Setting{Type: TypeFuel, Category: "seasonal", BaseValue: 1.5, Multiplier: 1.0}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSetting(&tc.setting)
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
			}
		})
	}
}

func TestResetToDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	settings, err := svc.ListSettings(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(settings) != 4 {
		t.Fatalf("expected 4 default settings, got %d", len(settings))
	}
	for _, s := range settings {
		if !s.IsEnabled {
			t.Errorf("default setting %s should be enabled", s.Type)
		}
		if s.Multiplier != 1.0 {
			t.Errorf("default setting %s multiplier = %v, want 1.0", s.Type, s.Multiplier)
		}
		if s.Currency != "EUR" {
			t.Errorf("default setting %s currency = %q, want EUR", s.Type, s.Currency)
		}
	}

	fuel := settingByType(t, svc, TypeFuel)
	if fuel.BaseValue != 1.5 {
		t.Errorf("fuel base value = %v, want 1.5", fuel.BaseValue)
	}
}

func TestListFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	variable := CategoryVariable
	settings, err := svc.ListSettings(ctx, Filter{Category: &variable})
	if err != nil {
		t.Fatalf("list variable: %v", err)
	}
	if len(settings) != 3 {
		t.Fatalf("expected 3 variable settings, got %d", len(settings))
	}

	weight := settingByType(t, svc, TypeWeight)
	if _, err := svc.UpdateSettings(ctx, []Patch{{ID: weight.ID, IsEnabled: boolPtr(false)}}); err != nil {
		t.Fatalf("disable weight: %v", err)
	}

	enabled, err := svc.EnabledSettings(ctx)
	if err != nil {
		t.Fatalf("enabled list: %v", err)
	}
	if len(enabled) != 3 {
		t.Fatalf("expected 3 enabled settings after disable, got %d", len(enabled))
	}
	for _, s := range enabled {
		if s.Type == TypeWeight {
			t.Fatal("disabled weight setting returned as enabled")
		}
	}
}

func TestUpdateSettingsPatchFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	fuel := settingByType(t, svc, TypeFuel)
	updated, err := svc.UpdateSettings(ctx, []Patch{{
		ID:         fuel.ID,
		BaseValue:  floatPtr(1.8),
		Multiplier: floatPtr(1.2),
	}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated) != 1 {
		t.Fatalf("expected 1 updated setting, got %d", len(updated))
	}
	if updated[0].BaseValue != 1.8 || updated[0].Multiplier != 1.2 {
		t.Fatalf("patch not applied: base=%v mult=%v", updated[0].BaseValue, updated[0].Multiplier)
	}
	// Untouched fields retain their values.
	if updated[0].Type != TypeFuel || !updated[0].IsEnabled {
		t.Fatalf("patch touched fields it should not: %+v", updated[0])
	}
	if got := settingByType(t, svc, TypeFuel).EffectiveValue(); got != 1.8*1.2 {
		t.Fatalf("effective value = %v, want %v", got, 1.8*1.2)
	}
}

func TestUpdateSettingsBatchIsAtomic(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	fuel := settingByType(t, svc, TypeFuel)
	maintenance := settingByType(t, svc, TypeMaintenance)

	// The second patch drops maintenance under its 0.05 floor, so the
	// whole batch must fail and the first patch must not stick.
	_, err := svc.UpdateSettings(ctx, []Patch{
		{ID: fuel.ID, BaseValue: floatPtr(2.0)},
		{ID: maintenance.ID, BaseValue: floatPtr(0.01)},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	if got := settingByType(t, svc, TypeFuel).BaseValue; got != 1.5 {
		t.Fatalf("fuel base value changed to %v despite failed batch", got)
	}
	if got := settingByType(t, svc, TypeMaintenance).BaseValue; got != 0.3 {
		t.Fatalf("maintenance base value changed to %v despite failed batch", got)
	}
}

func TestUpdateSettingsUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateSettings(context.Background(), []Patch{
		{ID: types.NewID(), BaseValue: floatPtr(2.0)},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown id, got %v", err)
	}
}

func TestUpdateSettingsRejectsEmptyBatch(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.UpdateSettings(context.Background(), nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty batch, got %v", err)
	}
	if _, err := svc.UpdateSettings(context.Background(), []Patch{{}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for patch without id, got %v", err)
	}
}

func TestMarkUsedUpdatesUsageStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	fuel := settingByType(t, svc, TypeFuel)
	svc.MarkUsed(ctx, []types.ID{fuel.ID}, 100.0)
	svc.MarkUsed(ctx, []types.ID{fuel.ID}, 200.0)

	after := settingByType(t, svc, TypeFuel)
	if after.Usage.UsageCount != 2 {
		t.Fatalf("usage count = %d, want 2", after.Usage.UsageCount)
	}
	if after.Usage.AverageImpact != 150.0 {
		t.Fatalf("average impact = %v, want 150", after.Usage.AverageImpact)
	}
	if after.Usage.LastUsed == nil {
		t.Fatal("last used not set")
	}
	if after.Usage.ConfidenceScore != 0.02 {
		t.Fatalf("confidence = %v, want 0.02", after.Usage.ConfidenceScore)
	}
}

func TestDisabledSettingHasZeroEffectiveValue(t *testing.T) {
	s := Setting{Type: TypeFuel, Category: CategoryVariable, BaseValue: 1.5, Multiplier: 2.0, IsEnabled: false}
	if got := s.EffectiveValue(); got != 0 {
		t.Fatalf("disabled effective value = %v, want 0", got)
	}
}
