// README: Cost breakdown response model; setting snapshots are copies, not references.
package costcalc

import (
	"loadapp/internal/modules/costsetting"
	"loadapp/internal/types"
)

// BreakdownItem is one category's share of the total.
type BreakdownItem struct {
	BaseAmount      float64            `json:"base_amount"`
	Adjustments     map[string]float64 `json:"adjustments"`
	FinalAmount     float64            `json:"final_amount"`
	AppliedSettings []types.ID         `json:"applied_settings"`
	Notes           string             `json:"notes,omitempty"`
}

// AppliedSetting is a snapshot of a setting at calculation time, embedded
// in the response so later edits never alter a historical breakdown.
type AppliedSetting struct {
	ID         types.ID `json:"id"`
	Type       string   `json:"type"`
	Category   string   `json:"category"`
	BaseValue  float64  `json:"base_value"`
	Multiplier float64  `json:"multiplier"`
	Currency   string   `json:"currency"`
}

func snapshotSetting(s *costsetting.Setting) AppliedSetting {
	return AppliedSetting{
		ID:         s.ID,
		Type:       s.Type,
		Category:   s.Category,
		BaseValue:  s.BaseValue,
		Multiplier: s.Multiplier,
		Currency:   s.Currency,
	}
}

// Insight is the optional output of the pluggable insight generator.
type Insight struct {
	Summary          string   `json:"summary"`
	ImpactLevel      string   `json:"impact_level"`
	Confidence       float64  `json:"confidence"`
	SuggestedActions []string `json:"suggested_actions,omitempty"`
}

type Response struct {
	CalculationID         types.ID                 `json:"calculation_id"`
	TotalCost             float64                  `json:"total_cost"`
	Currency              string                   `json:"currency"`
	Breakdown             map[string]BreakdownItem `json:"breakdown"`
	AppliedSettings       []AppliedSetting         `json:"applied_settings"`
	OptimizationPotential float64                  `json:"optimization_potential"`
	AccuracyScore         float64                  `json:"accuracy_score"`
	CalculationTimeMs     float64                  `json:"calculation_time_ms"`
	Insight               *Insight                 `json:"optimization_insight,omitempty"`
	Warnings              []string                 `json:"warnings,omitempty"`
}

// AppliedSettingIDs lists every setting that contributed to the total.
func (r *Response) AppliedSettingIDs() []types.ID {
	ids := make([]types.ID, 0, len(r.AppliedSettings))
	for _, s := range r.AppliedSettings {
		ids = append(ids, s.ID)
	}
	return ids
}
