package ai

import (
	"context"
	"fmt"
	"sync/atomic"

	"loadapp/internal/modules/costcalc"
	"loadapp/internal/modules/costsetting"
)

// HeuristicGenerator is the offline Generator used when no Gemini key is
// configured. Its output is deterministic for a given breakdown.
type HeuristicGenerator struct {
	factCursor atomic.Uint64
}

func NewHeuristicGenerator() *HeuristicGenerator {
	return &HeuristicGenerator{}
}

func (h *HeuristicGenerator) OptimizationInsight(ctx context.Context, resp *costcalc.Response) (*costcalc.Insight, float64, error) {
	if resp.TotalCost <= 0 {
		return nil, 0, nil
	}

	dominantCategory := ""
	dominantShare := 0.0
	for category, item := range resp.Breakdown {
		share := item.FinalAmount / resp.TotalCost
		if share > dominantShare {
			dominantShare = share
			dominantCategory = category
		}
	}

	var actions []string
	if dominantCategory == costsetting.CategoryVariable {
		actions = append(actions, "review fuel and toll rates against current market prices")
	}
	if dominantCategory == costsetting.CategoryBase {
		actions = append(actions, "reduce the empty driving positioning leg by repositioning from a closer depot")
	}
	if resp.AccuracyScore < 1.0 {
		actions = append(actions, "enable cost settings for uncovered categories to tighten the estimate")
	}

	// Savings potential scales with how concentrated the cost is: a single
	// dominant category is the easiest lever to pull.
	potential := resp.TotalCost * 0.1 * dominantShare

	insight := &costcalc.Insight{
		Summary: fmt.Sprintf("%.0f%% of the total sits in the %s category; that is the main optimization lever.",
			dominantShare*100, dominantCategory),
		ImpactLevel:      impactLevel(potential),
		Confidence:       0.75,
		SuggestedActions: actions,
	}
	return insight, potential, nil
}

var funFacts = []string{
	"Around a fifth of all truck kilometers in Europe are driven completely empty.",
	"A modern long-haul truck covers roughly 130,000 kilometers a year, three times around the equator.",
	"The TIR carnet system that speeds trucks across borders dates back to 1949.",
	"Road freight moves about three quarters of all inland cargo tonnage in the EU.",
	"A fully loaded 40-tonne truck needs about 25% less fuel per tonne than two half-empty ones.",
}

func (h *HeuristicGenerator) FunFact(ctx context.Context) (string, error) {
	i := h.factCursor.Add(1)
	return funFacts[int(i)%len(funFacts)], nil
}

func impactLevel(potential float64) string {
	switch {
	case potential >= 500:
		return "high"
	case potential >= 100:
		return "medium"
	default:
		return "low"
	}
}
