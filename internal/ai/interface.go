package ai

import (
	"context"

	"loadapp/internal/modules/costcalc"
)

// Generator defines the contract for the AI collaborators the core degrades
// gracefully without: breakdown insights and offer fun facts.
// This interface allows for swapping different AI providers (Gemini, OpenAI,
// a local heuristic) without touching the calculation or offer services.
type Generator interface {
	// OptimizationInsight inspects a finished cost breakdown and returns an
	// insight plus an estimated savings potential in breakdown currency units.
	OptimizationInsight(ctx context.Context, resp *costcalc.Response) (*costcalc.Insight, float64, error)

	// FunFact returns a short transport trivia line for a freshly generated offer.
	FunFact(ctx context.Context) (string, error)
}
