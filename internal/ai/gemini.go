package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"loadapp/internal/modules/costcalc"
)

// GeminiGenerator implements Generator using Google's Gemini models.
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiGenerator initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Use Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.4)

	return &GeminiGenerator{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (g *GeminiGenerator) Close() {
	g.client.Close()
}

type insightPayload struct {
	Summary          string   `json:"summary"`
	ImpactLevel      string   `json:"impact_level"`
	Confidence       float64  `json:"confidence"`
	SuggestedActions []string `json:"suggested_actions"`
	PotentialSavings float64  `json:"potential_savings"`
}

// OptimizationInsight asks the model for cost-saving suggestions grounded
// in the breakdown numbers.
func (g *GeminiGenerator) OptimizationInsight(ctx context.Context, resp *costcalc.Response) (*costcalc.Insight, float64, error) {
	breakdownJSON, err := json.Marshal(resp.Breakdown)
	if err != nil {
		return nil, 0, err
	}

	prompt := fmt.Sprintf(`Role: You are a cost analyst for a European road freight operator.
A transport quote was calculated with total cost %.2f %s and this per-category breakdown:
%s

Suggest how the operator could reduce this cost. Respond with JSON:
{
  "summary": "<one sentence>",
  "impact_level": "low" | "medium" | "high",
  "confidence": <0.0-1.0>,
  "suggested_actions": ["<short action>", ...],
  "potential_savings": <estimated savings in %s, 0 if none>
}
Keep suggested_actions to at most 3 entries. Base every number on the breakdown above.`,
		resp.TotalCost, resp.Currency, string(breakdownJSON), resp.Currency)

	raw, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, 0, err
	}

	var payload insightPayload
	if err := json.Unmarshal([]byte(cleanJSONString(raw)), &payload); err != nil {
		return nil, 0, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, raw)
	}
	insight := &costcalc.Insight{
		Summary:          payload.Summary,
		ImpactLevel:      payload.ImpactLevel,
		Confidence:       clamp01(payload.Confidence),
		SuggestedActions: payload.SuggestedActions,
	}
	if payload.PotentialSavings < 0 {
		payload.PotentialSavings = 0
	}
	return insight, payload.PotentialSavings, nil
}

// FunFact returns one transport trivia line.
func (g *GeminiGenerator) FunFact(ctx context.Context) (string, error) {
	raw, err := g.generate(ctx, `Respond with JSON {"fact": "<one surprising, true fun fact about road freight or logistics, max 25 words>"}`)
	if err != nil {
		return "", err
	}
	var payload struct {
		Fact string `json:"fact"`
	}
	if err := json.Unmarshal([]byte(cleanJSONString(raw)), &payload); err != nil {
		return "", fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, raw)
	}
	return payload.Fact, nil
}

func (g *GeminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	return out.String(), nil
}

// cleanJSONString strips markdown code fences the model sometimes wraps
// around JSON output despite the response MIME type.
func cleanJSONString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
