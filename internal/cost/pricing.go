// Package cost estimates the dollar cost of LLM calls from token counts.
package cost

// Pricing is a model's USD price per one million tokens.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// pricing covers the models shipnote ships with. Estimates for unknown
// models are reported as unavailable rather than guessed.
var pricing = map[string]Pricing{
	"claude-sonnet-4-5-20250929": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"gpt-4o-mini":                {InputPerMillion: 0.15, OutputPerMillion: 0.60},
}

// Lookup returns the pricing for a model.
func Lookup(model string) (Pricing, bool) {
	p, ok := pricing[model]
	return p, ok
}

// Estimate returns the USD cost of a single call, and false when the model
// is not in the pricing table.
func Estimate(model string, inputTokens, outputTokens int64) (float64, bool) {
	p, ok := pricing[model]
	if !ok {
		return 0, false
	}
	return float64(inputTokens)/1e6*p.InputPerMillion +
		float64(outputTokens)/1e6*p.OutputPerMillion, true
}
