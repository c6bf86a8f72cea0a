// Package llm provides the text-generation client abstraction and its Gemini
// implementation.
package llm

import "time"

// ModelTier represents the complexity/capability level of a model.
type ModelTier string

const (
	// TierLite is for simple tasks: rapport replies, follow-up questions.
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: feedback, profile extraction.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for the comprehensive end-of-interview analysis.
	TierAdvanced ModelTier = "advanced"
)

// Config holds the model configuration and the per-call timeout.
type Config struct {
	Models  map[ModelTier]string
	Timeout time.Duration
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Timeout: 30 * time.Second,
	}
}

// GetModel returns the model name for a tier, falling back through standard
// and lite when the tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
