package skills

import "time"

// Per-skill timeout defaults and caps, in milliseconds.
const (
	DefaultMarketTimeoutMs = 15000
	MaxMarketTimeoutMs     = 30000
	DefaultGuardTimeoutMs  = 30000
	MaxGuardTimeoutMs      = 120000
)

// Config holds per-call settings supplied by the host. The zero value
// means "use defaults" for every field.
type Config struct {
	// TimeoutMs is the per-attempt timeout for external calls. Each skill
	// clamps it to its own cap.
	TimeoutMs int `json:"timeoutMs,omitempty" mapstructure:"timeout_ms"`

	// MaxCostUsd is the pre-flight budget for market-data actions.
	// Nil means no budget is enforced.
	MaxCostUsd *float64 `json:"maxCostUsd,omitempty" mapstructure:"max_cost_usd"`

	// Model and MaxTokens apply only to the guard-agent deep-analysis call.
	Model     string `json:"model,omitempty" mapstructure:"model"`
	MaxTokens int    `json:"maxTokens,omitempty" mapstructure:"max_tokens"`
}

// Timeout resolves the effective per-attempt timeout given a skill's
// default and cap.
func (c Config) Timeout(defaultMs, capMs int) time.Duration {
	ms := c.TimeoutMs
	if ms <= 0 {
		ms = defaultMs
	}
	if ms > capMs {
		ms = capMs
	}
	return time.Duration(ms) * time.Millisecond
}
