package marketanalyzer

import (
	"fmt"

	skilltypes "github.com/junohq/agentskills/pkg/types/skills"
)

// Fixed per-action cost estimates in USD. This is a pre-flight gate
// against the configured budget, not metered billing.
const (
	costQuote            = 0.01
	costAnalyze          = 0.05
	costComparePerSymbol = 0.02
	costAlertPerEntry    = 0.01
)

// checkCostLimit rejects the call when the estimated cost exceeds the
// configured budget. A nil budget means no limit.
func checkCostLimit(cfg skilltypes.Config, estimated float64) error {
	if cfg.MaxCostUsd == nil {
		return nil
	}
	if estimated > *cfg.MaxCostUsd {
		return skilltypes.NewSkillError(skilltypes.CodeCostLimitExceeded,
			fmt.Sprintf("estimated cost $%.2f exceeds limit $%.2f", estimated, *cfg.MaxCostUsd),
			false)
	}
	return nil
}
