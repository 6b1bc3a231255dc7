package marketanalyzer

import (
	"fmt"
	"strings"

	markettypes "github.com/junohq/agentskills/pkg/types/market"
	"github.com/junohq/agentskills/pkg/types/skills"
)

// QuoteResult is the outcome of a quote action.
type QuoteResult struct {
	symbol    string
	assetType string
	quote     markettypes.Quote
	costUsd   float64
}

var _ skills.SkillResult = &QuoteResult{}

func (r *QuoteResult) GetResult() string {
	q := r.quote
	out := fmt.Sprintf("%s: %.2f (%+.2f, %+.2f%%)", q.Symbol, q.Price, q.Change, q.ChangePercent)
	if q.Volume > 0 {
		out += fmt.Sprintf(", volume %.0f", q.Volume)
	}
	if q.Currency != "" {
		out += " " + q.Currency
	}
	return out
}
func (r *QuoteResult) GetError() string { return "" }
func (r *QuoteResult) IsError() bool    { return false }
func (r *QuoteResult) AssistantFacing() string {
	return skills.StringifySkillResult(r.GetResult(), "")
}
func (r *QuoteResult) StructuredData() skills.StructuredSkillResult {
	result := skills.NewStructuredResult(SkillName, ActionQuote, nil)
	result.Metadata = skills.QuoteMetadata{
		Symbol:    r.symbol,
		AssetType: r.assetType,
		Quote:     r.quote,
		CostUsd:   r.costUsd,
	}
	return result
}

// AnalyzeResult is the outcome of an analyze action.
type AnalyzeResult struct {
	symbol         string
	assetType      string
	period         string
	dataPoints     int
	indicators     markettypes.IndicatorSet
	recommendation string
	costUsd        float64
}

var _ skills.SkillResult = &AnalyzeResult{}

func (r *AnalyzeResult) GetResult() string {
	var sb strings.Builder
	ind := r.indicators

	fmt.Fprintf(&sb, "Analysis for %s (%s, %s, %d data points)\n", r.symbol, r.assetType, r.period, r.dataPoints)
	fmt.Fprintf(&sb, "Price: %.2f\n", ind.Price)

	writeOptional := func(name string, v *float64) {
		if v != nil {
			fmt.Fprintf(&sb, "%s: %.2f\n", name, *v)
		} else {
			fmt.Fprintf(&sb, "%s: insufficient history\n", name)
		}
	}
	writeOptional("SMA20", ind.SMA20)
	writeOptional("SMA50", ind.SMA50)
	writeOptional("SMA200", ind.SMA200)
	writeOptional("RSI(14)", ind.RSI)

	if ind.MACD != nil {
		fmt.Fprintf(&sb, "MACD: %.4f signal %.4f histogram %.4f\n",
			ind.MACD.MACDLine, ind.MACD.SignalLine, ind.MACD.Histogram)
	} else {
		sb.WriteString("MACD: insufficient history\n")
	}
	if ind.Bollinger != nil {
		fmt.Fprintf(&sb, "Bollinger: %.2f / %.2f / %.2f\n",
			ind.Bollinger.Upper, ind.Bollinger.Middle, ind.Bollinger.Lower)
	} else {
		sb.WriteString("Bollinger: insufficient history\n")
	}
	fmt.Fprintf(&sb, "Support: %.2f Resistance: %.2f\n", ind.Support, ind.Resistance)
	fmt.Fprintf(&sb, "Recommendation: %s", r.recommendation)

	return sb.String()
}
func (r *AnalyzeResult) GetError() string { return "" }
func (r *AnalyzeResult) IsError() bool    { return false }
func (r *AnalyzeResult) AssistantFacing() string {
	return skills.StringifySkillResult(r.GetResult(), "")
}
func (r *AnalyzeResult) StructuredData() skills.StructuredSkillResult {
	result := skills.NewStructuredResult(SkillName, ActionAnalyze, nil)
	result.Metadata = skills.AnalyzeMetadata{
		Symbol:         r.symbol,
		AssetType:      r.assetType,
		Period:         r.period,
		DataPoints:     r.dataPoints,
		Indicators:     r.indicators,
		Recommendation: r.recommendation,
		CostUsd:        r.costUsd,
	}
	return result
}

// CompareResult is the outcome of a compare action. It succeeds even
// when individual symbols failed; those entries carry an error field.
type CompareResult struct {
	entries   []skills.ComparisonEntry
	assetType string
	period    string
	costUsd   float64
}

var _ skills.SkillResult = &CompareResult{}

func (r *CompareResult) GetResult() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Comparison of %d symbols (%s, %s):\n", len(r.entries), r.assetType, r.period)
	for _, e := range r.entries {
		if e.Error != "" {
			fmt.Fprintf(&sb, "  %s: error: %s\n", e.Symbol, e.Error)
			continue
		}
		fmt.Fprintf(&sb, "  %s: %.2f (%+.2f%%) %s\n", e.Symbol, e.Price, e.ChangePercent, e.Recommendation)
	}
	return strings.TrimRight(sb.String(), "\n")
}
func (r *CompareResult) GetError() string { return "" }
func (r *CompareResult) IsError() bool    { return false }
func (r *CompareResult) AssistantFacing() string {
	return skills.StringifySkillResult(r.GetResult(), "")
}
func (r *CompareResult) StructuredData() skills.StructuredSkillResult {
	result := skills.NewStructuredResult(SkillName, ActionCompare, nil)
	result.Metadata = skills.CompareMetadata{
		Entries:   r.entries,
		AssetType: r.assetType,
		Period:    r.period,
		CostUsd:   r.costUsd,
	}
	return result
}

// WatchlistResult is the outcome of the three watchlist actions.
type WatchlistResult struct {
	operation string
	symbol    string
	entry     *markettypes.WatchlistEntry
	entries   []markettypes.WatchlistEntry
}

var _ skills.SkillResult = &WatchlistResult{}

func (r *WatchlistResult) GetResult() string {
	switch r.operation {
	case "add":
		out := fmt.Sprintf("Added %s to the watchlist", r.symbol)
		if r.entry != nil && r.entry.TargetPrice != nil {
			out += fmt.Sprintf(" with %s alert at %.2f", r.entry.AlertType, *r.entry.TargetPrice)
		}
		return out
	case "remove":
		return fmt.Sprintf("Removed %s from the watchlist", r.symbol)
	default:
		if len(r.entries) == 0 {
			return "The watchlist is empty"
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Watchlist (%d entries):\n", len(r.entries))
		for _, e := range r.entries {
			fmt.Fprintf(&sb, "  %s (%s)", e.Symbol, e.Type)
			if e.TargetPrice != nil {
				fmt.Fprintf(&sb, " alert %s %.2f", e.AlertType, *e.TargetPrice)
			}
			sb.WriteString("\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	}
}
func (r *WatchlistResult) GetError() string { return "" }
func (r *WatchlistResult) IsError() bool    { return false }
func (r *WatchlistResult) AssistantFacing() string {
	return skills.StringifySkillResult(r.GetResult(), "")
}
func (r *WatchlistResult) StructuredData() skills.StructuredSkillResult {
	action := ActionWatchlistList
	switch r.operation {
	case "add":
		action = ActionWatchlistAdd
	case "remove":
		action = ActionWatchlistRemove
	}
	result := skills.NewStructuredResult(SkillName, action, nil)
	count := len(r.entries)
	if r.entry != nil {
		count = 1
	}
	result.Metadata = skills.WatchlistMetadata{
		Operation: r.operation,
		Symbol:    r.symbol,
		Entry:     r.entry,
		Entries:   r.entries,
		Count:     count,
	}
	return result
}

// AlertResult is the outcome of an alert action.
type AlertResult struct {
	checked   int
	triggered []skills.TriggeredAlert
	errors    map[string]string
	costUsd   float64
}

var _ skills.SkillResult = &AlertResult{}

func (r *AlertResult) GetResult() string {
	if r.checked == 0 {
		return "No watchlist entries have price alerts configured"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Checked %d alert(s): %d triggered\n", r.checked, len(r.triggered))
	for _, a := range r.triggered {
		fmt.Fprintf(&sb, "  %s is %s target %.2f (now %.2f)\n", a.Symbol, a.AlertType, a.TargetPrice, a.Price)
	}
	for symbol, msg := range r.errors {
		fmt.Fprintf(&sb, "  %s: check failed: %s\n", symbol, msg)
	}
	return strings.TrimRight(sb.String(), "\n")
}
func (r *AlertResult) GetError() string { return "" }
func (r *AlertResult) IsError() bool    { return false }
func (r *AlertResult) AssistantFacing() string {
	return skills.StringifySkillResult(r.GetResult(), "")
}
func (r *AlertResult) StructuredData() skills.StructuredSkillResult {
	result := skills.NewStructuredResult(SkillName, ActionAlert, nil)
	result.Metadata = skills.AlertMetadata{
		Checked:   r.checked,
		Triggered: r.triggered,
		Errors:    r.errors,
		CostUsd:   r.costUsd,
	}
	return result
}
