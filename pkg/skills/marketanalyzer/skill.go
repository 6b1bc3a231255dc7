// Package marketanalyzer implements the market analysis skill: quotes,
// technical-indicator analysis, multi-symbol comparison, and a price
// watchlist with alert checks, all through an injected data client.
package marketanalyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/junohq/agentskills/pkg/clients"
	markettypes "github.com/junohq/agentskills/pkg/types/market"
	"github.com/junohq/agentskills/pkg/types/skills"
)

const SkillName = "market_analyzer"

// Market-analyzer actions.
const (
	ActionQuote           = "quote"
	ActionAnalyze         = "analyze"
	ActionCompare         = "compare"
	ActionWatchlistAdd    = "watchlist_add"
	ActionWatchlistRemove = "watchlist_remove"
	ActionWatchlistList   = "watchlist_list"
	ActionAlert           = "alert"
)

// Logical endpoints on the injected market-data client.
const (
	endpointQuote      = "market-data/quote"
	endpointHistorical = "market-data/historical"
)

// validPeriods is the accepted analysis window set.
var validPeriods = map[string]bool{
	"1w": true, "1m": true, "3m": true, "6m": true, "1y": true,
}

const defaultPeriod = "1m"

// MarketAnalyzerSkill is stateless; the watchlist store and data client
// come from the Environment on every call.
type MarketAnalyzerSkill struct{}

var _ skills.Skill = &MarketAnalyzerSkill{}

// NewSkill builds a market-analyzer skill.
func NewSkill() *MarketAnalyzerSkill {
	return &MarketAnalyzerSkill{}
}

// MarketAnalyzerInput is the parameter shape for every market action.
type MarketAnalyzerInput struct {
	Action      string   `json:"action" jsonschema:"required,description=One of quote | analyze | compare | watchlist_add | watchlist_remove | watchlist_list | alert,enum=quote,enum=analyze,enum=compare,enum=watchlist_add,enum=watchlist_remove,enum=watchlist_list,enum=alert"`
	Symbol      string   `json:"symbol,omitempty" jsonschema:"description=Ticker or crypto symbol (e.g. AAPL or BTC)"`
	Symbols     []string `json:"symbols,omitempty" jsonschema:"description=Symbols to compare (2 or more)"`
	Type        string   `json:"type,omitempty" jsonschema:"description=Asset type (default stock),enum=stock,enum=crypto"`
	Period      string   `json:"period,omitempty" jsonschema:"description=Analysis window (default 1m),enum=1w,enum=1m,enum=3m,enum=6m,enum=1y"`
	TargetPrice *float64 `json:"target_price,omitempty" jsonschema:"description=Alert target price for watchlist_add"`
	AlertType   string   `json:"alert_type,omitempty" jsonschema:"description=Alert direction for watchlist_add,enum=above,enum=below"`
}

func (s *MarketAnalyzerSkill) Name() string { return SkillName }

func (s *MarketAnalyzerSkill) Description() string {
	return `Fetch market data and run technical analysis for stocks and crypto.

## Actions
- "quote": current price, change, and volume for one symbol
- "analyze": SMA/RSI/MACD/Bollinger indicators plus a buy/hold/sell recommendation over a price history
- "compare": side-by-side quotes and recommendations for several symbols; failures for one symbol do not abort the rest
- "watchlist_add": track a symbol, optionally with a target price alert ("above" or "below")
- "watchlist_remove": stop tracking a symbol
- "watchlist_list": list tracked symbols
- "alert": check every watchlist target price against the current market

"type" is "stock" (default) or "crypto"; "period" is one of 1w, 1m, 3m, 6m, 1y (default 1m).

Data actions require a configured market-data client and respect the configured cost budget.`
}

func (s *MarketAnalyzerSkill) GenerateSchema() *jsonschema.Schema {
	return skills.GenerateSchema[MarketAnalyzerInput]()
}

func (s *MarketAnalyzerSkill) TracingKVs(parameters string) ([]attribute.KeyValue, error) {
	input := &MarketAnalyzerInput{}
	if err := json.Unmarshal([]byte(parameters), input); err != nil {
		return nil, err
	}
	kvs := []attribute.KeyValue{
		attribute.String("skill", SkillName),
		attribute.String("action", input.Action),
	}
	if input.Symbol != "" {
		kvs = append(kvs, attribute.String("symbol", strings.ToUpper(input.Symbol)))
	}
	return kvs, nil
}

func (s *MarketAnalyzerSkill) ValidateInput(env skills.Environment, parameters string) error {
	input := &MarketAnalyzerInput{}
	if err := json.Unmarshal([]byte(parameters), input); err != nil {
		return errors.Wrap(err, "invalid input")
	}

	if input.Type != "" && !markettypes.ValidAssetType(input.Type) {
		return skills.NewSkillError(skills.CodeInvalidType,
			fmt.Sprintf("invalid asset type %q, must be stock or crypto", input.Type), false)
	}
	if input.Period != "" && !validPeriods[input.Period] {
		return skills.NewSkillError(skills.CodeInvalidPeriod,
			fmt.Sprintf("invalid period %q, must be one of 1w, 1m, 3m, 6m, 1y", input.Period), false)
	}

	switch input.Action {
	case ActionQuote, ActionAnalyze, ActionWatchlistRemove:
		if input.Symbol == "" {
			return skills.NewSkillError(skills.CodeMissingSymbol,
				fmt.Sprintf("symbol is required for %s", input.Action), false)
		}
	case ActionWatchlistAdd:
		if input.Symbol == "" {
			return skills.NewSkillError(skills.CodeMissingSymbol, "symbol is required for watchlist_add", false)
		}
		if input.AlertType != "" && !markettypes.ValidAlertType(input.AlertType) {
			return skills.NewSkillError(skills.CodeInvalidInput,
				fmt.Sprintf("invalid alert type %q, must be above or below", input.AlertType), false)
		}
		if input.AlertType != "" && input.TargetPrice == nil {
			return skills.NewSkillError(skills.CodeInvalidInput, "alert_type requires a target_price", false)
		}
	case ActionCompare:
		if len(input.Symbols) < 2 {
			return skills.NewSkillError(skills.CodeInvalidSymbols, "compare requires at least 2 symbols", false)
		}
	case ActionWatchlistList, ActionAlert:
	case "":
		return skills.NewSkillError(skills.CodeInvalidAction, "action is required", false)
	default:
		return skills.NewSkillError(skills.CodeInvalidAction,
			fmt.Sprintf("unknown action %q", input.Action), false)
	}
	return nil
}

func (s *MarketAnalyzerSkill) Execute(ctx context.Context, env skills.Environment, parameters string) skills.SkillResult {
	input := &MarketAnalyzerInput{}
	if err := json.Unmarshal([]byte(parameters), input); err != nil {
		return errResult("", skills.NewSkillError(skills.CodeInvalidInput, "invalid input: "+err.Error(), false))
	}

	normalize(input)

	switch input.Action {
	case ActionQuote:
		return s.executeQuote(ctx, env, input)
	case ActionAnalyze:
		return s.executeAnalyze(ctx, env, input)
	case ActionCompare:
		return s.executeCompare(ctx, env, input)
	case ActionWatchlistAdd:
		return s.executeWatchlistAdd(ctx, env, input)
	case ActionWatchlistRemove:
		return s.executeWatchlistRemove(ctx, env, input)
	case ActionWatchlistList:
		return s.executeWatchlistList(ctx, env)
	case ActionAlert:
		return s.executeAlert(ctx, env)
	default:
		return errResult(input.Action, skills.NewSkillError(skills.CodeInvalidAction,
			fmt.Sprintf("unknown action %q", input.Action), false))
	}
}

func normalize(input *MarketAnalyzerInput) {
	input.Symbol = strings.ToUpper(strings.TrimSpace(input.Symbol))
	for i, sym := range input.Symbols {
		input.Symbols[i] = strings.ToUpper(strings.TrimSpace(sym))
	}
	if input.Type == "" {
		input.Type = markettypes.AssetStock
	}
	if input.Period == "" {
		input.Period = defaultPeriod
	}
}

// resolveClient picks the data client, preferring the gateway slot.
func resolveClient(env skills.Environment) (clients.Client, *skills.SkillError) {
	client, err := clients.Resolve(clients.PreferGateway, env.ProviderClient(), env.GatewayClient())
	if err != nil {
		return nil, skills.NewSkillError(skills.CodeProviderNotConfigured,
			"no market-data client configured", false)
	}
	return client, nil
}

// errResult wraps a SkillError into a minimal result for this skill.
func errResult(action string, err *skills.SkillError) skills.SkillResult {
	return &skills.BaseSkillResult{
		SkillName: SkillName,
		Action:    action,
		Result:    "Error: " + err.Message,
		Err:       err,
	}
}
