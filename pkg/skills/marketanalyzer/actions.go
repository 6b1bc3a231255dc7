package marketanalyzer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/junohq/agentskills/pkg/clients"
	"github.com/junohq/agentskills/pkg/fetch"
	"github.com/junohq/agentskills/pkg/logger"
	markettypes "github.com/junohq/agentskills/pkg/types/market"
	"github.com/junohq/agentskills/pkg/types/skills"
)

// fetchOptions builds the retry options for one call, clamping the
// configured timeout to the market cap.
func fetchOptions(cfg skills.Config) fetch.Options {
	return fetch.Options{
		Timeout: cfg.Timeout(skills.DefaultMarketTimeoutMs, skills.MaxMarketTimeoutMs),
	}
}

// fetchQuote retrieves and decodes a single quote.
func fetchQuote(ctx context.Context, client clients.Client, cfg skills.Config, symbol, assetType string) (markettypes.Quote, *skills.SkillError) {
	raw, err := fetch.WithRetry(ctx, client, endpointQuote, map[string]string{
		"symbol": symbol,
		"type":   assetType,
	}, fetchOptions(cfg))
	if err != nil {
		return markettypes.Quote{}, skills.AsSkillError(err)
	}

	var quote markettypes.Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		return markettypes.Quote{}, skills.NewSkillError(skills.CodeUpstreamError,
			"malformed quote response: "+err.Error(), false)
	}
	if quote.Symbol == "" {
		quote.Symbol = symbol
	}
	return quote, nil
}

// fetchHistory retrieves and decodes a price history.
func fetchHistory(ctx context.Context, client clients.Client, cfg skills.Config, symbol, assetType, period string) (markettypes.PriceHistory, *skills.SkillError) {
	raw, err := fetch.WithRetry(ctx, client, endpointHistorical, map[string]string{
		"symbol": symbol,
		"type":   assetType,
		"period": period,
	}, fetchOptions(cfg))
	if err != nil {
		return markettypes.PriceHistory{}, skills.AsSkillError(err)
	}

	var history markettypes.PriceHistory
	if err := json.Unmarshal(raw, &history); err != nil {
		return markettypes.PriceHistory{}, skills.NewSkillError(skills.CodeUpstreamError,
			"malformed history response: "+err.Error(), false)
	}
	if len(history.Prices) == 0 {
		return markettypes.PriceHistory{}, skills.NewSkillError(skills.CodeNoData,
			"no price history returned for "+symbol, false)
	}
	return history, nil
}

func (s *MarketAnalyzerSkill) executeQuote(ctx context.Context, env skills.Environment, input *MarketAnalyzerInput) skills.SkillResult {
	client, serr := resolveClient(env)
	if serr != nil {
		return errResult(ActionQuote, serr)
	}
	if err := checkCostLimit(env.Config(), costQuote); err != nil {
		return errResult(ActionQuote, skills.AsSkillError(err))
	}

	quote, serr := fetchQuote(ctx, client, env.Config(), input.Symbol, input.Type)
	if serr != nil {
		return errResult(ActionQuote, serr)
	}

	return &QuoteResult{
		symbol:    input.Symbol,
		assetType: input.Type,
		quote:     quote,
		costUsd:   costQuote,
	}
}

func (s *MarketAnalyzerSkill) executeAnalyze(ctx context.Context, env skills.Environment, input *MarketAnalyzerInput) skills.SkillResult {
	client, serr := resolveClient(env)
	if serr != nil {
		return errResult(ActionAnalyze, serr)
	}
	if err := checkCostLimit(env.Config(), costAnalyze); err != nil {
		return errResult(ActionAnalyze, skills.AsSkillError(err))
	}

	history, serr := fetchHistory(ctx, client, env.Config(), input.Symbol, input.Type, input.Period)
	if serr != nil {
		return errResult(ActionAnalyze, serr)
	}

	indicators := computeIndicators(history.Prices)

	return &AnalyzeResult{
		symbol:         input.Symbol,
		assetType:      input.Type,
		period:         input.Period,
		dataPoints:     len(history.Prices),
		indicators:     indicators,
		recommendation: Recommend(indicators),
		costUsd:        costAnalyze,
	}
}

// executeCompare iterates symbols sequentially, keeping one failed
// symbol from aborting the rest. Per-symbol errors land in the entry.
func (s *MarketAnalyzerSkill) executeCompare(ctx context.Context, env skills.Environment, input *MarketAnalyzerInput) skills.SkillResult {
	client, serr := resolveClient(env)
	if serr != nil {
		return errResult(ActionCompare, serr)
	}

	totalCost := costComparePerSymbol * float64(len(input.Symbols))
	if err := checkCostLimit(env.Config(), totalCost); err != nil {
		return errResult(ActionCompare, skills.AsSkillError(err))
	}

	entries := make([]skills.ComparisonEntry, 0, len(input.Symbols))
	for _, symbol := range input.Symbols {
		entry := skills.ComparisonEntry{Symbol: symbol}

		quote, serr := fetchQuote(ctx, client, env.Config(), symbol, input.Type)
		if serr != nil {
			entry.Error = serr.Message
			entries = append(entries, entry)
			continue
		}
		entry.Price = quote.Price
		entry.ChangePercent = quote.ChangePercent

		history, serr := fetchHistory(ctx, client, env.Config(), symbol, input.Type, input.Period)
		if serr != nil {
			entry.Error = serr.Message
			entries = append(entries, entry)
			continue
		}
		entry.Recommendation = Recommend(computeIndicators(history.Prices))
		entries = append(entries, entry)
	}

	return &CompareResult{
		entries:   entries,
		assetType: input.Type,
		period:    input.Period,
		costUsd:   totalCost,
	}
}

func (s *MarketAnalyzerSkill) executeWatchlistAdd(ctx context.Context, env skills.Environment, input *MarketAnalyzerInput) skills.SkillResult {
	store := env.Watchlist()
	if store == nil {
		return errResult(ActionWatchlistAdd, skills.NewSkillError(skills.CodeProviderNotConfigured,
			"no watchlist store configured", false))
	}

	entry := markettypes.WatchlistEntry{
		Symbol:      input.Symbol,
		Type:        input.Type,
		TargetPrice: input.TargetPrice,
		AlertType:   input.AlertType,
		AddedAt:     time.Now().UTC(),
	}
	if err := store.Add(ctx, entry); err != nil {
		return errResult(ActionWatchlistAdd, skills.AsSkillError(err))
	}

	return &WatchlistResult{operation: "add", symbol: input.Symbol, entry: &entry}
}

func (s *MarketAnalyzerSkill) executeWatchlistRemove(ctx context.Context, env skills.Environment, input *MarketAnalyzerInput) skills.SkillResult {
	store := env.Watchlist()
	if store == nil {
		return errResult(ActionWatchlistRemove, skills.NewSkillError(skills.CodeProviderNotConfigured,
			"no watchlist store configured", false))
	}

	removed, err := store.Remove(ctx, input.Symbol)
	if err != nil {
		return errResult(ActionWatchlistRemove, skills.AsSkillError(err))
	}
	if !removed {
		return errResult(ActionWatchlistRemove, skills.NewSkillError(skills.CodeNotFound,
			input.Symbol+" is not on the watchlist", false))
	}

	return &WatchlistResult{operation: "remove", symbol: input.Symbol}
}

func (s *MarketAnalyzerSkill) executeWatchlistList(ctx context.Context, env skills.Environment) skills.SkillResult {
	store := env.Watchlist()
	if store == nil {
		return errResult(ActionWatchlistList, skills.NewSkillError(skills.CodeProviderNotConfigured,
			"no watchlist store configured", false))
	}

	entries, err := store.List(ctx)
	if err != nil {
		return errResult(ActionWatchlistList, skills.AsSkillError(err))
	}

	return &WatchlistResult{operation: "list", entries: entries}
}

// executeAlert checks every watchlist entry with a target price against
// the current market, sequentially. A failed quote records an error for
// that symbol and moves on.
func (s *MarketAnalyzerSkill) executeAlert(ctx context.Context, env skills.Environment) skills.SkillResult {
	store := env.Watchlist()
	if store == nil {
		return errResult(ActionAlert, skills.NewSkillError(skills.CodeProviderNotConfigured,
			"no watchlist store configured", false))
	}

	entries, err := store.List(ctx)
	if err != nil {
		return errResult(ActionAlert, skills.AsSkillError(err))
	}

	var armed []markettypes.WatchlistEntry
	for _, entry := range entries {
		if entry.TargetPrice != nil && entry.AlertType != "" {
			armed = append(armed, entry)
		}
	}
	if len(armed) == 0 {
		return &AlertResult{}
	}

	client, serr := resolveClient(env)
	if serr != nil {
		return errResult(ActionAlert, serr)
	}

	totalCost := costAlertPerEntry * float64(len(armed))
	if err := checkCostLimit(env.Config(), totalCost); err != nil {
		return errResult(ActionAlert, skills.AsSkillError(err))
	}

	result := &AlertResult{checked: len(armed), costUsd: totalCost}
	for _, entry := range armed {
		quote, serr := fetchQuote(ctx, client, env.Config(), entry.Symbol, entry.Type)
		if serr != nil {
			logger.G(ctx).WithField("symbol", entry.Symbol).
				WithError(serr).Warn("alert check failed for symbol")
			if result.errors == nil {
				result.errors = make(map[string]string)
			}
			result.errors[entry.Symbol] = serr.Message
			continue
		}

		triggered := (entry.AlertType == markettypes.AlertAbove && quote.Price >= *entry.TargetPrice) ||
			(entry.AlertType == markettypes.AlertBelow && quote.Price <= *entry.TargetPrice)
		if triggered {
			result.triggered = append(result.triggered, skills.TriggeredAlert{
				Symbol:      entry.Symbol,
				AlertType:   entry.AlertType,
				TargetPrice: *entry.TargetPrice,
				Price:       quote.Price,
			})
		}
	}

	return result
}
