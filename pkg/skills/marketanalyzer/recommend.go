package marketanalyzer

import (
	markettypes "github.com/junohq/agentskills/pkg/types/market"
)

// Recommend maps an indicator set onto a discrete recommendation with
// a simple additive score. Missing indicators contribute zero; this is
// a linear rule table, not a model.
func Recommend(ind markettypes.IndicatorSet) string {
	score := 0

	if ind.RSI != nil {
		switch rsi := *ind.RSI; {
		case rsi < 30:
			score += 2
		case rsi < 40:
			score++
		case rsi > 70:
			score -= 2
		case rsi > 60:
			score--
		}
	}

	if ind.MACD != nil {
		if ind.MACD.Histogram > 0 {
			score++
		} else if ind.MACD.Histogram < 0 {
			score--
		}
		if ind.MACD.MACDLine > ind.MACD.SignalLine {
			score++
		} else if ind.MACD.MACDLine < ind.MACD.SignalLine {
			score--
		}
	}

	for _, sma := range []*float64{ind.SMA20, ind.SMA50, ind.SMA200} {
		if sma == nil {
			continue
		}
		if ind.Price > *sma {
			score++
		} else if ind.Price < *sma {
			score--
		}
	}

	if ind.Bollinger != nil {
		if ind.Price <= ind.Bollinger.Lower {
			score++
		} else if ind.Price >= ind.Bollinger.Upper {
			score--
		}
	}

	switch {
	case score >= 5:
		return markettypes.StrongBuy
	case score >= 2:
		return markettypes.Buy
	case score <= -5:
		return markettypes.StrongSell
	case score <= -2:
		return markettypes.Sell
	default:
		return markettypes.Hold
	}
}
