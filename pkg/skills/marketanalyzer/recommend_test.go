package marketanalyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	markettypes "github.com/junohq/agentskills/pkg/types/market"
)

func f(v float64) *float64 { return &v }

func TestRecommend(t *testing.T) {
	tests := []struct {
		name     string
		ind      markettypes.IndicatorSet
		expected string
	}{
		{
			name:     "no indicators is hold",
			ind:      markettypes.IndicatorSet{Price: 100},
			expected: markettypes.Hold,
		},
		{
			name: "oversold uptrend is strong buy",
			ind: markettypes.IndicatorSet{
				Price: 110,
				RSI:   f(25),
				MACD:  &markettypes.MACDResult{MACDLine: 1.5, SignalLine: 1.0, Histogram: 0.5},
				SMA20: f(100),
			},
			expected: markettypes.StrongBuy,
		},
		{
			name: "mild positive is buy",
			ind: markettypes.IndicatorSet{
				Price: 105,
				RSI:   f(35),
				SMA20: f(100),
			},
			expected: markettypes.Buy,
		},
		{
			name: "borderline overbought below sma is sell",
			ind: markettypes.IndicatorSet{
				Price: 95,
				RSI:   f(65),
				SMA20: f(100),
			},
			expected: markettypes.Sell,
		},
		{
			name: "overbought downtrend is strong sell",
			ind: markettypes.IndicatorSet{
				Price: 90,
				RSI:   f(75),
				MACD:  &markettypes.MACDResult{MACDLine: -1.5, SignalLine: -1.0, Histogram: -0.5},
				SMA20: f(100),
			},
			expected: markettypes.StrongSell,
		},
		{
			name: "lower band touch adds a buy point",
			ind: markettypes.IndicatorSet{
				Price:     95,
				RSI:       f(35),
				Bollinger: &markettypes.BollingerBands{Upper: 110, Middle: 100, Lower: 95},
			},
			expected: markettypes.Buy,
		},
		{
			name: "opposing signals cancel to hold",
			ind: markettypes.IndicatorSet{
				Price: 105,
				RSI:   f(65),
				SMA20: f(100),
			},
			expected: markettypes.Hold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Recommend(tt.ind))
		})
	}
}
