package marketanalyzer

import (
	"math"

	markettypes "github.com/junohq/agentskills/pkg/types/market"
)

// Indicator window defaults.
const (
	rsiPeriod       = 14
	macdFastPeriod  = 12
	macdSlowPeriod  = 26
	macdSignal      = 9
	bollingerPeriod = 20
	bollingerMult   = 2.0
	srWindow        = 60
)

// SMA returns the arithmetic mean of the last period values, or nil
// when the series is shorter than period.
func SMA(data []float64, period int) *float64 {
	if period <= 0 || len(data) < period {
		return nil
	}
	sum := 0.0
	for _, v := range data[len(data)-period:] {
		sum += v
	}
	mean := sum / float64(period)
	return &mean
}

// RSI computes Wilder's smoothed RSI. The seed averages come from a
// simple mean of the first period deltas; each later delta is blended
// in with weight 1/period. A gain day still decays the loss average
// toward zero, and vice versa. When the average loss is exactly zero
// the RSI is defined as 100.
func RSI(data []float64, period int) *float64 {
	if period <= 0 || len(data) < period+1 {
		return nil
	}

	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		delta := data[i] - data[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss += -delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(data); i++ {
		delta := data[i] - data[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		rsi := 100.0
		return &rsi
	}
	rs := avgGain / avgLoss
	rsi := 100 - 100/(1+rs)
	return &rsi
}

// ema computes an exponential moving average series with smoothing
// constant 2/(period+1), seeded with the first data value rather than
// a warm-up SMA. The seed choice biases early values toward the first
// point; kept deliberately for continuity with the scoring model tuned
// against it.
func ema(data []float64, period int) []float64 {
	if len(data) == 0 {
		return nil
	}
	k := 2.0 / float64(period+1)
	out := make([]float64, len(data))
	out[0] = data[0]
	for i := 1; i < len(data); i++ {
		out[i] = data[i]*k + out[i-1]*(1-k)
	}
	return out
}

// MACD returns the last-point MACD line, signal line, and histogram,
// or nil when the series is shorter than slow+signal points.
func MACD(data []float64, fast, slow, signal int) *markettypes.MACDResult {
	if len(data) < slow+signal {
		return nil
	}

	fastEMA := ema(data, fast)
	slowEMA := ema(data, slow)

	macdLine := make([]float64, len(data))
	for i := range data {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine := ema(macdLine, signal)

	last := len(data) - 1
	return &markettypes.MACDResult{
		MACDLine:   macdLine[last],
		SignalLine: signalLine[last],
		Histogram:  macdLine[last] - signalLine[last],
	}
}

// Bollinger computes the Bollinger bands over the last period values
// using the population standard deviation (divide by period).
func Bollinger(data []float64, period int, multiplier float64) *markettypes.BollingerBands {
	middle := SMA(data, period)
	if middle == nil {
		return nil
	}

	variance := 0.0
	for _, v := range data[len(data)-period:] {
		diff := v - *middle
		variance += diff * diff
	}
	stdDev := math.Sqrt(variance / float64(period))

	return &markettypes.BollingerBands{
		Upper:  *middle + multiplier*stdDev,
		Middle: *middle,
		Lower:  *middle - multiplier*stdDev,
	}
}

// SupportResistance returns the min and max over the last srWindow
// points (or the whole series if shorter). Empty input yields {0, 0}.
func SupportResistance(data []float64) (support, resistance float64) {
	if len(data) == 0 {
		return 0, 0
	}
	window := data
	if len(window) > srWindow {
		window = window[len(window)-srWindow:]
	}
	support, resistance = window[0], window[0]
	for _, v := range window[1:] {
		if v < support {
			support = v
		}
		if v > resistance {
			resistance = v
		}
	}
	return support, resistance
}

// computeIndicators runs the full indicator set over a price history.
// Indicators with insufficient history stay nil.
func computeIndicators(prices []float64) markettypes.IndicatorSet {
	set := markettypes.IndicatorSet{
		SMA20:     SMA(prices, 20),
		SMA50:     SMA(prices, 50),
		SMA200:    SMA(prices, 200),
		RSI:       RSI(prices, rsiPeriod),
		MACD:      MACD(prices, macdFastPeriod, macdSlowPeriod, macdSignal),
		Bollinger: Bollinger(prices, bollingerPeriod, bollingerMult),
	}
	if len(prices) > 0 {
		set.Price = prices[len(prices)-1]
	}
	set.Support, set.Resistance = SupportResistance(prices)
	return set
}
