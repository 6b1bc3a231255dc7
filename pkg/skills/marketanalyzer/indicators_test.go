package marketanalyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	t.Run("full window", func(t *testing.T) {
		result := SMA([]float64{1, 2, 3, 4, 5}, 5)
		require.NotNil(t, result)
		assert.InDelta(t, 3.0, *result, 1e-9)
	})

	t.Run("uses last period values", func(t *testing.T) {
		result := SMA([]float64{100, 1, 2, 3, 4}, 2)
		require.NotNil(t, result)
		assert.InDelta(t, 3.5, *result, 1e-9)
	})

	t.Run("insufficient data", func(t *testing.T) {
		assert.Nil(t, SMA([]float64{1, 2}, 5))
	})

	t.Run("zero period", func(t *testing.T) {
		assert.Nil(t, SMA([]float64{1, 2, 3}, 0))
	})
}

func TestRSI(t *testing.T) {
	t.Run("all gains is 100", func(t *testing.T) {
		data := make([]float64, 20)
		for i := range data {
			data[i] = float64(i + 1)
		}
		result := RSI(data, 14)
		require.NotNil(t, result)
		assert.InDelta(t, 100.0, *result, 1e-9)
	})

	t.Run("all losses is 0", func(t *testing.T) {
		data := make([]float64, 20)
		for i := range data {
			data[i] = float64(100 - i)
		}
		result := RSI(data, 14)
		require.NotNil(t, result)
		assert.InDelta(t, 0.0, *result, 1e-9)
	})

	t.Run("wilder smoothing", func(t *testing.T) {
		// Deltas +1, +1, -1 with period 2: seed avgGain=1 avgLoss=0,
		// then avgGain=0.5 avgLoss=0.5 so RS=1 and RSI=50.
		result := RSI([]float64{1, 2, 3, 2}, 2)
		require.NotNil(t, result)
		assert.InDelta(t, 50.0, *result, 1e-9)
	})

	t.Run("insufficient data", func(t *testing.T) {
		assert.Nil(t, RSI([]float64{1, 2, 3}, 14))
	})
}

func TestMACD(t *testing.T) {
	t.Run("constant series is flat", func(t *testing.T) {
		data := make([]float64, 40)
		for i := range data {
			data[i] = 50
		}
		result := MACD(data, macdFastPeriod, macdSlowPeriod, macdSignal)
		require.NotNil(t, result)
		assert.InDelta(t, 0.0, result.MACDLine, 1e-9)
		assert.InDelta(t, 0.0, result.SignalLine, 1e-9)
		assert.InDelta(t, 0.0, result.Histogram, 1e-9)
	})

	t.Run("uptrend has positive macd line", func(t *testing.T) {
		data := make([]float64, 60)
		for i := range data {
			data[i] = float64(100 + i)
		}
		result := MACD(data, macdFastPeriod, macdSlowPeriod, macdSignal)
		require.NotNil(t, result)
		assert.Greater(t, result.MACDLine, 0.0)
	})

	t.Run("requires slow plus signal points", func(t *testing.T) {
		data := make([]float64, macdSlowPeriod+macdSignal-1)
		assert.Nil(t, MACD(data, macdFastPeriod, macdSlowPeriod, macdSignal))
	})

	t.Run("histogram is line minus signal", func(t *testing.T) {
		data := make([]float64, 50)
		for i := range data {
			data[i] = float64(i*i) * 0.1
		}
		result := MACD(data, macdFastPeriod, macdSlowPeriod, macdSignal)
		require.NotNil(t, result)
		assert.InDelta(t, result.MACDLine-result.SignalLine, result.Histogram, 1e-9)
	})
}

func TestBollinger(t *testing.T) {
	t.Run("constant series collapses bands", func(t *testing.T) {
		data := make([]float64, 25)
		for i := range data {
			data[i] = 10
		}
		result := Bollinger(data, bollingerPeriod, bollingerMult)
		require.NotNil(t, result)
		assert.InDelta(t, 10.0, result.Upper, 1e-9)
		assert.InDelta(t, 10.0, result.Middle, 1e-9)
		assert.InDelta(t, 10.0, result.Lower, 1e-9)
	})

	t.Run("bands are symmetric", func(t *testing.T) {
		data := make([]float64, 30)
		for i := range data {
			data[i] = float64(i%7) + 20
		}
		result := Bollinger(data, bollingerPeriod, bollingerMult)
		require.NotNil(t, result)
		assert.InDelta(t, result.Upper-result.Middle, result.Middle-result.Lower, 1e-9)
		assert.Greater(t, result.Upper, result.Middle)
	})

	t.Run("population standard deviation", func(t *testing.T) {
		// Window {1,3} with period 2: mean 2, population stddev 1.
		result := Bollinger([]float64{1, 3}, 2, 2)
		require.NotNil(t, result)
		assert.InDelta(t, 4.0, result.Upper, 1e-9)
		assert.InDelta(t, 2.0, result.Middle, 1e-9)
		assert.InDelta(t, 0.0, result.Lower, 1e-9)
	})

	t.Run("insufficient data", func(t *testing.T) {
		assert.Nil(t, Bollinger([]float64{1, 2, 3}, bollingerPeriod, bollingerMult))
	})
}

func TestSupportResistance(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		support, resistance := SupportResistance(nil)
		assert.Equal(t, 0.0, support)
		assert.Equal(t, 0.0, resistance)
	})

	t.Run("short series", func(t *testing.T) {
		support, resistance := SupportResistance([]float64{5, 1, 9, 3})
		assert.Equal(t, 1.0, support)
		assert.Equal(t, 9.0, resistance)
	})

	t.Run("only last window counts", func(t *testing.T) {
		data := []float64{-100}
		for i := 1; i <= srWindow; i++ {
			data = append(data, float64(i))
		}
		support, resistance := SupportResistance(data)
		assert.Equal(t, 1.0, support)
		assert.Equal(t, float64(srWindow), resistance)
	})
}

func TestComputeIndicators(t *testing.T) {
	t.Run("short history leaves indicators nil", func(t *testing.T) {
		set := computeIndicators([]float64{10, 11, 12})
		assert.Nil(t, set.SMA20)
		assert.Nil(t, set.SMA50)
		assert.Nil(t, set.SMA200)
		assert.Nil(t, set.RSI)
		assert.Nil(t, set.MACD)
		assert.Nil(t, set.Bollinger)
		assert.Equal(t, 12.0, set.Price)
		assert.Equal(t, 10.0, set.Support)
		assert.Equal(t, 12.0, set.Resistance)
	})

	t.Run("long history fills everything but sma200", func(t *testing.T) {
		data := make([]float64, 120)
		for i := range data {
			data[i] = 100 + float64(i%11)
		}
		set := computeIndicators(data)
		assert.NotNil(t, set.SMA20)
		assert.NotNil(t, set.SMA50)
		assert.Nil(t, set.SMA200)
		assert.NotNil(t, set.RSI)
		assert.NotNil(t, set.MACD)
		assert.NotNil(t, set.Bollinger)
	})
}
