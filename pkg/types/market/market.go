package market

// Quote is a single-symbol market snapshot returned by the upstream
// market-data endpoint.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        float64 `json:"volume,omitempty"`
	Currency      string  `json:"currency,omitempty"`
}

// PriceHistory is an ordered series of closing prices, oldest first.
type PriceHistory struct {
	Symbol string    `json:"symbol"`
	Prices []float64 `json:"prices"`
}

// MACDResult holds the last-point MACD values.
type MACDResult struct {
	MACDLine   float64 `json:"macdLine"`
	SignalLine float64 `json:"signalLine"`
	Histogram  float64 `json:"histogram"`
}

// BollingerBands holds the upper/middle/lower band values. Bands are
// symmetric around the middle by construction.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// IndicatorSet is a per-analysis snapshot. Nil pointers signal
// insufficient history for that indicator; they are never an error.
type IndicatorSet struct {
	Price      float64         `json:"price"`
	SMA20      *float64        `json:"sma20"`
	SMA50      *float64        `json:"sma50"`
	SMA200     *float64        `json:"sma200"`
	RSI        *float64        `json:"rsi"`
	MACD       *MACDResult     `json:"macd"`
	Bollinger  *BollingerBands `json:"bollingerBands"`
	Support    float64         `json:"support"`
	Resistance float64         `json:"resistance"`
}

// Discrete recommendations derived from the indicator scoring model.
const (
	StrongBuy  = "strong_buy"
	Buy        = "buy"
	Hold       = "hold"
	Sell       = "sell"
	StrongSell = "strong_sell"
)
