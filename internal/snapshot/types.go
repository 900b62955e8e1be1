// Package snapshot provides read-only access to the JSON snapshots written
// by the upstream analyzers. Each snapshot is independently produced and
// independently stale-able; this package never writes to them.
package snapshot

// Names of the snapshot files inside the snapshot directory.
const (
	FundingFile   = "funding.json"
	RSIFile       = "rsi.json"
	EMAFile       = "ema.json"
	MTFFile       = "mtf.json"
	OrderBookFile = "orderbook.json"
	VolumeFile    = "volume.json"
)

// FundingCoin is one instrument's funding aggregate across exchanges.
type FundingCoin struct {
	Coin          string  `json:"coin"`
	AvgRate       float64 `json:"avgRate"`
	MinRate       float64 `json:"minRate"`
	MaxRate       float64 `json:"maxRate"`
	ExchangeCount int     `json:"exchangeCount"`
	OIUsd         float64 `json:"oiUsd"`
	Sentiment     string  `json:"sentiment"`
}

// FundingSnapshot is the mandatory funding-rate snapshot.
type FundingSnapshot struct {
	Coins []FundingCoin `json:"coins"`
}

// RSICoin is one instrument's daily RSI value.
type RSICoin struct {
	Ticker string  `json:"ticker"`
	RSI    float64 `json:"rsi"`
}

// RSISnapshot is the mandatory daily-RSI snapshot.
type RSISnapshot struct {
	Coins []RSICoin `json:"coins"`
}

// EMASignal is a single EMA event flagged by the trend analyzer,
// e.g. "cross_above_ema200".
type EMASignal struct {
	Type string `json:"type"`
}

// EMACoin is one instrument's trend position relative to its EMA stack.
// PriceVsEMA200 is a percentage: -30 means price trades 30% below EMA200.
type EMACoin struct {
	Ticker        string      `json:"ticker"`
	Trend         string      `json:"trend"`
	Alignment     string      `json:"alignment"`
	PriceVsEMA200 float64     `json:"priceVsEMA200"`
	Signals       []EMASignal `json:"signals"`
}

// EMASnapshot is the optional trend-position snapshot.
type EMASnapshot struct {
	Coins []EMACoin `json:"coins"`
}

// MTFResult is one instrument's multi-timeframe alignment.
type MTFResult struct {
	Coin          string `json:"coin"`
	Alignment     string `json:"alignment"`
	RSIDivergence string `json:"rsiDivergence"`
}

// MTFSnapshot is the optional multi-timeframe snapshot.
type MTFSnapshot struct {
	Results []MTFResult `json:"results"`
}

// OrderBookResult is one instrument's aggregated order-book context.
type OrderBookResult struct {
	Coin      string  `json:"coin"`
	Pressure  string  `json:"pressure"`
	Imbalance float64 `json:"imbalance"`
	BidWalls  int     `json:"bidWalls"`
	AskWalls  int     `json:"askWalls"`
}

// OrderBookSnapshot is the optional order-book snapshot.
type OrderBookSnapshot struct {
	Results []OrderBookResult `json:"results"`
}

// VolumeResult is one instrument's volume anomaly readout.
type VolumeResult struct {
	Coin         string  `json:"coin"`
	IsSpike      bool    `json:"isSpike"`
	IsDryUp      bool    `json:"isDryUp"`
	Spike24h     float64 `json:"spike24h"`
	OIToVolRatio float64 `json:"oiToVolRatio"`
}

// VolumeSnapshot is the optional volume snapshot.
type VolumeSnapshot struct {
	Results []VolumeResult `json:"results"`
}

// Alignment values emitted by the trend and multi-timeframe analyzers.
const (
	AlignmentBearish = "BEARISH_ALIGNED"
	AlignmentBullish = "BULLISH_ALIGNED"
)

// Pressure values emitted by the order-book analyzer.
const (
	PressureBuy  = "buy_pressure"
	PressureSell = "sell_pressure"
)

// EMA signal types emitted by the trend analyzer.
const (
	SignalCrossAboveEMA200 = "cross_above_ema200"
	SignalCrossBelowEMA200 = "cross_below_ema200"
)
