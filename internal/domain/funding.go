package domain

// FundingEntry is the per-instrument aggregate produced by the upstream
// funding-rate fetcher across exchanges.
type FundingEntry struct {
	Instrument    string    // ticker, e.g. "BTC"
	AvgRate       float64   // mean funding rate across exchanges
	MinRate       float64   // lowest exchange rate
	MaxRate       float64   // highest exchange rate
	ExchangeCount int       // exchanges contributing to the aggregate
	OpenInterest  float64   // total open interest in USD
	Sentiment     Sentiment // classification of AvgRate, see SentimentForRate
}

// Candidate is an (instrument, direction) pair produced when a funding
// rule fires. It carries the reasons that fired so the final alert is
// auditable without re-running the engine.
type Candidate struct {
	Instrument string
	Direction  Direction
	Funding    FundingEntry
	Reasons    []string
}
