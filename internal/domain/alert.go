package domain

// Alert is a Candidate that survived the RSI gate, enriched with every
// corroboration note and the final conviction grade.
type Alert struct {
	Instrument string    `json:"instrument"`
	Direction  Direction `json:"direction"`

	AvgFundingRate float64 `json:"avgFundingRate"`
	OpenInterest   float64 `json:"oiUsd"`

	RSIValue     float64 `json:"rsiValue"`
	RSIConfirmed bool    `json:"rsiConfirmed"`

	EMANote     string `json:"emaNote,omitempty"`
	EMAConfirms bool   `json:"emaConfirms"`

	MTFNote string `json:"mtfNote,omitempty"`
	OBNote  string `json:"obNote,omitempty"`
	VolNote string `json:"volNote,omitempty"`

	TripleConfluence bool       `json:"tripleConfluence"`
	Conviction       Conviction `json:"conviction"`

	// Reasons lists every rule and corroboration that fired, in the order
	// the engine applied them.
	Reasons []string `json:"reasons"`

	// IsNew is false when the alert was suppressed by the cooldown window.
	IsNew bool `json:"isNew"`

	TimestampMs int64 `json:"timestampMs"`
}

// CooldownKey is the deduplication key for repeat alerts: one cooldown
// window applies per instrument per direction.
func (a *Alert) CooldownKey() string {
	return string(a.Direction) + "_" + a.Instrument
}

// RunReport is the JSON artifact emitted after every completed run.
type RunReport struct {
	HasNewAlerts bool `json:"hasNewAlerts"`

	// Alerts are the non-suppressed alerts of this run.
	Alerts []*Alert `json:"alerts"`

	// AllCandidates includes suppressed alerts, so a consumer can see what
	// fired even inside a cooldown window.
	AllCandidates []*Alert `json:"allCandidates"`

	TimestampMs int64 `json:"timestamp"`
}
