// Package confluence decides, per instrument, whether a qualifying squeeze
// alert exists. Candidates come from funding extremity, pass a mandatory
// directional RSI gate, then collect corroboration from trend position,
// multi-timeframe alignment, order-book pressure and volume anomalies.
//
// Conviction escalation is an ordered rule list. Each rule may only raise
// conviction to a stated floor, never lower it, so reordering rules cannot
// regress a grade.
package confluence

import (
	"fmt"

	"github.com/rs/zerolog"

	"squeeze-radar/internal/domain"
	"squeeze-radar/internal/snapshot"
)

// RSI gate bounds, inclusive. A LONG squeeze needs an oversold daily RSI,
// a SHORT squeeze an overbought one. Funding-only alerts are disallowed.
const (
	longRSIMax  = 35.0
	shortRSIMin = 65.0
)

// Trend-position thresholds, in percent distance from EMA200.
const (
	battleZonePct   = 5.0
	capitulationPct = 30.0
)

// Engine evaluates candidates against one run's snapshot set.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates an Engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log}
}

// escalationRule inspects an alert and may return a conviction floor.
// Rules run in a fixed order and are the only path to a higher grade.
type escalationRule struct {
	name  string
	apply func(a *domain.Alert, set *snapshot.Set) (domain.Conviction, bool)
}

// Evaluate runs Steps 1-7 for every funding entry and returns the alerts
// that passed the RSI gate, fully graded. Cooldown filtering is the
// caller's concern.
func (e *Engine) Evaluate(set *snapshot.Set, nowMs int64) []*domain.Alert {
	candidates := BuildCandidates(set.Funding)

	var alerts []*domain.Alert
	for _, cand := range candidates {
		alert, ok := e.gate(cand, set, nowMs)
		if !ok {
			continue
		}
		e.escalate(alert, set)
		alerts = append(alerts, alert)
	}
	return alerts
}

// gate applies the mandatory directional RSI gate (Step 2). Missing RSI
// data or an RSI outside the bound drops the candidate unconditionally.
func (e *Engine) gate(cand *domain.Candidate, set *snapshot.Set, nowMs int64) (*domain.Alert, bool) {
	rsi, ok := set.RSIFor(cand.Instrument)
	if !ok {
		e.log.Debug().
			Str("instrument", cand.Instrument).
			Str("direction", string(cand.Direction)).
			Msg("candidate dropped: no RSI data")
		return nil, false
	}

	switch cand.Direction {
	case domain.DirectionLong:
		if rsi.RSI > longRSIMax {
			return nil, false
		}
	case domain.DirectionShort:
		if rsi.RSI < shortRSIMin {
			return nil, false
		}
	default:
		return nil, false
	}

	alert := &domain.Alert{
		Instrument:     cand.Instrument,
		Direction:      cand.Direction,
		AvgFundingRate: cand.Funding.AvgRate,
		OpenInterest:   cand.Funding.OpenInterest,
		RSIValue:       rsi.RSI,
		RSIConfirmed:   true,
		Conviction:     domain.ConvictionMedium,
		Reasons:        append([]string(nil), cand.Reasons...),
		TimestampMs:    nowMs,
	}
	alert.Reasons = append(alert.Reasons, fmt.Sprintf(
		"rsi: daily RSI %.1f confirms %s reversal", rsi.RSI, cand.Direction))
	return alert, true
}

// escalate runs the ordered corroboration rules (Steps 3-7).
func (e *Engine) escalate(alert *domain.Alert, set *snapshot.Set) {
	rules := []escalationRule{
		{name: "trend-position", apply: e.applyTrendPosition},
		{name: "triple-confluence", apply: e.applyTripleConfluence},
		{name: "multi-timeframe", apply: e.applyMTF},
		{name: "order-book", apply: e.applyOrderBook},
		{name: "volume", apply: e.applyVolume},
	}
	for _, rule := range rules {
		if floor, ok := rule.apply(alert, set); ok {
			alert.Conviction = alert.Conviction.Raise(floor)
		}
	}
}

// applyTrendPosition is Step 3: EMA200 battle-zone or direction-matching
// cross confirms the trend position at floor HIGH; a deeply extended move
// against trend is tagged capitulation at floor MEDIUM-HIGH.
func (e *Engine) applyTrendPosition(alert *domain.Alert, set *snapshot.Set) (domain.Conviction, bool) {
	ema, ok := set.EMAFor(alert.Instrument)
	if !ok {
		return "", false
	}

	inBattleZone := abs(ema.PriceVsEMA200) <= battleZonePct

	switch alert.Direction {
	case domain.DirectionLong:
		if inBattleZone || hasSignal(ema, snapshot.SignalCrossAboveEMA200) {
			alert.EMAConfirms = true
			alert.EMANote = fmt.Sprintf("price %.1f%% vs EMA200 (battle zone/cross above)", ema.PriceVsEMA200)
			alert.Reasons = append(alert.Reasons, "ema: price contesting EMA200 from below")
			return domain.ConvictionHigh, true
		}
		if ema.PriceVsEMA200 < -capitulationPct {
			alert.EMANote = fmt.Sprintf("extended/capitulation: price %.1f%% below EMA200", ema.PriceVsEMA200)
			alert.Reasons = append(alert.Reasons, "ema: extended below EMA200, capitulation territory")
			return domain.ConvictionMediumHigh, true
		}
	case domain.DirectionShort:
		if inBattleZone || hasSignal(ema, snapshot.SignalCrossBelowEMA200) || ema.Alignment == snapshot.AlignmentBearish {
			alert.EMAConfirms = true
			alert.EMANote = fmt.Sprintf("price %.1f%% vs EMA200 (battle zone/cross below or bearish stack)", ema.PriceVsEMA200)
			alert.Reasons = append(alert.Reasons, "ema: price contesting EMA200 from above")
			return domain.ConvictionHigh, true
		}
		if ema.PriceVsEMA200 > capitulationPct {
			alert.EMANote = fmt.Sprintf("extended/blow-off: price %.1f%% above EMA200", ema.PriceVsEMA200)
			alert.Reasons = append(alert.Reasons, "ema: extended above EMA200, blow-off territory")
			return domain.ConvictionMediumHigh, true
		}
	}

	// Raw trend recorded with no conviction change.
	alert.EMANote = fmt.Sprintf("trend %s, price %.1f%% vs EMA200", ema.Trend, ema.PriceVsEMA200)
	return "", false
}

// applyTripleConfluence is Step 4: funding + RSI + EMA all agree.
func (e *Engine) applyTripleConfluence(alert *domain.Alert, _ *snapshot.Set) (domain.Conviction, bool) {
	if !alert.RSIConfirmed || !alert.EMAConfirms {
		return "", false
	}
	alert.TripleConfluence = true
	alert.Reasons = append(alert.Reasons, "confluence: funding + RSI + EMA aligned")
	return domain.ConvictionHigh, true
}

// applyMTF is Step 5: an all-timeframe trend opposite the expected reversal
// on top of triple confluence is the strongest setup.
func (e *Engine) applyMTF(alert *domain.Alert, set *snapshot.Set) (domain.Conviction, bool) {
	mtf, ok := set.MTFFor(alert.Instrument)
	if !ok {
		return "", false
	}

	exhausted := (alert.Direction == domain.DirectionLong && mtf.Alignment == snapshot.AlignmentBearish) ||
		(alert.Direction == domain.DirectionShort && mtf.Alignment == snapshot.AlignmentBullish)

	if exhausted && alert.TripleConfluence {
		alert.MTFNote = fmt.Sprintf("all timeframes %s into crowded positioning", mtf.Alignment)
		alert.Reasons = append(alert.Reasons, "mtf: full alignment against the reversal, exhaustion setup")
		return domain.ConvictionVeryHigh, true
	}

	if mtf.RSIDivergence != "" {
		alert.MTFNote = fmt.Sprintf("rsi divergence: %s", mtf.RSIDivergence)
		alert.Reasons = append(alert.Reasons, "mtf: cross-timeframe RSI divergence noted")
	} else if mtf.Alignment != "" {
		alert.MTFNote = fmt.Sprintf("alignment %s", mtf.Alignment)
	}
	return "", false
}

// applyOrderBook is Step 6: directional agreement while already at HIGH
// promotes to VERY HIGH; disagreement is a conflict note only.
func (e *Engine) applyOrderBook(alert *domain.Alert, set *snapshot.Set) (domain.Conviction, bool) {
	ob, ok := set.OrderBookFor(alert.Instrument)
	if !ok {
		return "", false
	}

	agrees := (alert.Direction == domain.DirectionLong && ob.Pressure == snapshot.PressureBuy) ||
		(alert.Direction == domain.DirectionShort && ob.Pressure == snapshot.PressureSell)
	disagrees := (alert.Direction == domain.DirectionLong && ob.Pressure == snapshot.PressureSell) ||
		(alert.Direction == domain.DirectionShort && ob.Pressure == snapshot.PressureBuy)

	var walls string
	if ob.BidWalls > 0 || ob.AskWalls > 0 {
		walls = fmt.Sprintf("; %d bid / %d ask walls", ob.BidWalls, ob.AskWalls)
	}

	raised := false
	switch {
	case agrees:
		alert.OBNote = fmt.Sprintf("%s agrees (imbalance %.2f)%s", ob.Pressure, ob.Imbalance, walls)
		alert.Reasons = append(alert.Reasons, fmt.Sprintf("orderbook: %s supports %s", ob.Pressure, alert.Direction))
		raised = alert.Conviction.AtLeast(domain.ConvictionHigh)
	case disagrees:
		alert.OBNote = fmt.Sprintf("conflict: %s against %s (imbalance %.2f)%s", ob.Pressure, alert.Direction, ob.Imbalance, walls)
		alert.Reasons = append(alert.Reasons, fmt.Sprintf("orderbook: %s conflicts with %s", ob.Pressure, alert.Direction))
	default:
		if walls != "" {
			alert.OBNote = fmt.Sprintf("liquidity walls detected%s", walls)
		}
	}

	if raised {
		return domain.ConvictionVeryHigh, true
	}
	return "", false
}

// applyVolume is Step 7: informational only, never changes conviction.
func (e *Engine) applyVolume(alert *domain.Alert, set *snapshot.Set) (domain.Conviction, bool) {
	vol, ok := set.VolumeFor(alert.Instrument)
	if !ok {
		return "", false
	}

	switch {
	case vol.IsSpike:
		alert.VolNote = fmt.Sprintf("volume spike %.1fx 24h average", vol.Spike24h)
		alert.Reasons = append(alert.Reasons, "volume: spike noted")
	case vol.IsDryUp:
		alert.VolNote = "volume dry-up"
		alert.Reasons = append(alert.Reasons, "volume: dry-up noted")
	case vol.OIToVolRatio > 1.0:
		alert.VolNote = fmt.Sprintf("high OI-to-volume ratio %.2f", vol.OIToVolRatio)
		alert.Reasons = append(alert.Reasons, "volume: high OI relative to volume noted")
	}
	return "", false
}

func hasSignal(ema snapshot.EMACoin, signalType string) bool {
	for _, s := range ema.Signals {
		if s.Type == signalType {
			return true
		}
	}
	return false
}
