// Package indicator provides pure technical indicator calculations over
// ordered close-price series. No I/O, deterministic, O(n).
package indicator

import "errors"

// ErrInsufficientData is returned when a series is too short for the
// requested period.
var ErrInsufficientData = errors.New("insufficient data for period")

// EMA computes the exponential moving average of closes with the given
// period. The seed is the simple mean of the first period samples, then
// ema' = price*k + ema*(1-k) with k = 2/(period+1).
func EMA(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInsufficientData
	}
	if len(closes) < period {
		return 0, ErrInsufficientData
	}

	var sum float64
	for _, c := range closes[:period] {
		sum += c
	}
	ema := sum / float64(period)

	k := 2.0 / float64(period+1)
	for _, c := range closes[period:] {
		ema = c*k + ema*(1-k)
	}
	return ema, nil
}

// EMAWithPrev computes the EMA over the full series and the EMA one bar
// earlier, for callers that detect price/EMA crossings. Needs at least
// period+1 samples.
func EMAWithPrev(closes []float64, period int) (current, previous float64, err error) {
	if len(closes) < period+1 {
		return 0, 0, ErrInsufficientData
	}
	previous, err = EMA(closes[:len(closes)-1], period)
	if err != nil {
		return 0, 0, err
	}
	current, err = EMA(closes, period)
	if err != nil {
		return 0, 0, err
	}
	return current, previous, nil
}
