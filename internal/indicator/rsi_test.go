package indicator

import (
	"errors"
	"math"
	"testing"
)

func TestRSI_BalancedGainsAndLosses(t *testing.T) {
	// period 2: deltas +1, +1 seed avgGain=1 avgLoss=0, then -1 smooths to
	// avgGain=0.5 avgLoss=0.5 → RS=1 → RSI=50
	closes := []float64{1, 2, 3, 2}

	got, err := RSI(closes, 2)
	if err != nil {
		t.Fatalf("RSI failed: %v", err)
	}
	if math.Abs(got-50.0) > 1e-9 {
		t.Errorf("RSI = %f, want 50.0", got)
	}
}

func TestRSI_AllGainsIs100(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(i + 1)
	}

	got, err := RSI(closes, DefaultRSIPeriod)
	if err != nil {
		t.Fatalf("RSI failed: %v", err)
	}
	if got != 100.0 {
		t.Errorf("RSI on monotonic gains = %f, want exactly 100", got)
	}
}

func TestRSI_AllLossesNearZero(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(100 - i)
	}

	got, err := RSI(closes, DefaultRSIPeriod)
	if err != nil {
		t.Fatalf("RSI failed: %v", err)
	}
	if got != 0.0 {
		t.Errorf("RSI on monotonic losses = %f, want 0", got)
	}
}

func TestRSI_WilderSmoothing(t *testing.T) {
	// period 2 over deltas +2, -1, +1:
	// seed avgGain=1, avgLoss=0.5
	// +1: avgGain=(1*1+1)/2=1, avgLoss=(0.5*1+0)/2=0.25
	// RS=4 → RSI=80
	closes := []float64{10, 12, 11, 12}

	got, err := RSI(closes, 2)
	if err != nil {
		t.Fatalf("RSI failed: %v", err)
	}
	if math.Abs(got-80.0) > 1e-9 {
		t.Errorf("RSI = %f, want 80.0", got)
	}
}

func TestRSI_InsufficientData(t *testing.T) {
	// period+1 samples required: 14 closes only give 13 deltas.
	closes := make([]float64, DefaultRSIPeriod)
	for i := range closes {
		closes[i] = float64(i)
	}
	if _, err := RSI(closes, DefaultRSIPeriod); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}

	// Exactly period+1 is enough.
	closes = append(closes, 99)
	if _, err := RSI(closes, DefaultRSIPeriod); err != nil {
		t.Errorf("period+1 samples should suffice, got %v", err)
	}
}
