// Package main is the indicator analyzer: it computes daily RSI and EMA
// values from a candles file and writes the rsi/ema snapshots the scanner
// reads. Kept in-repo so the indicator math and the engine share one
// definition of RSI and EMA.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"squeeze-radar/internal/indicator"
	"squeeze-radar/internal/snapshot"
	"squeeze-radar/pkg/logger"
)

// candlesFile is the analyzer input: ordered daily closes per instrument.
type candlesFile struct {
	Coins []struct {
		Ticker string    `json:"ticker"`
		Closes []float64 `json:"closes"`
	} `json:"coins"`
}

const emaPeriod = 200

func main() {
	candlesPath := flag.String("candles", "data/candles.json", "Candles input file")
	outDir := flag.String("out", "data/snapshots", "Snapshot output directory")
	flag.Parse()

	log, err := logger.New("info", "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(*candlesPath)
	if err != nil {
		log.Error().Err(err).Msg("read candles")
		os.Exit(1)
	}
	var candles candlesFile
	if err := json.Unmarshal(data, &candles); err != nil {
		log.Error().Err(err).Msg("parse candles")
		os.Exit(1)
	}

	var rsiSnap snapshot.RSISnapshot
	var emaSnap snapshot.EMASnapshot

	for _, coin := range candles.Coins {
		rsi, err := indicator.RSI(coin.Closes, indicator.DefaultRSIPeriod)
		if err != nil {
			if errors.Is(err, indicator.ErrInsufficientData) {
				log.Warn().Str("ticker", coin.Ticker).Msg("not enough closes for RSI, skipping")
				continue
			}
			log.Error().Err(err).Str("ticker", coin.Ticker).Msg("rsi")
			os.Exit(1)
		}
		rsiSnap.Coins = append(rsiSnap.Coins, snapshot.RSICoin{
			Ticker: coin.Ticker,
			RSI:    rsi,
		})

		ema, prev, err := indicator.EMAWithPrev(coin.Closes, emaPeriod)
		if err != nil {
			// EMA200 needs far more history than RSI; the trend section
			// simply omits instruments that lack it.
			log.Warn().Str("ticker", coin.Ticker).Msg("not enough closes for EMA200, omitting from trend snapshot")
			continue
		}
		emaSnap.Coins = append(emaSnap.Coins, buildEMACoin(coin.Ticker, coin.Closes, ema, prev))
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Error().Err(err).Msg("create output dir")
		os.Exit(1)
	}
	if err := writeJSON(filepath.Join(*outDir, snapshot.RSIFile), &rsiSnap); err != nil {
		log.Error().Err(err).Msg("write rsi snapshot")
		os.Exit(1)
	}
	if err := writeJSON(filepath.Join(*outDir, snapshot.EMAFile), &emaSnap); err != nil {
		log.Error().Err(err).Msg("write ema snapshot")
		os.Exit(1)
	}

	fmt.Printf("Wrote %d RSI and %d EMA entries to %s\n",
		len(rsiSnap.Coins), len(emaSnap.Coins), *outDir)
}

// buildEMACoin derives the trend fields the scanner consumes: percentage
// distance from EMA200 and cross signals from the last two bars.
func buildEMACoin(ticker string, closes []float64, ema, prevEMA float64) snapshot.EMACoin {
	price := closes[len(closes)-1]
	prevPrice := closes[len(closes)-2]

	coin := snapshot.EMACoin{
		Ticker:        ticker,
		PriceVsEMA200: (price - ema) / ema * 100,
	}
	if price >= ema {
		coin.Trend = "above_ema200"
	} else {
		coin.Trend = "below_ema200"
	}

	if prevPrice < prevEMA && price >= ema {
		coin.Signals = append(coin.Signals, snapshot.EMASignal{Type: snapshot.SignalCrossAboveEMA200})
	}
	if prevPrice > prevEMA && price <= ema {
		coin.Signals = append(coin.Signals, snapshot.EMASignal{Type: snapshot.SignalCrossBelowEMA200})
	}
	return coin
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
