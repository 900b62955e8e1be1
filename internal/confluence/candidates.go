package confluence

import (
	"fmt"

	"squeeze-radar/internal/domain"
	"squeeze-radar/internal/snapshot"
)

// Step-1 thresholds. Open interest must strictly exceed the floor.
const (
	minOpenInterestUSD = 1_000_000
	rateDispersionMin  = 0.002
	dispersionAbsRate  = 0.006
)

// BuildCandidates applies the funding rules to every snapshot entry.
// Instruments satisfying neither rule are dropped silently; a "no signal"
// result is not reported. When both rules fire, the crowding reason is
// recorded first.
func BuildCandidates(funding *snapshot.FundingSnapshot) []*domain.Candidate {
	var candidates []*domain.Candidate

	for _, coin := range funding.Coins {
		entry := domain.FundingEntry{
			Instrument:    coin.Coin,
			AvgRate:       coin.AvgRate,
			MinRate:       coin.MinRate,
			MaxRate:       coin.MaxRate,
			ExchangeCount: coin.ExchangeCount,
			OpenInterest:  coin.OIUsd,
			Sentiment:     domain.Sentiment(coin.Sentiment),
		}

		if entry.OpenInterest <= minOpenInterestUSD {
			continue
		}

		var reasons []string
		var direction domain.Direction

		// Rule A: crowded sentiment.
		if dir, ok := entry.Sentiment.SqueezeDirection(); ok {
			direction = dir
			reasons = append(reasons, fmt.Sprintf(
				"funding: %s at avg rate %.4f%% with $%.1fM OI",
				entry.Sentiment, entry.AvgRate*100, entry.OpenInterest/1e6))
		}

		// Rule B: wide cross-exchange dispersion around an extreme average.
		dispersion := entry.MaxRate - entry.MinRate
		if dispersion > rateDispersionMin && abs(entry.AvgRate) >= dispersionAbsRate {
			if direction == "" {
				if entry.AvgRate < 0 {
					direction = domain.DirectionLong
				} else {
					direction = domain.DirectionShort
				}
			}
			reasons = append(reasons, fmt.Sprintf(
				"funding: cross-exchange dispersion %.4f%% around avg %.4f%%",
				dispersion*100, entry.AvgRate*100))
		}

		if len(reasons) == 0 {
			continue
		}

		candidates = append(candidates, &domain.Candidate{
			Instrument: entry.Instrument,
			Direction:  direction,
			Funding:    entry,
			Reasons:    reasons,
		})
	}

	return candidates
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
