package domain

// Direction is the side of the expected squeeze.
// A crowd of shorts squeezes upward (LONG), a crowd of longs downward (SHORT).
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Sentiment classifies an instrument's average funding rate.
type Sentiment string

const (
	SentimentShortsCrowded Sentiment = "shorts_crowded"
	SentimentBearish       Sentiment = "bearish"
	SentimentNeutral       Sentiment = "neutral"
	SentimentBullish       Sentiment = "bullish"
	SentimentLongsCrowded  Sentiment = "longs_crowded"
)

// Funding-rate thresholds for sentiment classification.
// Negative funding means shorts pay longs, i.e. shorts are crowded.
const (
	crowdedRateThreshold = 0.005
	neutralRateBand      = 0.0005
)

// SentimentForRate maps an average funding rate onto a Sentiment.
// Pure function of the rate against fixed thresholds; upstream producers
// and this engine must agree on the mapping.
func SentimentForRate(avgRate float64) Sentiment {
	switch {
	case avgRate <= -crowdedRateThreshold:
		return SentimentShortsCrowded
	case avgRate < -neutralRateBand:
		return SentimentBearish
	case avgRate <= neutralRateBand:
		return SentimentNeutral
	case avgRate < crowdedRateThreshold:
		return SentimentBullish
	default:
		return SentimentLongsCrowded
	}
}

// SqueezeDirection returns the reversal direction implied by a crowded
// sentiment, or false when the sentiment is not extreme.
func (s Sentiment) SqueezeDirection() (Direction, bool) {
	switch s {
	case SentimentShortsCrowded:
		return DirectionLong, true
	case SentimentLongsCrowded:
		return DirectionShort, true
	default:
		return "", false
	}
}
