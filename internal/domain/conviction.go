package domain

// Conviction is the discrete confidence grade attached to an alert.
// Grades are ordered; corroboration steps may only move conviction upward.
type Conviction string

const (
	ConvictionMedium     Conviction = "MEDIUM"
	ConvictionMediumHigh Conviction = "MEDIUM-HIGH"
	ConvictionHigh       Conviction = "HIGH"
	ConvictionVeryHigh   Conviction = "VERY HIGH"
)

// convictionRanks orders grades for monotonic comparison.
var convictionRanks = map[Conviction]int{
	ConvictionMedium:     0,
	ConvictionMediumHigh: 1,
	ConvictionHigh:       2,
	ConvictionVeryHigh:   3,
}

// Rank returns the ordinal position of the grade. Unknown grades rank
// below MEDIUM so a corrupted value can never mask an escalation.
func (c Conviction) Rank() int {
	if r, ok := convictionRanks[c]; ok {
		return r
	}
	return -1
}

// Raise returns the higher of c and floor. This is the only way conviction
// moves: each escalation rule states a floor and may never lower the grade.
func (c Conviction) Raise(floor Conviction) Conviction {
	if floor.Rank() > c.Rank() {
		return floor
	}
	return c
}

// AtLeast reports whether c is at or above the given grade.
func (c Conviction) AtLeast(other Conviction) bool {
	return c.Rank() >= other.Rank()
}
