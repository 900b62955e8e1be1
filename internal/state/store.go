// Package state persists the cooldown mapping between runs. The process is
// stateless in memory, so the mapping of (instrument, direction) to the
// last-alert timestamp is the only thing that survives an invocation.
package state

import "context"

// Store is the durable cooldown mapping. Keys are "<DIRECTION>_<INSTRUMENT>"
// (e.g. "LONG_BTC"), values are epoch millis of the last emitted alert.
//
// Load must return an empty mapping, not an error, when no state exists yet.
// Save persists the full mapping after every run, alerts or not, so timing
// windows are never corrupted by a partial run.
type Store interface {
	Load(ctx context.Context) (map[string]int64, error)
	Save(ctx context.Context, cooldowns map[string]int64) error
}
