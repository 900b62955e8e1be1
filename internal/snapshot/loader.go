package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// ErrMissingMandatory is returned when the funding or RSI snapshot is
// absent or unparseable. The run must fail, not degrade.
var ErrMissingMandatory = errors.New("mandatory snapshot missing or unparseable")

// Set holds one run's snapshots. Optional sections are nil when their file
// was absent or unparseable.
type Set struct {
	Funding   *FundingSnapshot
	RSI       *RSISnapshot
	EMA       *EMASnapshot
	MTF       *MTFSnapshot
	OrderBook *OrderBookSnapshot
	Volume    *VolumeSnapshot

	rsiByTicker map[string]RSICoin
	emaByTicker map[string]EMACoin
	mtfByCoin   map[string]MTFResult
	obByCoin    map[string]OrderBookResult
	volByCoin   map[string]VolumeResult
}

// NewSet builds a Set with its lookup maps. funding and rsi must be
// non-nil; the optional sections may be nil.
func NewSet(funding *FundingSnapshot, rsi *RSISnapshot, ema *EMASnapshot, mtf *MTFSnapshot, ob *OrderBookSnapshot, vol *VolumeSnapshot) *Set {
	set := &Set{
		Funding:   funding,
		RSI:       rsi,
		EMA:       ema,
		MTF:       mtf,
		OrderBook: ob,
		Volume:    vol,

		rsiByTicker: make(map[string]RSICoin),
		emaByTicker: make(map[string]EMACoin),
		mtfByCoin:   make(map[string]MTFResult),
		obByCoin:    make(map[string]OrderBookResult),
		volByCoin:   make(map[string]VolumeResult),
	}
	if rsi != nil {
		for _, c := range rsi.Coins {
			set.rsiByTicker[c.Ticker] = c
		}
	}
	if ema != nil {
		for _, c := range ema.Coins {
			set.emaByTicker[c.Ticker] = c
		}
	}
	if mtf != nil {
		for _, r := range mtf.Results {
			set.mtfByCoin[r.Coin] = r
		}
	}
	if ob != nil {
		for _, r := range ob.Results {
			set.obByCoin[r.Coin] = r
		}
	}
	if vol != nil {
		for _, r := range vol.Results {
			set.volByCoin[r.Coin] = r
		}
	}
	return set
}

// Loader reads one run's snapshots from a directory.
type Loader struct {
	dir string
	log zerolog.Logger
}

// NewLoader creates a Loader reading from dir.
func NewLoader(dir string, log zerolog.Logger) *Loader {
	return &Loader{dir: dir, log: log}
}

// Load reads all snapshots. Funding and RSI are mandatory; the others
// degrade to nil with a warning. A single malformed entry inside an
// otherwise valid file drops only that instrument.
func (l *Loader) Load() (*Set, error) {
	var funding FundingSnapshot
	if err := l.loadEntries(FundingFile, "coins", func(raw json.RawMessage) error {
		var c FundingCoin
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		funding.Coins = append(funding.Coins, c)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingMandatory, FundingFile, err)
	}

	var rsi RSISnapshot
	if err := l.loadEntries(RSIFile, "coins", func(raw json.RawMessage) error {
		var c RSICoin
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		rsi.Coins = append(rsi.Coins, c)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingMandatory, RSIFile, err)
	}

	// Optional sections: a load failure skips the corroboration step.
	ema := &EMASnapshot{}
	if err := l.loadEntries(EMAFile, "coins", func(raw json.RawMessage) error {
		var c EMACoin
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		ema.Coins = append(ema.Coins, c)
		return nil
	}); err != nil {
		l.warnOptional(EMAFile, err)
		ema = nil
	}

	mtf := &MTFSnapshot{}
	if err := l.loadEntries(MTFFile, "results", func(raw json.RawMessage) error {
		var r MTFResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		mtf.Results = append(mtf.Results, r)
		return nil
	}); err != nil {
		l.warnOptional(MTFFile, err)
		mtf = nil
	}

	ob := &OrderBookSnapshot{}
	if err := l.loadEntries(OrderBookFile, "results", func(raw json.RawMessage) error {
		var r OrderBookResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		ob.Results = append(ob.Results, r)
		return nil
	}); err != nil {
		l.warnOptional(OrderBookFile, err)
		ob = nil
	}

	vol := &VolumeSnapshot{}
	if err := l.loadEntries(VolumeFile, "results", func(raw json.RawMessage) error {
		var r VolumeResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		vol.Results = append(vol.Results, r)
		return nil
	}); err != nil {
		l.warnOptional(VolumeFile, err)
		vol = nil
	}

	return NewSet(&funding, &rsi, ema, mtf, ob, vol), nil
}

// loadEntries reads a snapshot file and decodes the named array element by
// element, so one malformed record drops that record instead of the file.
func (l *Loader) loadEntries(file, key string, decode func(json.RawMessage) error) error {
	data, err := os.ReadFile(filepath.Join(l.dir, file))
	if err != nil {
		return err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("parse envelope: %w", err)
	}

	raw, ok := envelope[key]
	if !ok {
		return fmt.Errorf("missing %q array", key)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse %q array: %w", key, err)
	}

	for i, entry := range entries {
		if err := decode(entry); err != nil {
			l.log.Warn().
				Str("snapshot", file).
				Int("index", i).
				Err(err).
				Msg("skipping malformed snapshot entry")
		}
	}
	return nil
}

func (l *Loader) warnOptional(file string, err error) {
	l.log.Warn().
		Str("snapshot", file).
		Err(err).
		Msg("optional snapshot unavailable, corroboration step will be skipped")
}

// RSIFor returns the daily RSI for an instrument.
func (s *Set) RSIFor(instrument string) (RSICoin, bool) {
	c, ok := s.rsiByTicker[instrument]
	return c, ok
}

// EMAFor returns the trend position for an instrument. ok is false when the
// EMA snapshot is unavailable or lacks the instrument.
func (s *Set) EMAFor(instrument string) (EMACoin, bool) {
	if s.EMA == nil {
		return EMACoin{}, false
	}
	c, ok := s.emaByTicker[instrument]
	return c, ok
}

// MTFFor returns the multi-timeframe alignment for an instrument.
func (s *Set) MTFFor(instrument string) (MTFResult, bool) {
	if s.MTF == nil {
		return MTFResult{}, false
	}
	r, ok := s.mtfByCoin[instrument]
	return r, ok
}

// OrderBookFor returns the order-book context for an instrument.
func (s *Set) OrderBookFor(instrument string) (OrderBookResult, bool) {
	if s.OrderBook == nil {
		return OrderBookResult{}, false
	}
	r, ok := s.obByCoin[instrument]
	return r, ok
}

// VolumeFor returns the volume readout for an instrument.
func (s *Set) VolumeFor(instrument string) (VolumeResult, bool) {
	if s.Volume == nil {
		return VolumeResult{}, false
	}
	r, ok := s.volByCoin[instrument]
	return r, ok
}
