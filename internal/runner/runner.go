// Package runner orchestrates one scanner pass:
// load snapshots → evaluate confluence → cooldown filter → persist state →
// write the run artifact. One invocation per scheduler tick; all state
// between ticks lives in the injected state.Store.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"squeeze-radar/internal/confluence"
	"squeeze-radar/internal/domain"
	"squeeze-radar/internal/history"
	"squeeze-radar/internal/observability"
	"squeeze-radar/internal/reporting"
	"squeeze-radar/internal/snapshot"
	"squeeze-radar/internal/state"
)

// DefaultCooldown is the minimum interval between repeat alerts for the
// same (instrument, direction).
const DefaultCooldown = 4 * time.Hour

// Options for creating a Runner.
type Options struct {
	Loader     *snapshot.Loader
	Engine     *confluence.Engine
	StateStore state.Store

	// Optional
	History   history.Store
	Metrics   *observability.Metrics
	OutputDir string        // skip artifact when empty
	Cooldown  time.Duration // DefaultCooldown when zero
	Clock     func() time.Time
	Log       zerolog.Logger
}

// Runner executes one pass.
type Runner struct {
	loader    *snapshot.Loader
	engine    *confluence.Engine
	stateSt   state.Store
	history   history.Store
	metrics   *observability.Metrics
	outputDir string
	cooldown  time.Duration
	clock     func() time.Time
	log       zerolog.Logger
}

// New creates a Runner.
func New(opts Options) *Runner {
	cooldown := opts.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	clock := opts.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Runner{
		loader:    opts.Loader,
		engine:    opts.Engine,
		stateSt:   opts.StateStore,
		history:   opts.History,
		metrics:   opts.Metrics,
		outputDir: opts.OutputDir,
		cooldown:  cooldown,
		clock:     clock,
		log:       opts.Log,
	}
}

// Run executes one pass and returns the run report. A non-nil error means
// the run FAILED before producing output (mandatory snapshot missing or
// state store unavailable); callers should exit non-zero.
func (r *Runner) Run(ctx context.Context) (*domain.RunReport, error) {
	started := r.clock()
	nowMs := started.UnixMilli()

	// LOADING
	set, err := r.loader.Load()
	if err != nil {
		if r.metrics != nil {
			r.metrics.SnapshotsMissingTotal.WithLabelValues("mandatory", "fatal").Inc()
		}
		r.countRun("failed")
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	if r.metrics != nil {
		for file, missing := range map[string]bool{
			snapshot.EMAFile:       set.EMA == nil,
			snapshot.MTFFile:       set.MTF == nil,
			snapshot.OrderBookFile: set.OrderBook == nil,
			snapshot.VolumeFile:    set.Volume == nil,
		} {
			if missing {
				r.metrics.SnapshotsMissingTotal.WithLabelValues(file, "degraded").Inc()
			}
		}
	}

	cooldowns, err := r.stateSt.Load(ctx)
	if err != nil {
		r.countRun("failed")
		return nil, fmt.Errorf("load cooldown state: %w", err)
	}

	// EVALUATING
	allCandidates := r.engine.Evaluate(set, nowMs)
	if r.metrics != nil {
		r.metrics.CandidatesTotal.Add(float64(len(allCandidates)))
	}

	var newAlerts []*domain.Alert
	for _, alert := range allCandidates {
		key := alert.CooldownKey()
		if last, ok := cooldowns[key]; ok && nowMs-last < r.cooldown.Milliseconds() {
			r.log.Info().
				Str("key", key).
				Int64("elapsed_ms", nowMs-last).
				Msg("alert suppressed by cooldown")
			if r.metrics != nil {
				r.metrics.AlertsSuppressedTotal.Inc()
			}
			continue
		}
		alert.IsNew = true
		cooldowns[key] = nowMs
		newAlerts = append(newAlerts, alert)
		r.log.Info().
			Str("instrument", alert.Instrument).
			Str("direction", string(alert.Direction)).
			Str("conviction", string(alert.Conviction)).
			Bool("triple_confluence", alert.TripleConfluence).
			Msg("new alert")
		if r.metrics != nil {
			r.metrics.AlertsEmittedTotal.WithLabelValues(string(alert.Conviction)).Inc()
		}
	}

	report := &domain.RunReport{
		HasNewAlerts:  len(newAlerts) > 0,
		Alerts:        newAlerts,
		AllCandidates: allCandidates,
		TimestampMs:   nowMs,
	}

	// DONE: output and state persist on every completed run, alerts or not.
	if r.outputDir != "" {
		if err := reporting.WriteArtifact(r.outputDir, report); err != nil {
			r.countRun("failed")
			return nil, fmt.Errorf("write run artifact: %w", err)
		}
	}

	if err := r.stateSt.Save(ctx, cooldowns); err != nil {
		r.countRun("failed")
		return nil, fmt.Errorf("save cooldown state: %w", err)
	}

	if r.history != nil {
		if err := r.history.Append(ctx, nowMs, allCandidates); err != nil {
			r.log.Warn().Err(err).Msg("alert history write failed")
		}
	}

	r.countRun("done")
	if r.metrics != nil {
		r.metrics.RunDurationSeconds.Observe(time.Since(started).Seconds())
	}

	r.log.Info().
		Int("candidates", len(allCandidates)).
		Int("new_alerts", len(newAlerts)).
		Msg("run completed")
	return report, nil
}

func (r *Runner) countRun(status string) {
	if r.metrics != nil {
		r.metrics.RunsTotal.WithLabelValues(status).Inc()
	}
}
