package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"squeeze-radar/internal/confluence"
	"squeeze-radar/internal/reporting"
	"squeeze-radar/internal/snapshot"
	"squeeze-radar/internal/state"
)

// fixedClock returns a clock stuck at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func writeQualifyingSnapshots(t *testing.T, dir string) {
	t.Helper()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write(snapshot.FundingFile, `{"coins":[
		{"coin":"BTC","avgRate":-0.008,"minRate":-0.009,"maxRate":-0.007,"exchangeCount":5,"oiUsd":5000000,"sentiment":"shorts_crowded"}
	]}`)
	write(snapshot.RSIFile, `{"coins":[{"ticker":"BTC","rsi":28}]}`)
}

func newTestRunner(t *testing.T, snapDir, outDir string, store state.Store, now time.Time) *Runner {
	t.Helper()
	return New(Options{
		Loader:     snapshot.NewLoader(snapDir, zerolog.Nop()),
		Engine:     confluence.NewEngine(zerolog.Nop()),
		StateStore: store,
		OutputDir:  outDir,
		Clock:      fixedClock(now),
		Log:        zerolog.Nop(),
	})
}

func TestRun_EmitsAlertAndWritesArtifact(t *testing.T) {
	snapDir := t.TempDir()
	outDir := t.TempDir()
	writeQualifyingSnapshots(t, snapDir)

	now := time.UnixMilli(1_700_000_000_000)
	store := state.NewMemoryStore()

	report, err := newTestRunner(t, snapDir, outDir, store, now).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !report.HasNewAlerts || len(report.Alerts) != 1 {
		t.Fatalf("report = hasNew=%t alerts=%d, want one new alert", report.HasNewAlerts, len(report.Alerts))
	}
	if !report.Alerts[0].IsNew {
		t.Error("emitted alert should be marked new")
	}
	if report.TimestampMs != now.UnixMilli() {
		t.Errorf("report timestamp = %d, want %d", report.TimestampMs, now.UnixMilli())
	}

	// Artifact round-trips.
	persisted, err := reporting.ReadArtifact(outDir)
	if err != nil {
		t.Fatalf("ReadArtifact failed: %v", err)
	}
	if len(persisted.Alerts) != 1 || persisted.Alerts[0].Instrument != "BTC" {
		t.Errorf("persisted artifact = %+v", persisted.Alerts)
	}

	// Cooldown state recorded at the run timestamp.
	cooldowns, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cooldowns["LONG_BTC"] != now.UnixMilli() {
		t.Errorf("cooldown[LONG_BTC] = %d, want %d", cooldowns["LONG_BTC"], now.UnixMilli())
	}
}

func TestRun_CooldownSuppressesRepeat(t *testing.T) {
	snapDir := t.TempDir()
	writeQualifyingSnapshots(t, snapDir)

	store := state.NewMemoryStore()
	first := time.UnixMilli(1_700_000_000_000)
	ctx := context.Background()

	if _, err := newTestRunner(t, snapDir, "", store, first).Run(ctx); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	// One hour later, still inside the 4h window.
	second := first.Add(time.Hour)
	report, err := newTestRunner(t, snapDir, "", store, second).Run(ctx)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if report.HasNewAlerts || len(report.Alerts) != 0 {
		t.Errorf("suppressed run reported %d new alerts", len(report.Alerts))
	}
	if len(report.AllCandidates) != 1 {
		t.Errorf("suppressed alert should still appear in allCandidates, got %d", len(report.AllCandidates))
	}
	if report.AllCandidates[0].IsNew {
		t.Error("suppressed alert must not be marked new")
	}

	// Suppression must not refresh the window.
	cooldowns, _ := store.Load(ctx)
	if cooldowns["LONG_BTC"] != first.UnixMilli() {
		t.Errorf("suppressed run moved the cooldown to %d", cooldowns["LONG_BTC"])
	}
}

func TestRun_AlertsAgainAfterWindowExpires(t *testing.T) {
	snapDir := t.TempDir()
	writeQualifyingSnapshots(t, snapDir)

	store := state.NewMemoryStore()
	first := time.UnixMilli(1_700_000_000_000)
	ctx := context.Background()

	if _, err := newTestRunner(t, snapDir, "", store, first).Run(ctx); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	later := first.Add(DefaultCooldown)
	report, err := newTestRunner(t, snapDir, "", store, later).Run(ctx)
	if err != nil {
		t.Fatalf("later run failed: %v", err)
	}
	if len(report.Alerts) != 1 {
		t.Errorf("expired window should re-alert, got %d alerts", len(report.Alerts))
	}
}

func TestRun_MissingMandatorySnapshotFails(t *testing.T) {
	snapDir := t.TempDir() // no snapshot files at all

	_, err := newTestRunner(t, snapDir, "", state.NewMemoryStore(), time.Now()).Run(context.Background())
	if !errors.Is(err, snapshot.ErrMissingMandatory) {
		t.Errorf("expected ErrMissingMandatory, got %v", err)
	}
}

func TestRun_ArtifactWrittenOnQuietRun(t *testing.T) {
	snapDir := t.TempDir()
	outDir := t.TempDir()

	// Funding present but nothing qualifies.
	if err := os.WriteFile(filepath.Join(snapDir, snapshot.FundingFile),
		[]byte(`{"coins":[{"coin":"BTC","avgRate":0.0001,"oiUsd":5000000,"sentiment":"neutral"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(snapDir, snapshot.RSIFile),
		[]byte(`{"coins":[{"ticker":"BTC","rsi":50}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := newTestRunner(t, snapDir, outDir, state.NewMemoryStore(), time.Now()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.HasNewAlerts {
		t.Error("quiet run should report no new alerts")
	}

	persisted, err := reporting.ReadArtifact(outDir)
	if err != nil {
		t.Fatalf("quiet run must still write the artifact: %v", err)
	}
	if persisted.HasNewAlerts {
		t.Error("persisted quiet artifact should report no new alerts")
	}
}
