package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeSnapshot(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func writeMandatory(t *testing.T, dir string) {
	t.Helper()
	writeSnapshot(t, dir, FundingFile, `{"coins":[
		{"coin":"BTC","avgRate":-0.008,"minRate":-0.01,"maxRate":-0.006,"exchangeCount":5,"oiUsd":5000000,"sentiment":"shorts_crowded"}
	]}`)
	writeSnapshot(t, dir, RSIFile, `{"coins":[{"ticker":"BTC","rsi":28.5}]}`)
}

func TestLoad_MandatoryAndOptional(t *testing.T) {
	dir := t.TempDir()
	writeMandatory(t, dir)
	writeSnapshot(t, dir, EMAFile, `{"coins":[{"ticker":"BTC","trend":"below","priceVsEMA200":-2.5}]}`)

	set, err := NewLoader(dir, zerolog.Nop()).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(set.Funding.Coins) != 1 || set.Funding.Coins[0].Coin != "BTC" {
		t.Errorf("funding = %+v", set.Funding.Coins)
	}
	if rsi, ok := set.RSIFor("BTC"); !ok || rsi.RSI != 28.5 {
		t.Errorf("RSIFor(BTC) = %+v ok=%t", rsi, ok)
	}
	if ema, ok := set.EMAFor("BTC"); !ok || ema.PriceVsEMA200 != -2.5 {
		t.Errorf("EMAFor(BTC) = %+v ok=%t", ema, ok)
	}

	// Files that were never written degrade to absent sections.
	if set.MTF != nil || set.OrderBook != nil || set.Volume != nil {
		t.Error("absent optional snapshots should be nil")
	}
	if _, ok := set.MTFFor("BTC"); ok {
		t.Error("MTFFor should report absence when the snapshot is missing")
	}
}

func TestLoad_MissingFundingFails(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, RSIFile, `{"coins":[]}`)

	if _, err := NewLoader(dir, zerolog.Nop()).Load(); !errors.Is(err, ErrMissingMandatory) {
		t.Errorf("expected ErrMissingMandatory, got %v", err)
	}
}

func TestLoad_MissingRSIFails(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, FundingFile, `{"coins":[]}`)

	if _, err := NewLoader(dir, zerolog.Nop()).Load(); !errors.Is(err, ErrMissingMandatory) {
		t.Errorf("expected ErrMissingMandatory, got %v", err)
	}
}

func TestLoad_UnparseableMandatoryFails(t *testing.T) {
	dir := t.TempDir()
	writeMandatory(t, dir)
	writeSnapshot(t, dir, FundingFile, `{not json`)

	if _, err := NewLoader(dir, zerolog.Nop()).Load(); !errors.Is(err, ErrMissingMandatory) {
		t.Errorf("expected ErrMissingMandatory, got %v", err)
	}
}

func TestLoad_MalformedEntrySkipped(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, FundingFile, `{"coins":[
		{"coin":"BTC","avgRate":-0.008,"oiUsd":5000000,"sentiment":"shorts_crowded"},
		{"coin":"ETH","avgRate":"not-a-number"},
		{"coin":"SOL","avgRate":0.007,"oiUsd":2000000,"sentiment":"longs_crowded"}
	]}`)
	writeSnapshot(t, dir, RSIFile, `{"coins":[]}`)

	set, err := NewLoader(dir, zerolog.Nop()).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(set.Funding.Coins) != 2 {
		t.Fatalf("got %d funding coins, want 2 (malformed entry skipped)", len(set.Funding.Coins))
	}
	if set.Funding.Coins[0].Coin != "BTC" || set.Funding.Coins[1].Coin != "SOL" {
		t.Errorf("surviving coins = %s, %s", set.Funding.Coins[0].Coin, set.Funding.Coins[1].Coin)
	}
}

func TestLoad_UnparseableOptionalDegrades(t *testing.T) {
	dir := t.TempDir()
	writeMandatory(t, dir)
	writeSnapshot(t, dir, MTFFile, `not json at all`)

	set, err := NewLoader(dir, zerolog.Nop()).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if set.MTF != nil {
		t.Error("unparseable optional snapshot should degrade to nil")
	}
}
