package chart

import (
	"testing"
	"time"

	"github.com/micapu/market-made-web/internal/model"
)

func tick(id int64, price float64, ts int64) model.Tick {
	return model.Tick{TickID: id, Price: price, Volume: 1, BuyerName: "a", SellerName: "b", Timestamp: ts}
}

func TestCandles(t *testing.T) {
	base := int64(1_637_721_060_000) // on a minute boundary

	ticks := []model.Tick{
		tick(1, 2.0, base),
		tick(2, 2.5, base+10_000),
		tick(3, 1.8, base+20_000),
		tick(4, 2.2, base+59_000),
		tick(5, 3.0, base+60_000), // next window
	}

	candles := Candles(ticks, time.Minute)
	if len(candles) != 2 {
		t.Fatalf("candles = %d, want 2", len(candles))
	}

	first := candles[0]
	if first.WindowStart != base {
		t.Errorf("WindowStart = %d, want %d", first.WindowStart, base)
	}
	if first.Open != 2.0 || first.High != 2.5 || first.Low != 1.8 || first.Close != 2.2 {
		t.Errorf("first candle = %+v, want OHLC 2.0/2.5/1.8/2.2", first)
	}

	second := candles[1]
	if second.WindowStart != base+60_000 {
		t.Errorf("second WindowStart = %d, want %d", second.WindowStart, base+60_000)
	}
	if second.Open != 3.0 || second.Close != 3.0 {
		t.Errorf("second candle = %+v, want single-tick OHLC 3.0", second)
	}
}

func TestCandles_SkipsEmptyWindows(t *testing.T) {
	base := int64(1_637_721_060_000)
	ticks := []model.Tick{
		tick(1, 2.0, base),
		tick(2, 4.0, base+10*60_000), // ten minutes later
	}

	candles := Candles(ticks, time.Minute)
	if len(candles) != 2 {
		t.Errorf("candles = %d, want 2 (no empty windows)", len(candles))
	}
}

func TestCandles_UnsortedInput(t *testing.T) {
	base := int64(1_637_721_060_000)
	ticks := []model.Tick{
		tick(3, 1.8, base+20_000),
		tick(1, 2.0, base),
		tick(2, 2.5, base+10_000),
	}

	candles := Candles(ticks, time.Minute)
	if len(candles) != 1 {
		t.Fatalf("candles = %d, want 1", len(candles))
	}
	if candles[0].Open != 2.0 || candles[0].Close != 1.8 {
		t.Errorf("candle = %+v, want open 2.0 close 1.8 after time sort", candles[0])
	}
	if ticks[0].TickID != 3 {
		t.Error("input tape reordered")
	}
}

func TestCandles_TimestampTieBrokenById(t *testing.T) {
	base := int64(1_637_721_060_000)
	ticks := []model.Tick{
		tick(2, 9.0, base),
		tick(1, 5.0, base),
	}

	candles := Candles(ticks, time.Minute)
	if candles[0].Open != 5.0 || candles[0].Close != 9.0 {
		t.Errorf("candle = %+v, want open 5.0 close 9.0", candles[0])
	}
}

func TestCandles_DegenerateInput(t *testing.T) {
	if got := Candles(nil, time.Minute); got != nil {
		t.Errorf("Candles(nil) = %v, want nil", got)
	}
	if got := Candles([]model.Tick{tick(1, 2, 0)}, 0); got != nil {
		t.Errorf("Candles with zero interval = %v, want nil", got)
	}
}
