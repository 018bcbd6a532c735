package indicator

import (
	"testing"
)

// ────────────────────────────────────────────────────────────
// Full-suite alignment
// ────────────────────────────────────────────────────────────

// Every series in the Set must stay index-aligned with the input bars; the
// render and hit-test layers index them by bar position without bounds
// rechecks.
func TestCompute_AllSeriesAlignedWithBars(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	bars := testBars(closes...)
	s := Compute(bars)

	n := len(bars)
	series := map[string][]float64{
		"SMA20":       s.SMA20,
		"EMA20":       s.EMA20,
		"EMA50":       s.EMA50,
		"WMA20":       s.WMA20,
		"HMA20":       s.HMA20,
		"VWAP":        s.VWAP,
		"Tenkan":      s.Ichimoku.Tenkan,
		"Kijun":       s.Ichimoku.Kijun,
		"SenkouA":     s.Ichimoku.SenkouA,
		"SenkouB":     s.Ichimoku.SenkouB,
		"Chikou":      s.Ichimoku.Chikou,
		"BB upper":    s.Bollinger.Upper,
		"BB middle":   s.Bollinger.Middle,
		"BB lower":    s.Bollinger.Lower,
		"KC upper":    s.Keltner.Upper,
		"KC lower":    s.Keltner.Lower,
		"DC upper":    s.Donchian.Upper,
		"DC lower":    s.Donchian.Lower,
		"ATR14":       s.ATR14,
		"StdDev20":    s.StdDev20,
		"RSI14":       s.RSI14,
		"StochK":      s.StochK,
		"StochD":      s.StochD,
		"MACD line":   s.MACD.Line,
		"MACD signal": s.MACD.Signal,
		"MACD hist":   s.MACD.Histogram,
		"CCI20":       s.CCI20,
		"ROC9":        s.ROC9,
		"WilliamsR14": s.WilliamsR14,
		"OBV":         s.OBV,
		"AD":          s.AD,
		"MFI14":       s.MFI14,
		"VolumeOsc":   s.VolumeOsc,
	}
	for name, sl := range series {
		if len(sl) != n {
			t.Errorf("%s: len %d, want %d", name, len(sl), n)
		}
	}

	if !s.Pivots.Valid {
		t.Error("pivots invalid on a 120-bar window")
	}
	if !s.OpeningRange.Valid {
		t.Error("opening range invalid on a 120-bar window")
	}
	if !s.Fib.Valid {
		t.Error("fib invalid on a 120-bar window")
	}
}

func TestCompute_EmptyInput_NoPanic(t *testing.T) {
	s := Compute(nil)
	if s == nil {
		t.Fatal("Compute(nil) returned nil Set")
	}
	if len(s.SMA20) != 0 || len(s.RSI14) != 0 || len(s.StochK) != 0 {
		t.Error("empty input produced non-empty series")
	}
	if s.Pivots.Valid || s.Fib.Valid || s.OpeningRange.Valid {
		t.Error("empty input produced valid structural overlays")
	}
}
