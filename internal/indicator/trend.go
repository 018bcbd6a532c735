package indicator

import (
	"chart-systemv1/internal/model"
)

// Ichimoku default periods.
const (
	ichiTenkan = 9
	ichiKijun  = 26
	ichiSenkou = 52
	ichiShift  = 26
)

// Ichimoku holds the five Ichimoku Kinko Hyo series, each index-aligned with
// the input bars. SenkouA/SenkouB are shifted forward ichiShift bars inside
// the output arrays (the value computed at bar i lands at index i+shift);
// Chikou is the close itself, stored unshifted; the backward displacement
// is applied at render time.
type Ichimoku struct {
	Tenkan  []float64
	Kijun   []float64
	SenkouA []float64
	SenkouB []float64
	Chikou  []float64
}

// ComputeIchimoku computes the Ichimoku system with 9/26/52 periods.
func ComputeIchimoku(bars []model.Bar) Ichimoku {
	n := len(bars)
	ich := Ichimoku{
		Tenkan:  midline(bars, ichiTenkan),
		Kijun:   midline(bars, ichiKijun),
		SenkouA: nanSlice(n),
		SenkouB: nanSlice(n),
		Chikou:  model.Closes(bars),
	}

	senkouBRaw := midline(bars, ichiSenkou)
	for i := 0; i < n; i++ {
		shifted := i + ichiShift
		if shifted >= n {
			break
		}
		ich.SenkouA[shifted] = (ich.Tenkan[i] + ich.Kijun[i]) / 2 // NaN until both warm
		ich.SenkouB[shifted] = senkouBRaw[i]
	}
	return ich
}

// midline returns (highestHigh + lowestLow) / 2 over a rolling window.
func midline(bars []model.Bar, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 || len(bars) < period {
		return out
	}

	for i := period - 1; i < len(bars); i++ {
		hh, ll := bars[i].High, bars[i].Low
		for j := i - period + 1; j < i; j++ {
			if bars[j].High > hh {
				hh = bars[j].High
			}
			if bars[j].Low < ll {
				ll = bars[j].Low
			}
		}
		out[i] = (hh + ll) / 2
	}
	return out
}
