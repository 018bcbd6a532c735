package indicator

import (
	"math"
	"time"

	"chart-systemv1/internal/model"
)

// SMA computes a simple moving average over a sliding window.
func SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA computes an exponential moving average. The recursion is seeded with
// the first raw value (out[0] = values[0]), not a warmed SMA.
func EMA(values []float64, period int) []float64 {
	if len(values) == 0 || period <= 0 {
		return nanSlice(len(values))
	}

	out := make([]float64, len(values))
	k := 2.0 / (float64(period) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

// WMA computes a linearly weighted moving average: the newest value in the
// window carries weight period, the oldest weight 1. A NaN anywhere in the
// window propagates (needed for HMA over partially warmed inputs).
func WMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	denom := float64(period*(period+1)) / 2
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		for j := 0; j < period; j++ {
			sum += values[i-period+1+j] * float64(j+1)
		}
		out[i] = sum / denom
	}
	return out
}

// HMA computes the Hull moving average:
// WMA(2·WMA(v, period/2) − WMA(v, period), sqrt(period)).
func HMA(values []float64, period int) []float64 {
	if len(values) == 0 || period <= 1 {
		return nanSlice(len(values))
	}

	half := WMA(values, period/2)
	full := WMA(values, period)

	diff := make([]float64, len(values))
	for i := range diff {
		diff[i] = 2*half[i] - full[i] // NaN-propagating
	}

	sqrtPeriod := int(math.Round(math.Sqrt(float64(period))))
	return WMA(diff, sqrtPeriod)
}

// VWAP computes the volume-weighted average price, with the cumulative sums
// reset at each calendar-day boundary in local time.
func VWAP(bars []model.Bar) []float64 {
	out := nanSlice(len(bars))
	var cumTPV, cumVol float64
	var curYear, curDay int

	for i, b := range bars {
		ts := time.UnixMilli(b.Time)
		if y, d := ts.Year(), ts.YearDay(); i == 0 || y != curYear || d != curDay {
			cumTPV, cumVol = 0, 0
			curYear, curDay = y, d
		}

		cumTPV += b.TypicalPrice() * b.Volume
		cumVol += b.Volume
		if cumVol > 0 {
			out[i] = cumTPV / cumVol
		}
	}
	return out
}
