package indicator

import (
	"math"

	"chart-systemv1/internal/model"
)

// RSI computes the relative strength index with EMA-smoothed average gains
// and losses, not Wilder's running average. If the average loss is zero,
// RSI is 100.
func RSI(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period+1 {
		return out
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	avgGain := EMA(gains, period)
	avgLoss := EMA(losses, period)

	for i := period; i < len(values); i++ {
		if avgLoss[i] == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// Stochastic computes the %K / %D oscillator:
// %K = (close − lowestLow) / (highestHigh − lowestLow) · 100 over kPeriod,
// %D = SMA(dPeriod) of %K.
func Stochastic(bars []model.Bar, kPeriod, dPeriod int) (k, d []float64) {
	n := len(bars)
	k = nanSlice(n)
	if kPeriod <= 0 || n < kPeriod {
		return k, nanSlice(n)
	}

	for i := kPeriod - 1; i < n; i++ {
		hh, ll := bars[i].High, bars[i].Low
		for j := i - kPeriod + 1; j < i; j++ {
			if bars[j].High > hh {
				hh = bars[j].High
			}
			if bars[j].Low < ll {
				ll = bars[j].Low
			}
		}
		span := hh - ll
		if span == 0 {
			span = 1
		}
		k[i] = (bars[i].Close - ll) / span * 100
	}

	// SMA over k keeps NaN through the warm-up via summation.
	d = nanSlice(n)
	for i := kPeriod + dPeriod - 2; i < n; i++ {
		sum := 0.0
		for j := 0; j < dPeriod; j++ {
			sum += k[i-j]
		}
		d[i] = sum / float64(dPeriod)
	}
	return k, d
}

// MACDSeries holds the MACD line, its signal line, and the histogram.
type MACDSeries struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes EMA(fast) − EMA(slow), an EMA(signal) of that, and their
// difference as the histogram.
func MACD(values []float64, fast, slow, signal int) MACDSeries {
	n := len(values)
	line := make([]float64, n)

	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)
	for i := 0; i < n; i++ {
		line[i] = emaFast[i] - emaSlow[i]
	}

	sig := EMA(line, signal)
	hist := make([]float64, n)
	for i := 0; i < n; i++ {
		hist[i] = line[i] - sig[i]
	}
	return MACDSeries{Line: line, Signal: sig, Histogram: hist}
}

// CCI computes the commodity channel index:
// (typicalPrice − SMA(tp)) / (0.015 · meanDeviation).
func CCI(bars []model.Bar, period int) []float64 {
	n := len(bars)
	out := nanSlice(n)
	if period <= 0 || n < period {
		return out
	}

	tp := make([]float64, n)
	for i, b := range bars {
		tp[i] = b.TypicalPrice()
	}
	ma := SMA(tp, period)

	for i := period - 1; i < n; i++ {
		dev := 0.0
		for j := 0; j < period; j++ {
			dev += math.Abs(tp[i-j] - ma[i])
		}
		dev /= float64(period)
		if dev == 0 {
			out[i] = 0
			continue
		}
		out[i] = (tp[i] - ma[i]) / (0.015 * dev)
	}
	return out
}

// ROC computes the rate of change: (v[i] − v[i−period]) / v[i−period] · 100.
func ROC(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	for i := period; i < len(values); i++ {
		base := values[i-period]
		if base == 0 {
			out[i] = 0
			continue
		}
		out[i] = (values[i] - base) / base * 100
	}
	return out
}

// WilliamsR computes Williams %R:
// (highestHigh − close) / (highestHigh − lowestLow) · −100.
func WilliamsR(bars []model.Bar, period int) []float64 {
	n := len(bars)
	out := nanSlice(n)
	if period <= 0 || n < period {
		return out
	}

	for i := period - 1; i < n; i++ {
		hh, ll := bars[i].High, bars[i].Low
		for j := i - period + 1; j < i; j++ {
			if bars[j].High > hh {
				hh = bars[j].High
			}
			if bars[j].Low < ll {
				ll = bars[j].Low
			}
		}
		span := hh - ll
		if span == 0 {
			span = 1
		}
		out[i] = (hh - bars[i].Close) / span * -100
	}
	return out
}
