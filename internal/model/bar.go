// Package model defines the value types flowing through the chart pipeline:
// OHLCV bars, trade events and their reasoning anchors.
//
// Everything here is a plain value: no methods mutate in place, and the
// downstream engines (geometry, indicator, projection) treat slices of these
// as immutable snapshots.
package model

import (
	"encoding/json"
	"math"
)

// Bar represents one time-bucketed OHLCV observation.
// Time is epoch milliseconds; prices and volume are float64.
type Bar struct {
	Time   int64   `json:"time"` // epoch ms, strictly increasing within a series
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Valid reports whether every field is finite and the bar carries a positive
// timestamp. Validation happens once at ingestion; downstream engines assume
// valid bars.
func (b Bar) Valid() bool {
	if b.Time <= 0 {
		return false
	}
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// TypicalPrice returns (high + low + close) / 3.
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// JSON returns the JSON-encoded bar (ignoring errors for hot-path usage).
func (b Bar) JSON() []byte {
	out, _ := json.Marshal(b)
	return out
}

// SanitizeBars filters a series down to valid, strictly time-ascending bars.
// The input slice is not modified. An empty or fully-invalid input yields an
// empty (non-nil) slice; callers substitute the synthetic seed series in that
// case.
func SanitizeBars(bars []Bar) []Bar {
	out := make([]Bar, 0, len(bars))
	var lastTime int64
	for _, b := range bars {
		if !b.Valid() || b.Time <= lastTime {
			continue
		}
		out = append(out, b)
		lastTime = b.Time
	}
	return out
}

// Closes extracts the close series from a bar slice.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volume series from a bar slice.
func Volumes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}
