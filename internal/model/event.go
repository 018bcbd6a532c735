package model

// EventType classifies a trade event on the chart.
type EventType string

const (
	EventEntry  EventType = "entry"
	EventExit   EventType = "exit"
	EventStop   EventType = "stop"
	EventTarget EventType = "target"
	EventTrade  EventType = "trade"
)

// Side is the direction of a trade event.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ChartEvent is a single trade marker anchored to a (time, price) point.
// Events are immutable once created; the chart consumes them as opaque
// inputs from the upstream decision layer.
type ChartEvent struct {
	ID    string    `json:"id"`
	Type  EventType `json:"type"`
	Side  Side      `json:"side"`
	Time  int64     `json:"time"` // epoch ms
	Price float64   `json:"price"`
}

// Intent is the directional stance behind a reasoning anchor.
type Intent string

const (
	IntentLong    Intent = "long"
	IntentShort   Intent = "short"
	IntentNeutral Intent = "neutral"
)

// Regime is the coarse market-state label attached to a reasoning anchor.
type Regime string

const (
	RegimeTrend      Regime = "trend"
	RegimeRange      Regime = "range"
	RegimeVolatility Regime = "volatility"
)

// Confidence is the qualitative confidence grade of a reasoning anchor.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ReasoningAnchor pairs free-text reasoning with a chart event, one-to-one
// by EventID. The reference is weak: an anchor whose event is gone still
// renders at its own (time, price).
type ReasoningAnchor struct {
	ID         string     `json:"id"`
	EventID    string     `json:"eventId"`
	Intent     Intent     `json:"intent"`
	Regime     Regime     `json:"regime"`
	Confidence Confidence `json:"confidence"`
	Summary    string     `json:"summary"`
	Time       int64      `json:"time"` // epoch ms
	Price      float64    `json:"price"`
}
