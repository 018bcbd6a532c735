// Package projection builds the forward-looking price cone: an OLS drift
// from the recent bar window, a volatility-scaled spread, and three named
// scenario paths with time-decaying confidence bands.
//
// Everything derives from the current visible window and is recomputed
// whenever that window changes (append, replay truncation).
package projection

import (
	"math"

	"chart-systemv1/internal/indicator"
	"chart-systemv1/internal/model"
)

// Model constants. The numeric tests pin these exactly.
const (
	LookbackBars = 24
	ForwardSteps = 20

	riskBandMult   = 1.6
	reversionMult  = -0.8
	volatilityMin  = 0.1
	decayFloor     = 0.2
	confidenceBase = 90.0
	confidenceFlr  = 28.0
	confSqrtCoef   = 9.0
	confDecayCoef  = 20.0
)

// RegimeKind is the coarse market-state classification biasing scenarios.
type RegimeKind string

const (
	RegimeTrend     RegimeKind = "trend"
	RegimeDowntrend RegimeKind = "downtrend"
	RegimeRange     RegimeKind = "range"
)

// ScenarioKind names a forward price path.
type ScenarioKind string

const (
	ScenarioContinuation ScenarioKind = "continuation"
	ScenarioReversion    ScenarioKind = "reversion"
	ScenarioRange        ScenarioKind = "range"
)

// ConfidenceStep is one forward step of a scenario's confidence band.
type ConfidenceStep struct {
	Upper         float64
	Lower         float64
	ConfidencePct float64
}

// Scenario is a named forward price path with its confidence band, one entry
// per forward step.
type Scenario struct {
	Kind       ScenarioKind
	Path       []float64
	Confidence []ConfidenceStep
}

// Step is one forward step of the base cone.
type Step struct {
	Time      int64 // projected epoch ms
	Base      float64
	Upper     float64
	Lower     float64
	RiskUpper float64
	RiskLower float64
}

// Envelope is the full projection output.
type Envelope struct {
	Steps     []Step
	Scenarios [3]Scenario
	Regime    RegimeKind
}

// Active returns the scenario the interaction layer hit-tests against: the
// continuation path, which in a range regime already carries the flat range
// path.
func (e *Envelope) Active() *Scenario {
	return &e.Scenarios[0]
}

// Compute derives the projection envelope from the visible window. Returns
// nil when fewer than 2 points fall inside the lookback window.
func Compute(bars []model.Bar, ind *indicator.Set) *Envelope {
	if len(bars) < 2 || ind == nil {
		return nil
	}

	window := bars
	if len(window) > LookbackBars {
		window = window[len(window)-LookbackBars:]
	}
	if len(window) < 2 {
		return nil
	}

	slopePerMS := olsSlope(window)
	stepMS := float64(window[len(window)-1].Time-window[0].Time) / float64(len(window)-1)
	slope := slopePerMS * stepMS // drift per forward step

	vol := lastValue(ind.ATR14)
	if !(vol > 0) {
		vol = lastValue(ind.StdDev20)
		if math.IsNaN(vol) || vol < volatilityMin {
			vol = volatilityMin
		}
	}

	lastClose := bars[len(bars)-1].Close
	lastTime := bars[len(bars)-1].Time
	regime := classifyRegime(lastClose, lastValue(ind.EMA20), lastValue(ind.EMA50))

	env := &Envelope{Regime: regime}
	env.Scenarios[0] = newScenario(ScenarioContinuation)
	env.Scenarios[1] = newScenario(ScenarioReversion)
	env.Scenarios[2] = newScenario(ScenarioRange)

	drifts := [3]float64{slope, reversionMult * math.Abs(slope), 0}

	for i := 1; i <= ForwardSteps; i++ {
		fi := float64(i)
		drift := slope * fi
		spread := vol * math.Sqrt(fi) // random-walk scaling
		base := lastClose + drift

		env.Steps = append(env.Steps, Step{
			Time:      lastTime + int64(stepMS*fi),
			Base:      base,
			Upper:     base + spread,
			Lower:     base - spread,
			RiskUpper: base + riskBandMult*spread,
			RiskLower: base - riskBandMult*spread,
		})

		decay := 1 - fi/ForwardSteps
		if decay < decayFloor {
			decay = decayFloor
		}
		half := spread * decay

		pct := confidenceBase - confSqrtCoef*math.Sqrt(fi) - confDecayCoef*(fi/ForwardSteps)
		if pct < confidenceFlr {
			pct = confidenceFlr
		}

		for s := range env.Scenarios {
			price := lastClose + drifts[s]*fi
			env.Scenarios[s].Path = append(env.Scenarios[s].Path, price)
			env.Scenarios[s].Confidence = append(env.Scenarios[s].Confidence, ConfidenceStep{
				Upper:         price + half,
				Lower:         price - half,
				ConfidencePct: pct,
			})
		}
	}

	// Range-bound markets get no directional continuation: the continuation
	// scenario takes the range path wholesale.
	if regime == RegimeRange {
		rng := env.Scenarios[2]
		env.Scenarios[0].Path = append([]float64(nil), rng.Path...)
		env.Scenarios[0].Confidence = append([]ConfidenceStep(nil), rng.Confidence...)
	}

	return env
}

func newScenario(kind ScenarioKind) Scenario {
	return Scenario{
		Kind:       kind,
		Path:       make([]float64, 0, ForwardSteps),
		Confidence: make([]ConfidenceStep, 0, ForwardSteps),
	}
}

// olsSlope fits close = a + b·time by ordinary least squares and returns b
// (price per millisecond). Times are centered to keep the sums well
// conditioned.
func olsSlope(bars []model.Bar) float64 {
	n := float64(len(bars))
	var meanT, meanC float64
	for _, b := range bars {
		meanT += float64(b.Time)
		meanC += b.Close
	}
	meanT /= n
	meanC /= n

	var num, den float64
	for _, b := range bars {
		dt := float64(b.Time) - meanT
		num += dt * (b.Close - meanC)
		den += dt * dt
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// classifyRegime orders close vs EMA20 vs EMA50.
func classifyRegime(close, ema20, ema50 float64) RegimeKind {
	switch {
	case close > ema20 && ema20 > ema50:
		return RegimeTrend
	case close < ema20 && ema20 < ema50:
		return RegimeDowntrend
	default:
		return RegimeRange
	}
}

func lastValue(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}
