package feed

import (
	"fmt"
	"math"

	"chart-systemv1/internal/model"
)

// swingLookaround is the number of bars on each side a local extreme must
// dominate to count as a swing pivot.
const swingLookaround = 5

// DeriveEvents mocks trade events from bar history: buy entries at swing
// lows, sell exits at swing highs, alternating so that entries and exits
// pair up. Deterministic for a given bar slice.
func DeriveEvents(bars []model.Bar) []model.ChartEvent {
	if len(bars) < swingLookaround*2+1 {
		return nil
	}

	var events []model.ChartEvent
	wantLow := true // start looking for an entry

	for i := swingLookaround; i < len(bars)-swingLookaround; i++ {
		if wantLow && isSwingLow(bars, i) {
			events = append(events, model.ChartEvent{
				ID:    fmt.Sprintf("ev-%d", len(events)),
				Type:  model.EventEntry,
				Side:  model.SideBuy,
				Time:  bars[i].Time,
				Price: bars[i].Low,
			})
			wantLow = false
		} else if !wantLow && isSwingHigh(bars, i) {
			events = append(events, model.ChartEvent{
				ID:    fmt.Sprintf("ev-%d", len(events)),
				Type:  model.EventExit,
				Side:  model.SideSell,
				Time:  bars[i].Time,
				Price: bars[i].High,
			})
			wantLow = true
		}
	}
	return events
}

// DeriveAnchors attaches one reasoning anchor per event, classifying intent
// from the event side and regime/confidence from the bars around the event.
func DeriveAnchors(events []model.ChartEvent, bars []model.Bar) []model.ReasoningAnchor {
	anchors := make([]model.ReasoningAnchor, 0, len(events))
	for i, ev := range events {
		idx := barIndexAt(bars, ev.Time)
		regime, conf := classifyWindow(bars, idx)

		intent := model.IntentNeutral
		switch ev.Side {
		case model.SideBuy:
			intent = model.IntentLong
		case model.SideSell:
			intent = model.IntentShort
		}

		anchors = append(anchors, model.ReasoningAnchor{
			ID:         fmt.Sprintf("ra-%d", i),
			EventID:    ev.ID,
			Intent:     intent,
			Regime:     regime,
			Confidence: conf,
			Summary:    summarize(ev, regime),
			Time:       ev.Time,
			Price:      ev.Price,
		})
	}
	return anchors
}

func isSwingLow(bars []model.Bar, i int) bool {
	for j := 1; j <= swingLookaround; j++ {
		if bars[i-j].Low <= bars[i].Low || bars[i+j].Low <= bars[i].Low {
			return false
		}
	}
	return true
}

func isSwingHigh(bars []model.Bar, i int) bool {
	for j := 1; j <= swingLookaround; j++ {
		if bars[i-j].High >= bars[i].High || bars[i+j].High >= bars[i].High {
			return false
		}
	}
	return true
}

func barIndexAt(bars []model.Bar, t int64) int {
	for i, b := range bars {
		if b.Time == t {
			return i
		}
	}
	return len(bars) - 1
}

// classifyWindow grades the 20 bars up to idx: strong net move → trend,
// wide bar ranges relative to the net move → volatility, otherwise range.
func classifyWindow(bars []model.Bar, idx int) (model.Regime, model.Confidence) {
	start := idx - 20
	if start < 0 {
		start = 0
	}
	window := bars[start : idx+1]
	if len(window) < 2 {
		return model.RegimeRange, model.ConfidenceLow
	}

	net := math.Abs(window[len(window)-1].Close - window[0].Close)
	var span float64
	for _, b := range window {
		span += b.High - b.Low
	}
	avgSpan := span / float64(len(window))

	switch {
	case net > avgSpan*4:
		return model.RegimeTrend, model.ConfidenceHigh
	case avgSpan > 1.5 && net < avgSpan*2:
		return model.RegimeVolatility, model.ConfidenceLow
	default:
		return model.RegimeRange, model.ConfidenceMedium
	}
}

func summarize(ev model.ChartEvent, regime model.Regime) string {
	return fmt.Sprintf("%s %s at %.2f (%s regime)", ev.Side, ev.Type, ev.Price, regime)
}
