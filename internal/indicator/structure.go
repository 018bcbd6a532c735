package indicator

import (
	"time"

	"chart-systemv1/internal/model"
)

// PivotLevels is the classic floor-trader pivot family derived from one
// period's high/low/close.
type PivotLevels struct {
	PP float64
	R1 float64
	R2 float64
	R3 float64
	S1 float64
	S2 float64
	S3 float64
}

// PivotSet holds the three pivot variants the chart offers: classic
// (previous calendar day), floor (whole visible window), and session
// (current calendar day so far).
type PivotSet struct {
	Classic PivotLevels
	Floor   PivotLevels
	Session PivotLevels
	Valid   bool
}

// Range is a simple high/low band with the time span it was taken from.
type Range struct {
	High     float64
	Low      float64
	FromTime int64
	ToTime   int64
	Valid    bool
}

// PivotsFromHLC derives the standard PP = (H+L+C)/3 level family.
func PivotsFromHLC(high, low, close float64) PivotLevels {
	pp := (high + low + close) / 3
	return PivotLevels{
		PP: pp,
		R1: 2*pp - low,
		S1: 2*pp - high,
		R2: pp + (high - low),
		S2: pp - (high - low),
		R3: high + 2*(pp-low),
		S3: low - 2*(high-low),
	}
}

// ComputePivots derives the three pivot variants from the bar window. The
// classic variant needs at least two distinct calendar days in the window;
// when the window spans a single day it falls back to the window itself.
func ComputePivots(bars []model.Bar) PivotSet {
	if len(bars) == 0 {
		return PivotSet{}
	}

	// Whole-window H/L/C for the floor variant.
	winHigh, winLow := bars[0].High, bars[0].Low
	for _, b := range bars {
		if b.High > winHigh {
			winHigh = b.High
		}
		if b.Low < winLow {
			winLow = b.Low
		}
	}
	winClose := bars[len(bars)-1].Close

	// Split the window at the last local-calendar-day boundary.
	lastDay := dayKey(bars[len(bars)-1].Time)
	splitIdx := 0
	for i := len(bars) - 1; i >= 0; i-- {
		if dayKey(bars[i].Time) != lastDay {
			splitIdx = i + 1
			break
		}
	}

	set := PivotSet{
		Floor: PivotsFromHLC(winHigh, winLow, winClose),
		Valid: true,
	}

	if splitIdx > 0 {
		prev := bars[:splitIdx]
		h, l := prev[0].High, prev[0].Low
		for _, b := range prev {
			if b.High > h {
				h = b.High
			}
			if b.Low < l {
				l = b.Low
			}
		}
		set.Classic = PivotsFromHLC(h, l, prev[len(prev)-1].Close)
	} else {
		set.Classic = set.Floor
	}

	session := bars[splitIdx:]
	h, l := session[0].High, session[0].Low
	for _, b := range session {
		if b.High > h {
			h = b.High
		}
		if b.Low < l {
			l = b.Low
		}
	}
	set.Session = PivotsFromHLC(h, l, session[len(session)-1].Close)

	return set
}

// OpeningRange returns the high/low of the first n bars.
func OpeningRange(bars []model.Bar, n int) Range {
	if len(bars) == 0 {
		return Range{}
	}
	if n > len(bars) {
		n = len(bars)
	}

	r := Range{
		High:     bars[0].High,
		Low:      bars[0].Low,
		FromTime: bars[0].Time,
		ToTime:   bars[n-1].Time,
		Valid:    true,
	}
	for _, b := range bars[:n] {
		if b.High > r.High {
			r.High = b.High
		}
		if b.Low < r.Low {
			r.Low = b.Low
		}
	}
	return r
}

// SwingPoint is a detected local price extreme.
type SwingPoint struct {
	Index int
	Time  int64
	Price float64
	High  bool // true for swing high, false for swing low
}

// SwingPoints detects local extremes that dominate lookaround bars on each
// side, in chronological order.
func SwingPoints(bars []model.Bar, lookaround int) []SwingPoint {
	var points []SwingPoint
	for i := lookaround; i < len(bars)-lookaround; i++ {
		isHigh, isLow := true, true
		for j := 1; j <= lookaround; j++ {
			if bars[i-j].High >= bars[i].High || bars[i+j].High >= bars[i].High {
				isHigh = false
			}
			if bars[i-j].Low <= bars[i].Low || bars[i+j].Low <= bars[i].Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			points = append(points, SwingPoint{Index: i, Time: bars[i].Time, Price: bars[i].High, High: true})
		} else if isLow {
			points = append(points, SwingPoint{Index: i, Time: bars[i].Time, Price: bars[i].Low, High: false})
		}
	}
	return points
}

// dayKey buckets an epoch-ms timestamp by local calendar day.
func dayKey(ms int64) int {
	ts := time.UnixMilli(ms)
	return ts.Year()*1000 + ts.YearDay()
}
