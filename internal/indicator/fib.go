package indicator

import (
	"chart-systemv1/internal/model"
)

// Fibonacci ratio tables.
var (
	fibRetraceRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}
	fibExtendRatios  = []float64{1.272, 1.618, 2.618}
	fibFanRatios     = []float64{0.382, 0.5, 0.618}
)

// FibLevel is one horizontal fibonacci price level, valid within
// [FromTime, ToTime].
type FibLevel struct {
	Ratio    float64
	Price    float64
	FromTime int64
	ToTime   int64
}

// FibFanLine is a ray from the anchor extreme through a retracement of the
// opposite extreme.
type FibFanLine struct {
	Ratio     float64
	FromTime  int64
	FromPrice float64
	ToTime    int64
	ToPrice   float64
}

// FibSet bundles retracement, extension, and fan geometry for one window.
type FibSet struct {
	Retracement []FibLevel
	Extension   []FibLevel
	Fan         []FibFanLine
	Valid       bool
}

// ComputeFib derives the fibonacci layers from the window's extreme high/low
// pair and its last three swing pivots.
func ComputeFib(bars []model.Bar) FibSet {
	if len(bars) < 2 {
		return FibSet{}
	}

	hiIdx, loIdx := 0, 0
	for i, b := range bars {
		if b.High > bars[hiIdx].High {
			hiIdx = i
		}
		if b.Low < bars[loIdx].Low {
			loIdx = i
		}
	}
	high, low := bars[hiIdx].High, bars[loIdx].Low
	span := high - low

	from, to := bars[hiIdx].Time, bars[loIdx].Time
	if from > to {
		from, to = to, from
	}
	// Levels extend from the earlier extreme to the window's right edge.
	to = bars[len(bars)-1].Time

	set := FibSet{Valid: true}
	for _, r := range fibRetraceRatios {
		set.Retracement = append(set.Retracement, FibLevel{
			Ratio:    r,
			Price:    high - r*span,
			FromTime: from,
			ToTime:   to,
		})
	}

	// Extension projects the A→B leg of the last three swing pivots from C.
	swings := SwingPoints(bars, 3)
	if len(swings) >= 3 {
		a := swings[len(swings)-3]
		b := swings[len(swings)-2]
		c := swings[len(swings)-1]
		leg := b.Price - a.Price
		for _, r := range fibExtendRatios {
			set.Extension = append(set.Extension, FibLevel{
				Ratio:    r,
				Price:    c.Price + r*leg,
				FromTime: c.Time,
				ToTime:   to,
			})
		}
	}

	// Fan rays anchor at the earlier extreme and pass through retracements
	// of the later one.
	anchorTime, anchorPrice := bars[hiIdx].Time, high
	targetTime := bars[loIdx].Time
	rising := false
	if loIdx < hiIdx {
		anchorTime, anchorPrice = bars[loIdx].Time, low
		targetTime = bars[hiIdx].Time
		rising = true
	}
	for _, r := range fibFanRatios {
		target := high - r*span
		if rising {
			target = low + r*span
		}
		set.Fan = append(set.Fan, FibFanLine{
			Ratio:     r,
			FromTime:  anchorTime,
			FromPrice: anchorPrice,
			ToTime:    targetTime,
			ToPrice:   target,
		})
	}

	return set
}
