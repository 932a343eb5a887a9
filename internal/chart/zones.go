package chart

import "time"

// PriceBar is one point of a chronological price series. Time is UTC.
type PriceBar struct {
	Time   time.Time `json:"time"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Zone is a contraction zone over a price series: the [Start, End] index
// span (End inclusive) and the close-price band it covers.
type Zone struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
}

// Range returns the zone's band width.
func (z Zone) Range() float64 {
	return z.High - z.Low
}

// DefaultSegments is the window count used when callers pass none.
const DefaultSegments = 4

// ContractionZones partitions the trailing part of a series into
// equal-width windows and returns the windows whose high-low range
// strictly shrinks, walking chronologically from the earliest window.
// A series shorter than segments*5 points is too sparse to claim a
// pattern and yields no zones.
//
// The pass is greedy: a window is kept iff its range is positive and
// smaller than the last kept window's range. Ties are rejected.
func ContractionZones(series []PriceBar, segments int) []Zone {
	count := len(series)
	if segments < 1 || count < segments*5 {
		return nil
	}

	window := count / segments
	if window < 1 {
		window = 1
	}
	// Anchor the windows to the most recent data; any leading remainder
	// is discarded.
	startOffset := count - segments*window
	if startOffset < 0 {
		startOffset = 0
	}

	var zones []Zone
	previousRange := -1.0

	for idx := 0; idx < segments; idx++ {
		start := startOffset + idx*window
		end := start + window
		if end > count {
			end = count
		}
		if end-start < 2 {
			continue
		}

		high := series[start].Close
		low := series[start].Close
		for _, point := range series[start+1 : end] {
			if point.Close > high {
				high = point.Close
			}
			if point.Close < low {
				low = point.Close
			}
		}

		priceRange := high - low
		if priceRange <= 0 {
			continue
		}
		if previousRange < 0 || priceRange < previousRange {
			zones = append(zones, Zone{Start: start, End: end - 1, High: high, Low: low})
			previousRange = priceRange
		}
	}

	return zones
}
