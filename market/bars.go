package market

import "sort"

// Bars is a time-ordered series of OHLCV samples.
type Bars []Bar

// SortByTime sorts the series by timestamp ascending. The sort is stable so
// bars carrying identical timestamps keep their original order.
func (bs Bars) SortByTime() {
	sort.SliceStable(bs, func(i, j int) bool {
		return bs[i].Time.Before(bs[j].Time)
	})
}

// IsSorted reports whether the series is in non-decreasing timestamp order.
func (bs Bars) IsSorted() bool {
	return sort.SliceIsSorted(bs, func(i, j int) bool {
		return bs[i].Time.Before(bs[j].Time)
	})
}

// Closes returns the close prices of the series in order.
func (bs Bars) Closes() []float64 {
	closes := make([]float64, len(bs))
	for i, b := range bs {
		closes[i] = b.Close
	}
	return closes
}
