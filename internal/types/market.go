package types

import "time"

// Candle is a single closing-price observation.
type Candle struct {
	// Time is the close time of the period
	Time time.Time `json:"time"`
	// Close is the closing price of the period
	Close float64 `json:"close"`
}

// PriceSeries is a chronological sequence of candles, oldest first.
type PriceSeries []Candle

// Closes returns the closing prices of the series in order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, c := range s {
		closes[i] = c.Close
	}

	return closes
}

// Last returns the most recent candle. The second return value is false for
// an empty series.
func (s PriceSeries) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}

	return s[len(s)-1], true
}
