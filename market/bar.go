// Package market holds the core market data types shared by the portfolio
// ledger, strategies, and the backtest engine.
package market

import "time"

// Bar represents one OHLCV (Open, High, Low, Close, Volume) sample for a
// fixed time interval.
type Bar struct {
	Time   time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Side is the direction of an executed trade.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

func (s Side) String() string { return string(s) }
