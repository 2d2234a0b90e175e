package strategies

import (
	"github.com/quantfold/daytrader/market"
)

// BuyAndHold buys once on the first bar it can afford and holds until the
// engine liquidates at the end of the run.
type BuyAndHold struct {
	symbol       string
	positionSize float64
	bought       bool
}

// NewBuyAndHold creates a buy-and-hold strategy investing positionSize
// (0.0-1.0] of available cash.
func NewBuyAndHold(symbol string, positionSize float64) *BuyAndHold {
	return &BuyAndHold{symbol: symbol, positionSize: positionSize}
}

func (s *BuyAndHold) Name() string { return "buy-and-hold" }

func (s *BuyAndHold) OnStart(market.Bars) {}

func (s *BuyAndHold) OnData(bar market.Bar, view View) []Intent {
	if s.bought {
		return nil
	}

	qty := shares(view.Cash(), s.positionSize, bar.Close)
	if qty <= 0 {
		return nil
	}

	s.bought = true
	return []Intent{{
		Symbol:   s.symbol,
		Side:     market.Buy,
		Quantity: qty,
		Price:    bar.Close,
		Time:     bar.Time,
		Reason:   "initial buy and hold",
	}}
}

func (s *BuyAndHold) OnFinish(View) {}
