package strategies

import (
	"fmt"

	"github.com/quantfold/daytrader/market"
)

// Momentum buys when the percentage change over a lookback window is
// positive and sells when it turns negative.
type Momentum struct {
	symbol       string
	lookback     int
	positionSize float64

	prices []float64
}

// NewMomentum creates a momentum strategy with the given lookback window.
func NewMomentum(symbol string, lookback int, positionSize float64) *Momentum {
	return &Momentum{symbol: symbol, lookback: lookback, positionSize: positionSize}
}

func (s *Momentum) Name() string {
	return fmt.Sprintf("momentum(%d)", s.lookback)
}

// OnStart primes the price history with the warmup window.
func (s *Momentum) OnStart(warmup market.Bars) {
	s.prices = warmup.Closes()
}

func (s *Momentum) OnData(bar market.Bar, view View) []Intent {
	price := bar.Close
	s.prices = append(s.prices, price)

	if len(s.prices) < s.lookback+1 {
		return nil
	}

	base := s.prices[len(s.prices)-1-s.lookback]
	if base == 0 {
		return nil
	}
	momentum := (price/base - 1) * 100

	pos, held := view.Position(s.symbol)

	switch {
	case momentum > 0 && !held:
		qty := shares(view.Cash(), s.positionSize, price)
		if qty <= 0 {
			return nil
		}
		return []Intent{{
			Symbol:   s.symbol,
			Side:     market.Buy,
			Quantity: qty,
			Price:    price,
			Time:     bar.Time,
			Reason:   fmt.Sprintf("positive momentum: %.2f%%", momentum),
		}}

	case momentum < 0 && held:
		return []Intent{{
			Symbol:   s.symbol,
			Side:     market.Sell,
			Quantity: pos.Quantity,
			Price:    price,
			Time:     bar.Time,
			Reason:   fmt.Sprintf("negative momentum: %.2f%%", momentum),
		}}
	}

	return nil
}

func (s *Momentum) OnFinish(View) {}
