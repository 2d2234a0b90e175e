package strategies

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"github.com/quantfold/daytrader/market"
)

// SMACross trades simple moving average crossovers: buy when the short SMA
// crosses above the long SMA, sell when it crosses back below.
type SMACross struct {
	symbol       string
	shortWindow  int
	longWindow   int
	positionSize float64

	prices []float64
}

// NewSMACross creates an SMA crossover strategy with the given short and
// long windows, investing positionSize of available cash per entry.
func NewSMACross(symbol string, shortWindow, longWindow int, positionSize float64) *SMACross {
	return &SMACross{
		symbol:       symbol,
		shortWindow:  shortWindow,
		longWindow:   longWindow,
		positionSize: positionSize,
	}
}

func (s *SMACross) Name() string {
	return fmt.Sprintf("sma(%d/%d)", s.shortWindow, s.longWindow)
}

// OnStart primes the price history with the warmup window.
func (s *SMACross) OnStart(warmup market.Bars) {
	s.prices = warmup.Closes()
}

func (s *SMACross) OnData(bar market.Bar, view View) []Intent {
	price := bar.Close
	s.prices = append(s.prices, price)

	// Crossover detection needs the previous SMA pair too, so one extra bar
	// beyond the long window.
	if len(s.prices) <= s.longWindow {
		return nil
	}

	shortSMA := talib.Sma(s.prices, s.shortWindow)
	longSMA := talib.Sma(s.prices, s.longWindow)

	n := len(s.prices)
	short, prevShort := shortSMA[n-1], shortSMA[n-2]
	long, prevLong := longSMA[n-1], longSMA[n-2]

	pos, held := view.Position(s.symbol)

	switch {
	case prevShort <= prevLong && short > long && !held:
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
			Reason:   fmt.Sprintf("SMA crossover: buy signal (%.2f > %.2f)", short, long),
		}}

	case prevShort >= prevLong && short < long && held:
		return []Intent{{
			Symbol:   s.symbol,
			Side:     market.Sell,
			Quantity: pos.Quantity,
			Price:    price,
			Time:     bar.Time,
			Reason:   fmt.Sprintf("SMA crossover: sell signal (%.2f < %.2f)", short, long),
		}}
	}

	return nil
}

func (s *SMACross) OnFinish(View) {}
