package strategies

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"github.com/quantfold/daytrader/market"
)

// RSI is a mean-reversion strategy: buy when the relative strength index
// drops below the oversold level, sell when it rises above overbought.
type RSI struct {
	symbol       string
	period       int
	oversold     float64
	overbought   float64
	positionSize float64

	prices []float64
}

// NewRSI creates an RSI mean-reversion strategy. Typical levels are 30
// (oversold) and 70 (overbought).
func NewRSI(symbol string, period int, oversold, overbought, positionSize float64) *RSI {
	return &RSI{
		symbol:       symbol,
		period:       period,
		oversold:     oversold,
		overbought:   overbought,
		positionSize: positionSize,
	}
}

func (s *RSI) Name() string {
	return fmt.Sprintf("rsi(%d)", s.period)
}

// OnStart primes the price history with the warmup window.
func (s *RSI) OnStart(warmup market.Bars) {
	s.prices = warmup.Closes()
}

func (s *RSI) OnData(bar market.Bar, view View) []Intent {
	price := bar.Close
	s.prices = append(s.prices, price)

	if len(s.prices) < s.period+1 {
		return nil
	}

	rsi := talib.Rsi(s.prices, s.period)
	value := rsi[len(rsi)-1]

	_, held := view.Position(s.symbol)

	switch {
	case value < s.oversold && !held:
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
			Reason:   fmt.Sprintf("RSI oversold: %.2f < %.2f", value, s.oversold),
		}}

	case value > s.overbought && held:
		pos, _ := view.Position(s.symbol)
		return []Intent{{
			Symbol:   s.symbol,
			Side:     market.Sell,
			Quantity: pos.Quantity,
			Price:    price,
			Time:     bar.Time,
			Reason:   fmt.Sprintf("RSI overbought: %.2f > %.2f", value, s.overbought),
		}}
	}

	return nil
}

func (s *RSI) OnFinish(View) {}
