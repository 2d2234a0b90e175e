// Package strategies defines the decision contract invoked by the backtest
// engine, plus the built-in strategy implementations.
package strategies

import (
	"time"

	"github.com/quantfold/daytrader/market"
	"github.com/quantfold/daytrader/portfolio"
)

// View is the read-only portfolio access handed to strategies. Strategies
// decide; the engine executes. A strategy must never hold a writable handle
// to the ledger.
type View interface {
	Cash() float64
	PortfolioValue() float64
	Position(symbol string) (portfolio.Position, bool)
	Positions() []portfolio.Position
}

// *portfolio.Manager satisfies View; the engine passes it in directly.
var _ View = (*portfolio.Manager)(nil)

// Intent is a trade decision produced by a strategy for one bar. It is not
// persisted; the engine consumes it immediately and a successful execution
// becomes a ledger transaction.
type Intent struct {
	Symbol   string
	Side     market.Side
	Quantity float64
	Price    float64
	Time     time.Time
	Reason   string
}

// Strategy is the contract every trading strategy implements.
//
// OnStart is called exactly once before replay with the warmup window; no
// intents may be produced from it. OnData is called once per bar in
// timestamp order and returns zero or more intents. OnFinish is called once
// after the last bar and after forced liquidation.
type Strategy interface {
	Name() string
	OnStart(warmup market.Bars)
	OnData(bar market.Bar, view View) []Intent
	OnFinish(view View)
}

// shares converts available cash into a whole number of shares at price.
// Returns 0 when price is not positive.
func shares(cash, fraction, price float64) float64 {
	if price <= 0 {
		return 0
	}
	n := int64(cash * fraction / price)
	return float64(n)
}
