// Package backtest replays historical bars through a strategy, executes the
// resulting trade intents against a private portfolio ledger, and collects
// the equity curve and trade log into a Result.
package backtest

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quantfold/daytrader/market"
	"github.com/quantfold/daytrader/portfolio"
	"github.com/quantfold/daytrader/strategies"
)

// Config carries the parameters of a single backtest run.
type Config struct {
	InitialCapital      float64
	CommissionPerTrade  float64
	MaxPositionFraction float64
	WarmupPeriod        int
}

// EquityPoint is one sample of the equity curve, recorded after every
// replayed bar whether or not a trade occurred.
type EquityPoint struct {
	Time           time.Time
	PortfolioValue float64
	Cash           float64
	PositionsValue float64
}

// TradeLogEntry is one successfully executed trade, tagged with the
// strategy's reason. PNL is filled in at finalization for SELL entries with
// the ledger's cumulative realized P&L (see Result.WinRate for the
// consequences).
type TradeLogEntry struct {
	Time     time.Time
	Symbol   string
	Side     market.Side
	Quantity float64
	Price    float64
	Reason   string
	PNL      float64
}

// PositionSnapshot records one open position after one bar.
type PositionSnapshot struct {
	Time     time.Time
	Symbol   string
	Quantity float64
	Price    float64
	Value    float64
}

// Engine drives a backtest run. Each call to Run builds a fresh ledger, so
// one Engine may be reused, but a single run must never be shared across
// goroutines.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine for the given run configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Run replays bars for one symbol through strat and returns the collected
// Result. Bars are normalized to timestamp order before replay; callers are
// still expected to supply pre-sorted data.
//
// With WarmupPeriod w > 0 the strategy's OnStart receives the first w bars
// and replay begins at bar w. With w == 0 OnStart receives just the first
// bar and replay still begins at bar 0, so the first bar is both a warmup
// sample and a trading bar. That quirk is kept for compatibility with the
// system this engine reproduces.
func (e *Engine) Run(strat strategies.Strategy, bars market.Bars, symbol string) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("backtest: strategy is required")
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("backtest: empty bar series")
	}

	// Private copy: normalization must not reorder the caller's slice, and
	// concurrent sweep runs share the input.
	series := make(market.Bars, len(bars))
	copy(series, bars)
	series.SortByTime()

	ledger := portfolio.NewManager(portfolio.Config{
		InitialCash:         e.cfg.InitialCapital,
		MaxPositionFraction: e.cfg.MaxPositionFraction,
		CommissionPerTrade:  e.cfg.CommissionPerTrade,
	})

	var (
		equity    []EquityPoint
		trades    []TradeLogEntry
		positions []PositionSnapshot
	)

	startIdx := 0
	if w := e.cfg.WarmupPeriod; w > 0 {
		if w > len(series) {
			w = len(series)
		}
		strat.OnStart(series[:w])
		startIdx = w
	} else {
		strat.OnStart(series[:1])
	}

	for i := startIdx; i < len(series); i++ {
		bar := series[i]

		ledger.UpdatePrices(map[string]float64{symbol: bar.Close})

		for _, intent := range strat.OnData(bar, ledger) {
			var ok bool
			var msg string

			switch intent.Side {
			case market.Buy:
				ok, msg = ledger.Buy(intent.Symbol, intent.Quantity, intent.Price, bar.Time)
			case market.Sell:
				ok, msg = ledger.Sell(intent.Symbol, intent.Quantity, intent.Price, bar.Time)
			default:
				continue
			}

			if !ok {
				// Rejected orders are dropped, never retried or escalated.
				logrus.Debugf("backtest: order rejected at %s: %s", bar.Time.Format(time.RFC3339), msg)
				continue
			}

			trades = append(trades, TradeLogEntry{
				Time:     bar.Time,
				Symbol:   intent.Symbol,
				Side:     intent.Side,
				Quantity: intent.Quantity,
				Price:    intent.Price,
				Reason:   intent.Reason,
			})
		}

		equity = append(equity, EquityPoint{
			Time:           bar.Time,
			PortfolioValue: ledger.PortfolioValue(),
			Cash:           ledger.Cash(),
			PositionsValue: ledger.PositionsValue(),
		})

		for _, pos := range ledger.Positions() {
			positions = append(positions, PositionSnapshot{
				Time:     bar.Time,
				Symbol:   pos.Symbol,
				Quantity: pos.Quantity,
				Price:    pos.CurrentPrice,
				Value:    pos.MarketValue(),
			})
		}
	}

	// Force-close any remaining position at the final close.
	final := series[len(series)-1]
	ledger.UpdatePrices(map[string]float64{symbol: final.Close})

	if pos, held := ledger.Position(symbol); held {
		if ok, _ := ledger.ClosePosition(symbol, final.Close, final.Time); ok {
			trades = append(trades, TradeLogEntry{
				Time:     final.Time,
				Symbol:   symbol,
				Side:     market.Sell,
				Quantity: pos.Quantity,
				Price:    final.Close,
				Reason:   "end-of-run liquidation",
			})
		}
	}

	strat.OnFinish(ledger)

	// Annotate SELL entries with cumulative realized P&L at finalization.
	// This is deliberately not per-trade P&L; see the Result docs.
	cumRealized := ledger.RealizedPNL()
	for i := range trades {
		if trades[i].Side == market.Sell {
			trades[i].PNL = cumRealized
		}
	}

	return &Result{
		StrategyName:     strat.Name(),
		Symbol:           symbol,
		InitialCapital:   e.cfg.InitialCapital,
		FinalValue:       ledger.PortfolioValue(),
		EquityCurve:      equity,
		Trades:           trades,
		DailyReturns:     dailyReturns(equity),
		PositionsHistory: positions,
	}, nil
}

// dailyReturns derives the per-bar simple-return series from the equity
// curve. The first sample has no predecessor and is dropped.
func dailyReturns(equity []EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].PortfolioValue
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, equity[i].PortfolioValue/prev-1)
	}
	return returns
}
