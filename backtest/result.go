package backtest

import (
	"fmt"
	"io"
	"math"

	"github.com/quantfold/daytrader/market"
)

// Result is the immutable outcome of one backtest run. Metrics are computed
// from the recorded series on every call, never cached.
type Result struct {
	StrategyName     string
	Symbol           string
	InitialCapital   float64
	FinalValue       float64
	EquityCurve      []EquityPoint
	Trades           []TradeLogEntry
	DailyReturns     []float64
	PositionsHistory []PositionSnapshot
}

// TotalReturn is the absolute gain or loss of the run.
func (r *Result) TotalReturn() float64 {
	return r.FinalValue - r.InitialCapital
}

// TotalReturnPct is the total return relative to initial capital, in
// percent. Returns 0 when initial capital is zero.
func (r *Result) TotalReturnPct() float64 {
	if r.InitialCapital == 0 {
		return 0
	}
	return r.TotalReturn() / r.InitialCapital * 100
}

// NumTrades is the number of executed trades in the log.
func (r *Result) NumTrades() int { return len(r.Trades) }

// MaxDrawdown is the largest percentage decline from a running equity peak,
// reported as a positive number. Returns 0 for fewer than two samples.
func (r *Result) MaxDrawdown() float64 {
	if len(r.EquityCurve) < 2 {
		return 0
	}

	runningMax := r.EquityCurve[0].PortfolioValue
	worst := 0.0
	for _, pt := range r.EquityCurve {
		if pt.PortfolioValue > runningMax {
			runningMax = pt.PortfolioValue
		}
		if runningMax == 0 {
			continue
		}
		dd := (pt.PortfolioValue - runningMax) / runningMax * 100
		if dd < worst {
			worst = dd
		}
	}
	return math.Abs(worst)
}

// SharpeRatio is mean(daily returns) / stddev(daily returns), annualized by
// sqrt(252) with a 0% risk-free rate. Returns 0 with fewer than two return
// samples or zero volatility.
func (r *Result) SharpeRatio() float64 {
	n := len(r.DailyReturns)
	if n < 2 {
		return 0
	}

	var sum float64
	for _, v := range r.DailyReturns {
		sum += v
	}
	mean := sum / float64(n)

	var ss float64
	for _, v := range r.DailyReturns {
		d := v - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(n-1))
	if std == 0 {
		return 0
	}

	return mean / std * math.Sqrt(252)
}

// WinRate is the percentage of trade-log entries with strictly positive
// annotated P&L. Because SELL entries carry the ledger's cumulative
// realized P&L at finalization rather than the sale's own P&L, this
// measures "was total realized P&L positive at a sell event", not per-trade
// profitability. Returns 0 with no trades.
func (r *Result) WinRate() float64 {
	if len(r.Trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range r.Trades {
		if t.PNL > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(r.Trades)) * 100
}

// Metrics returns the flat metrics mapping used for tabular reporting.
func (r *Result) Metrics() map[string]float64 {
	return map[string]float64{
		"initial_capital":  r.InitialCapital,
		"final_value":      r.FinalValue,
		"total_return":     r.TotalReturn(),
		"total_return_pct": r.TotalReturnPct(),
		"num_trades":       float64(r.NumTrades()),
		"max_drawdown_pct": r.MaxDrawdown(),
		"sharpe_ratio":     r.SharpeRatio(),
		"win_rate":         r.WinRate(),
	}
}

// sellCount returns how many log entries are sells.
func (r *Result) sellCount() int {
	n := 0
	for _, t := range r.Trades {
		if t.Side == market.Sell {
			n++
		}
	}
	return n
}

// PrintSummary writes a formatted run summary to w.
func (r *Result) PrintSummary(w io.Writer) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Strategy:        %s\n", r.StrategyName)
	fmt.Fprintf(w, "Symbol:          %s\n", r.Symbol)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Initial Capital: $%.2f\n", r.InitialCapital)
	fmt.Fprintf(w, "Final Value:     $%.2f\n", r.FinalValue)
	fmt.Fprintf(w, "Total Return:    $%.2f (%+.2f%%)\n", r.TotalReturn(), r.TotalReturnPct())
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:          %d (%d sells)\n", r.NumTrades(), r.sellCount())
	fmt.Fprintf(w, "Win Rate:        %.2f%%\n", r.WinRate())
	fmt.Fprintf(w, "Max Drawdown:    %.2f%%\n", r.MaxDrawdown())
	fmt.Fprintf(w, "Sharpe Ratio:    %.2f\n", r.SharpeRatio())
	fmt.Fprintln(w, "==================================================")
}
