package journal

import (
	"fmt"
	"time"

	"github.com/quantfold/daytrader/backtest"
	"github.com/quantfold/daytrader/internal/id"
)

// WriteResult records a completed backtest result to j under a fresh run ID
// and returns that ID.
func WriteResult(j Journal, r *backtest.Result) (string, error) {
	runID := id.New()

	err := j.RecordRun(RunRecord{
		RunID:          runID,
		Created:        time.Now().UTC(),
		Strategy:       r.StrategyName,
		Symbol:         r.Symbol,
		InitialCapital: r.InitialCapital,
		FinalValue:     r.FinalValue,
		TotalReturnPct: r.TotalReturnPct(),
		NumTrades:      r.NumTrades(),
		MaxDrawdownPct: r.MaxDrawdown(),
		SharpeRatio:    r.SharpeRatio(),
		WinRate:        r.WinRate(),
	})
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}

	for _, t := range r.Trades {
		err := j.RecordTrade(TradeRecord{
			RunID:    runID,
			Time:     t.Time,
			Symbol:   t.Symbol,
			Side:     t.Side.String(),
			Quantity: t.Quantity,
			Price:    t.Price,
			Reason:   t.Reason,
			PNL:      t.PNL,
		})
		if err != nil {
			return "", fmt.Errorf("record trade: %w", err)
		}
	}

	for _, e := range r.EquityCurve {
		err := j.RecordEquity(EquityRecord{
			RunID:          runID,
			Time:           e.Time,
			PortfolioValue: e.PortfolioValue,
			Cash:           e.Cash,
			PositionsValue: e.PositionsValue,
		})
		if err != nil {
			return "", fmt.Errorf("record equity: %w", err)
		}
	}

	return runID, nil
}
