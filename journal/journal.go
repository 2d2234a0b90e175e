// Package journal persists the output of finished backtest runs (run
// summary, trade log, equity curve) to CSV files or SQLite for external
// analysis. It records completed runs only; live ledger state is never
// persisted.
package journal

import (
	"time"
)

// RunRecord is the summary row of one finished backtest run.
type RunRecord struct {
	RunID          string
	Created        time.Time
	Strategy       string
	Symbol         string
	InitialCapital float64
	FinalValue     float64
	TotalReturnPct float64
	NumTrades      int
	MaxDrawdownPct float64
	SharpeRatio    float64
	WinRate        float64
}

// TradeRecord is one executed trade of a run.
type TradeRecord struct {
	RunID    string
	Time     time.Time
	Symbol   string
	Side     string
	Quantity float64
	Price    float64
	Reason   string
	PNL      float64
}

// EquityRecord is one equity-curve sample of a run.
type EquityRecord struct {
	RunID          string
	Time           time.Time
	PortfolioValue float64
	Cash           float64
	PositionsValue float64
}

// Journal is a sink for backtest run output.
type Journal interface {
	RecordRun(RunRecord) error
	RecordTrade(TradeRecord) error
	RecordEquity(EquityRecord) error
	Close() error
}
