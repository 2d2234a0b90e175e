package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// CSV is a Journal writing runs.csv, trades.csv, and equity.csv into a
// directory.
type CSV struct {
	runs   *csv.Writer
	trades *csv.Writer
	equity *csv.Writer
	files  []*os.File
}

// NewCSV creates (truncating) the three CSV files under dir and writes
// their header rows.
func NewCSV(dir string) (*CSV, error) {
	j := &CSV{}

	headers := []struct {
		name   string
		fields []string
		dst    **csv.Writer
	}{
		{"runs.csv", []string{"run_id", "created", "strategy", "symbol", "initial_capital",
			"final_value", "total_return_pct", "num_trades", "max_drawdown_pct",
			"sharpe_ratio", "win_rate"}, &j.runs},
		{"trades.csv", []string{"run_id", "time", "symbol", "side", "quantity",
			"price", "reason", "pnl"}, &j.trades},
		{"equity.csv", []string{"run_id", "time", "portfolio_value", "cash",
			"positions_value"}, &j.equity},
	}

	for _, h := range headers {
		f, err := os.Create(filepath.Join(dir, h.name))
		if err != nil {
			j.Close()
			return nil, err
		}
		j.files = append(j.files, f)

		w := csv.NewWriter(f)
		if err := w.Write(h.fields); err != nil {
			j.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			j.Close()
			return nil, err
		}
		*h.dst = w
	}

	return j, nil
}

func (j *CSV) RecordRun(r RunRecord) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.Created.Format(time.RFC3339),
		r.Strategy,
		r.Symbol,
		f(r.InitialCapital),
		f(r.FinalValue),
		f(r.TotalReturnPct),
		strconv.Itoa(r.NumTrades),
		f(r.MaxDrawdownPct),
		f(r.SharpeRatio),
		f(r.WinRate),
	})
	if err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.RunID,
		t.Time.Format(time.RFC3339),
		t.Symbol,
		t.Side,
		f(t.Quantity),
		f(t.Price),
		t.Reason,
		f(t.PNL),
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSV) RecordEquity(e EquityRecord) error {
	err := j.equity.Write([]string{
		e.RunID,
		e.Time.Format(time.RFC3339),
		f(e.PortfolioValue),
		f(e.Cash),
		f(e.PositionsValue),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) Close() error {
	var first error
	for _, f := range j.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
