package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a Journal backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) a SQLite journal at path and ensures
// the schema exists.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, strategy, symbol, initial_capital, final_value,
		 total_return_pct, num_trades, max_drawdown_pct, sharpe_ratio, win_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Strategy, r.Symbol, r.InitialCapital, r.FinalValue,
		r.TotalReturnPct, r.NumTrades, r.MaxDrawdownPct, r.SharpeRatio, r.WinRate,
	)
	return err
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, time, symbol, side, quantity, price, reason, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.Time, t.Symbol, t.Side, t.Quantity, t.Price, t.Reason, t.PNL,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquityRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, time, portfolio_value, cash, positions_value)
		VALUES (?, ?, ?, ?, ?)`,
		e.RunID, e.Time, e.PortfolioValue, e.Cash, e.PositionsValue,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
