package journal

// ListRuns returns all recorded run summaries, most recent first.
func (j *SQLite) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, strategy, symbol, initial_capital, final_value,
		       total_return_pct, num_trades, max_drawdown_pct, sharpe_ratio, win_rate
		FROM runs ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		err := rows.Scan(&r.RunID, &r.Created, &r.Strategy, &r.Symbol,
			&r.InitialCapital, &r.FinalValue, &r.TotalReturnPct,
			&r.NumTrades, &r.MaxDrawdownPct, &r.SharpeRatio, &r.WinRate)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListTradesByRun returns the trade log of one run in execution order.
func (j *SQLite) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, symbol, side, quantity, price, reason, pnl
		FROM trades WHERE run_id = ? ORDER BY time`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		err := rows.Scan(&t.RunID, &t.Time, &t.Symbol, &t.Side,
			&t.Quantity, &t.Price, &t.Reason, &t.PNL)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListEquityByRun returns the equity curve of one run in time order.
func (j *SQLite) ListEquityByRun(runID string) ([]EquityRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, portfolio_value, cash, positions_value
		FROM equity WHERE run_id = ? ORDER BY time`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRecord
	for rows.Next() {
		var e EquityRecord
		err := rows.Scan(&e.RunID, &e.Time, &e.PortfolioValue, &e.Cash, &e.PositionsValue)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
