// Package portfolio implements the trading ledger: cash, positions, the
// transaction log, realized P&L, and the risk rules enforced on every order.
//
// A Manager is owned by exactly one writer at a time. The backtest engine
// gives each run its own Manager, so no locking is needed; concurrent runs
// must never share one.
package portfolio

import (
	"fmt"
	"sort"
	"time"

	"github.com/quantfold/daytrader/internal/id"
	"github.com/quantfold/daytrader/market"
)

// Config carries the static risk parameters of a Manager.
type Config struct {
	InitialCash         float64
	MaxPositionFraction float64 // max fraction of portfolio value per symbol, (0,1]
	CommissionPerTrade  float64
}

// Manager tracks cash, open positions, and the transaction log, and
// validates every buy and sell against the configured risk rules.
//
// Invariants held after every successful operation:
//   - cash >= 0
//   - every position has quantity >= 1 (fully sold positions are removed)
//   - PortfolioValue() == Cash() + PositionsValue()
//   - TotalPNL() == RealizedPNL() + UnrealizedPNL()
type Manager struct {
	cfg Config

	cash         float64
	positions    map[string]*Position
	transactions []Transaction
	realizedPNL  float64
}

// NewManager creates a ledger seeded with cfg.InitialCash.
func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:       cfg,
		cash:      cfg.InitialCash,
		positions: make(map[string]*Position),
	}
}

// Cash returns the current cash balance.
func (m *Manager) Cash() float64 { return m.cash }

// InitialCash returns the starting cash balance.
func (m *Manager) InitialCash() float64 { return m.cfg.InitialCash }

// RealizedPNL returns the cumulative profit or loss locked in by sells.
func (m *Manager) RealizedPNL() float64 { return m.realizedPNL }

// PositionsValue returns the mark-to-market value of all open positions.
func (m *Manager) PositionsValue() float64 {
	var total float64
	for _, p := range m.positions {
		total += p.MarketValue()
	}
	return total
}

// PortfolioValue returns cash plus the value of all open positions. It is
// computed on demand so it always reflects the latest price update.
func (m *Manager) PortfolioValue() float64 {
	return m.cash + m.PositionsValue()
}

// UnrealizedPNL returns the total mark-to-market P&L across open positions.
func (m *Manager) UnrealizedPNL() float64 {
	var total float64
	for _, p := range m.positions {
		total += p.UnrealizedPNL()
	}
	return total
}

// TotalPNL returns realized plus unrealized P&L.
func (m *Manager) TotalPNL() float64 {
	return m.realizedPNL + m.UnrealizedPNL()
}

// TotalPNLPct returns total P&L as a percentage of initial cash, or 0 when
// initial cash is zero.
func (m *Manager) TotalPNLPct() float64 {
	if m.cfg.InitialCash == 0 {
		return 0
	}
	return m.TotalPNL() / m.cfg.InitialCash * 100
}

// Position returns a copy of the position held in symbol. The second return
// value reports whether a position exists.
func (m *Manager) Position(symbol string) (Position, bool) {
	p, ok := m.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// Positions returns copies of all open positions, sorted by symbol.
func (m *Manager) Positions() []Position {
	out := make([]Position, 0, len(m.positions))
	for _, p := range m.positions {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// NumPositions returns the number of open positions.
func (m *Manager) NumPositions() int { return len(m.positions) }

// Transactions returns a copy of the transaction log in execution order.
func (m *Manager) Transactions() []Transaction {
	out := make([]Transaction, len(m.transactions))
	copy(out, m.transactions)
	return out
}

// UpdatePrices overwrites the current price of every open position present
// in prices. Cash and quantities are never touched.
func (m *Manager) UpdatePrices(prices map[string]float64) {
	for symbol, p := range m.positions {
		if price, ok := prices[symbol]; ok {
			p.CurrentPrice = price
		}
	}
}

func (m *Manager) validateBuy(symbol string, quantity, price float64) (bool, string) {
	if quantity <= 0 {
		return false, "quantity must be positive"
	}

	totalCost := quantity*price + m.cfg.CommissionPerTrade
	if totalCost > m.cash {
		return false, fmt.Sprintf("insufficient funds: need $%.2f, have $%.2f", totalCost, m.cash)
	}

	// Position size limit is checked against the portfolio value before the
	// trade, combining any existing holding in the same symbol.
	orderValue := quantity * price
	maxAllowed := m.PortfolioValue() * m.cfg.MaxPositionFraction

	if p, ok := m.positions[symbol]; ok {
		newValue := p.MarketValue() + orderValue
		if newValue > maxAllowed {
			return false, fmt.Sprintf("position size limit exceeded: new position would be $%.2f, max allowed $%.2f",
				newValue, maxAllowed)
		}
	} else if orderValue > maxAllowed {
		return false, fmt.Sprintf("position size limit exceeded: $%.2f exceeds max $%.2f",
			orderValue, maxAllowed)
	}

	return true, ""
}

func (m *Manager) validateSell(symbol string, quantity float64) (bool, string) {
	if quantity <= 0 {
		return false, "quantity must be positive"
	}

	p, ok := m.positions[symbol]
	if !ok {
		return false, fmt.Sprintf("no position in %s to sell", symbol)
	}
	if quantity > p.Quantity {
		return false, fmt.Sprintf("insufficient shares: trying to sell %.0f, but only have %.0f",
			quantity, p.Quantity)
	}

	return true, ""
}

// Buy executes a buy order at the given price and timestamp. A rejected
// order returns false with a human-readable reason; it never returns an
// error and never mutates state.
func (m *Manager) Buy(symbol string, quantity, price float64, ts time.Time) (bool, string) {
	if ok, reason := m.validateBuy(symbol, quantity, price); !ok {
		return false, reason
	}

	cost := quantity * price
	m.cash -= cost + m.cfg.CommissionPerTrade

	if p, ok := m.positions[symbol]; ok {
		totalShares := p.Quantity + quantity
		totalCostBasis := p.CostBasis() + cost
		p.AveragePrice = totalCostBasis / totalShares
		p.Quantity = totalShares
		p.CurrentPrice = price
	} else {
		m.positions[symbol] = &Position{
			Symbol:       symbol,
			Quantity:     quantity,
			AveragePrice: price,
			CurrentPrice: price,
		}
	}

	m.transactions = append(m.transactions, Transaction{
		ID:         id.New(),
		Time:       ts,
		Symbol:     symbol,
		Side:       market.Buy,
		Quantity:   quantity,
		Price:      price,
		Commission: m.cfg.CommissionPerTrade,
	})

	return true, fmt.Sprintf("bought %.0f shares of %s @ $%.2f", quantity, symbol, price)
}

// Sell executes a sell order at the given price and timestamp. Proceeds are
// credited net of commission and the realized P&L delta (proceeds minus the
// sold shares' cost basis) is added to the cumulative realized P&L. Selling
// the full held quantity removes the position.
func (m *Manager) Sell(symbol string, quantity, price float64, ts time.Time) (bool, string) {
	if ok, reason := m.validateSell(symbol, quantity); !ok {
		return false, reason
	}

	p := m.positions[symbol]

	proceeds := quantity*price - m.cfg.CommissionPerTrade
	costBasis := quantity * p.AveragePrice
	realized := proceeds - costBasis

	m.cash += proceeds
	m.realizedPNL += realized

	p.Quantity -= quantity
	if p.Quantity == 0 {
		delete(m.positions, symbol)
	} else {
		p.CurrentPrice = price
	}

	m.transactions = append(m.transactions, Transaction{
		ID:         id.New(),
		Time:       ts,
		Symbol:     symbol,
		Side:       market.Sell,
		Quantity:   quantity,
		Price:      price,
		Commission: m.cfg.CommissionPerTrade,
	})

	return true, fmt.Sprintf("sold %.0f shares of %s @ $%.2f, realized P&L: $%.2f",
		quantity, symbol, price, realized)
}

// ClosePosition sells the entire held quantity of symbol at price. Closing
// a symbol with no position is a no-op failure, not an error.
func (m *Manager) ClosePosition(symbol string, price float64, ts time.Time) (bool, string) {
	p, ok := m.positions[symbol]
	if !ok {
		return false, fmt.Sprintf("no position in %s", symbol)
	}
	return m.Sell(symbol, p.Quantity, price, ts)
}

// CloseAllPositions closes every open position for which a price is
// supplied. Symbols without a price are skipped and reported in the result
// list. Positions are closed in symbol order so results are deterministic.
func (m *Manager) CloseAllPositions(prices map[string]float64, ts time.Time) []string {
	symbols := make([]string, 0, len(m.positions))
	for symbol := range m.positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	results := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		price, ok := prices[symbol]
		if !ok {
			results = append(results, fmt.Sprintf("no price provided for %s, skipping", symbol))
			continue
		}
		_, msg := m.ClosePosition(symbol, price, ts)
		results = append(results, msg)
	}
	return results
}
