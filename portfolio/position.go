package portfolio

// Position is the current holding of a single symbol with its
// volume-weighted average cost. Quantity is always >= 1 share; a position
// sold down to zero is removed from the manager entirely.
type Position struct {
	Symbol       string
	Quantity     float64
	AveragePrice float64
	CurrentPrice float64
}

// MarketValue is the position marked to the current price.
func (p Position) MarketValue() float64 {
	return p.Quantity * p.CurrentPrice
}

// CostBasis is quantity times average cost. Commission is not part of the
// cost basis.
func (p Position) CostBasis() float64 {
	return p.Quantity * p.AveragePrice
}

// UnrealizedPNL is the mark-to-market profit or loss of the open position.
func (p Position) UnrealizedPNL() float64 {
	return p.MarketValue() - p.CostBasis()
}

// UnrealizedPNLPct is the unrealized P&L relative to cost basis, in percent.
// Returns 0 for a zero cost basis.
func (p Position) UnrealizedPNLPct() float64 {
	cb := p.CostBasis()
	if cb == 0 {
		return 0
	}
	return p.UnrealizedPNL() / cb * 100
}
