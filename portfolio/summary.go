package portfolio

import (
	"fmt"
	"io"
)

// Summary is a point-in-time snapshot of the ledger's headline numbers.
type Summary struct {
	Cash            float64
	PositionsValue  float64
	PortfolioValue  float64
	UnrealizedPNL   float64
	RealizedPNL     float64
	TotalPNL        float64
	TotalPNLPct     float64
	NumPositions    int
	NumTransactions int
}

// Summary captures the current state of the ledger.
func (m *Manager) Summary() Summary {
	return Summary{
		Cash:            m.Cash(),
		PositionsValue:  m.PositionsValue(),
		PortfolioValue:  m.PortfolioValue(),
		UnrealizedPNL:   m.UnrealizedPNL(),
		RealizedPNL:     m.RealizedPNL(),
		TotalPNL:        m.TotalPNL(),
		TotalPNLPct:     m.TotalPNLPct(),
		NumPositions:    m.NumPositions(),
		NumTransactions: len(m.transactions),
	}
}

// PrintSummary writes a formatted portfolio summary to w.
func (m *Manager) PrintSummary(w io.Writer) {
	s := m.Summary()

	fmt.Fprintln(w, "============================================================")
	fmt.Fprintln(w, " Portfolio Summary")
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintf(w, "Cash:             $%.2f\n", s.Cash)
	fmt.Fprintf(w, "Positions Value:  $%.2f\n", s.PositionsValue)
	fmt.Fprintf(w, "Portfolio Value:  $%.2f\n", s.PortfolioValue)
	fmt.Fprintln(w, "------------------------------------------------------------")
	fmt.Fprintf(w, "Unrealized P&L:   $%.2f\n", s.UnrealizedPNL)
	fmt.Fprintf(w, "Realized P&L:     $%.2f\n", s.RealizedPNL)
	fmt.Fprintf(w, "Total P&L:        $%.2f (%+.2f%%)\n", s.TotalPNL, s.TotalPNLPct)
	fmt.Fprintln(w, "------------------------------------------------------------")
	fmt.Fprintf(w, "Positions:        %d\n", s.NumPositions)
	fmt.Fprintf(w, "Transactions:     %d\n", s.NumTransactions)

	for _, p := range m.Positions() {
		fmt.Fprintf(w, "  %s qty=%.0f avg=$%.2f curr=$%.2f P&L=$%.2f (%+.2f%%)\n",
			p.Symbol, p.Quantity, p.AveragePrice, p.CurrentPrice,
			p.UnrealizedPNL(), p.UnrealizedPNLPct())
	}
}
