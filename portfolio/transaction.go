package portfolio

import (
	"fmt"
	"time"

	"github.com/quantfold/daytrader/market"
)

// Transaction is an immutable record of one executed trade. Transactions are
// created only by the Manager on a successful buy or sell and appended to an
// ordered, append-only log.
type Transaction struct {
	ID         string
	Time       time.Time
	Symbol     string
	Side       market.Side
	Quantity   float64
	Price      float64
	Commission float64
}

// TotalValue is the full cash impact of the transaction: quantity*price plus
// commission for a buy, minus commission for a sell.
func (t Transaction) TotalValue() float64 {
	base := t.Quantity * t.Price
	if t.Side == market.Buy {
		return base + t.Commission
	}
	return base - t.Commission
}

func (t Transaction) String() string {
	return fmt.Sprintf("Transaction(%s, %s, %s, %.0f@$%.2f, total=$%.2f)",
		t.Time.Format("2006-01-02 15:04:05"), t.Symbol, t.Side,
		t.Quantity, t.Price, t.TotalValue())
}
