package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/daytrader/market"
)

func newTestManager(t *testing.T, initial, maxPos, commission float64) *Manager {
	t.Helper()
	return NewManager(Config{
		InitialCash:         initial,
		MaxPositionFraction: maxPos,
		CommissionPerTrade:  commission,
	})
}

var ts = time.Date(2024, 6, 3, 14, 30, 0, 0, time.UTC)

func TestBuyCreatesPosition(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 0.25, 0)

	ok, msg := m.Buy("AAPL", 100, 180.50, ts)
	require.True(t, ok, msg)

	assert.InDelta(t, 81950.0, m.Cash(), 1e-9)

	pos, held := m.Position("AAPL")
	require.True(t, held)
	assert.Equal(t, 100.0, pos.Quantity)
	assert.Equal(t, 180.50, pos.AveragePrice)
	assert.Equal(t, 180.50, pos.CurrentPrice)

	txns := m.Transactions()
	require.Len(t, txns, 1)
	assert.Equal(t, market.Buy, txns[0].Side)
	assert.Equal(t, ts, txns[0].Time)
	assert.NotEmpty(t, txns[0].ID)
}

func TestBuyRejections(t *testing.T) {
	t.Parallel()

	t.Run("non-positive quantity", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t, 100_000, 0.25, 0)
		ok, msg := m.Buy("AAPL", 0, 100, ts)
		require.False(t, ok)
		assert.Equal(t, "quantity must be positive", msg)
		assert.Equal(t, 100_000.0, m.Cash())
	})

	t.Run("insufficient funds", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t, 1000, 1.0, 0)
		ok, msg := m.Buy("AAPL", 100, 100, ts)
		require.False(t, ok)
		assert.Contains(t, msg, "insufficient funds")
		assert.Equal(t, 1000.0, m.Cash())
		assert.Equal(t, 0, m.NumPositions())
	})

	t.Run("commission counts against funds", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t, 1000, 1.0, 5)
		ok, msg := m.Buy("AAPL", 10, 100, ts)
		require.False(t, ok)
		assert.Contains(t, msg, "insufficient funds")
	})

	t.Run("position size limit for new position", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t, 100_000, 0.25, 0)
		// 100*380 = $38,000 exceeds 25% of $100,000.
		ok, msg := m.Buy("MSFT", 100, 380, ts)
		require.False(t, ok)
		assert.Contains(t, msg, "position size limit exceeded")
	})

	t.Run("position size limit combines existing holding", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t, 100_000, 0.25, 0)
		ok, _ := m.Buy("AAPL", 100, 200, ts) // $20,000
		require.True(t, ok)

		// Another $10,000 would push AAPL to $30,000 > $25,000.
		ok, msg := m.Buy("AAPL", 50, 200, ts)
		require.False(t, ok)
		assert.Contains(t, msg, "position size limit exceeded")
	})
}

// Scenario from the accounting rules: three buys within limits, fourth
// rejected.
func TestBuySequenceScenario(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 0.25, 0)

	ok, msg := m.Buy("AAPL", 100, 180.50, ts)
	require.True(t, ok, msg)
	assert.InDelta(t, 81950.0, m.Cash(), 1e-9)

	ok, msg = m.Buy("GOOGL", 50, 140.25, ts)
	require.True(t, ok, msg)
	assert.InDelta(t, 74937.5, m.Cash(), 1e-9)

	ok, msg = m.Buy("TSLA", 75, 250.00, ts)
	require.True(t, ok, msg)
	assert.InDelta(t, 56187.5, m.Cash(), 1e-9)

	ok, _ = m.Buy("MSFT", 1000, 380.00, ts)
	require.False(t, ok)
	assert.Equal(t, 3, m.NumPositions())
}

func TestAveragePriceWeighted(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 1.0, 0)

	ok, _ := m.Buy("AAPL", 100, 100, ts)
	require.True(t, ok)
	ok, _ = m.Buy("AAPL", 50, 130, ts.Add(time.Hour))
	require.True(t, ok)

	pos, held := m.Position("AAPL")
	require.True(t, held)
	assert.Equal(t, 150.0, pos.Quantity)
	// (100*100 + 50*130) / 150 = 110
	assert.InDelta(t, 110.0, pos.AveragePrice, 1e-9)
}

func TestUpdatePricesAndUnrealized(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 0.25, 0)
	ok, _ := m.Buy("AAPL", 100, 180.50, ts)
	require.True(t, ok)

	m.UpdatePrices(map[string]float64{"AAPL": 182.00, "MSFT": 999})

	pos, _ := m.Position("AAPL")
	assert.Equal(t, 182.00, pos.CurrentPrice)
	assert.InDelta(t, 150.0, m.UnrealizedPNL(), 1e-9)
	assert.InDelta(t, 81950.0+18200.0, m.PortfolioValue(), 1e-9)

	// Price refresh never touches cash or quantity.
	assert.InDelta(t, 81950.0, m.Cash(), 1e-9)
	assert.Equal(t, 100.0, pos.Quantity)
}

func TestSellRealizesPNL(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 0.25, 0)
	ok, _ := m.Buy("AAPL", 100, 180.50, ts)
	require.True(t, ok)

	ok, msg := m.Sell("AAPL", 50, 182.00, ts.Add(time.Hour))
	require.True(t, ok, msg)

	// proceeds 9100, cost basis 50*180.50 = 9025
	assert.InDelta(t, 75.0, m.RealizedPNL(), 1e-9)
	assert.InDelta(t, 81950.0+9100.0, m.Cash(), 1e-9)

	pos, held := m.Position("AAPL")
	require.True(t, held)
	assert.Equal(t, 50.0, pos.Quantity)
	assert.Equal(t, 180.50, pos.AveragePrice)
	assert.Equal(t, 182.00, pos.CurrentPrice)
}

func TestSellRejections(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 1.0, 0)

	ok, msg := m.Sell("AAPL", 10, 100, ts)
	require.False(t, ok)
	assert.Contains(t, msg, "no position in AAPL")

	ok, _ = m.Buy("AAPL", 10, 100, ts)
	require.True(t, ok)

	ok, msg = m.Sell("AAPL", 20, 100, ts)
	require.False(t, ok)
	assert.Contains(t, msg, "insufficient shares")

	ok, msg = m.Sell("AAPL", -1, 100, ts)
	require.False(t, ok)
	assert.Equal(t, "quantity must be positive", msg)
}

func TestSellFullQuantityRemovesPosition(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 1.0, 0)
	ok, _ := m.Buy("AAPL", 10, 100, ts)
	require.True(t, ok)

	ok, _ = m.Sell("AAPL", 10, 110, ts)
	require.True(t, ok)

	_, held := m.Position("AAPL")
	assert.False(t, held)
	assert.Equal(t, 0, m.NumPositions())
	assert.InDelta(t, 100.0, m.RealizedPNL(), 1e-9)
	assert.InDelta(t, 100_100.0, m.Cash(), 1e-9)
}

func TestRealizedPNLAdditivity(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 1.0, 0)

	ok, _ := m.Buy("AAPL", 100, 100, ts)
	require.True(t, ok)

	ok, _ = m.Sell("AAPL", 40, 110, ts) // +40*10 = 400
	require.True(t, ok)
	ok, _ = m.Sell("AAPL", 60, 95, ts) // -60*5 = -300
	require.True(t, ok)

	assert.InDelta(t, 100.0, m.RealizedPNL(), 1e-9)
}

func TestCashConservation(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 1.0, 2.5)

	_, _ = m.Buy("AAPL", 100, 100, ts)
	_, _ = m.Buy("AAPL", 50, 120, ts)
	_, _ = m.Sell("AAPL", 80, 130, ts)
	_, _ = m.Buy("GOOGL", 10, 140, ts)
	_, _ = m.Sell("AAPL", 70, 90, ts)

	var buys, sells float64
	for _, txn := range m.Transactions() {
		switch txn.Side {
		case market.Buy:
			buys += txn.TotalValue()
		case market.Sell:
			sells += txn.TotalValue()
		}
	}

	assert.InDelta(t, buys-sells, m.InitialCash()-m.Cash(), 1e-9)
	assert.GreaterOrEqual(t, m.Cash(), 0.0)
}

func TestCommissionExcludedFromCostBasis(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 1.0, 10)

	ok, _ := m.Buy("AAPL", 10, 100, ts)
	require.True(t, ok)
	assert.InDelta(t, 100_000-1010, m.Cash(), 1e-9)

	pos, _ := m.Position("AAPL")
	assert.Equal(t, 100.0, pos.AveragePrice)
	assert.InDelta(t, 1000.0, pos.CostBasis(), 1e-9)

	// Sell everything at cost: the double commission is the whole loss.
	ok, _ = m.Sell("AAPL", 10, 100, ts)
	require.True(t, ok)
	assert.InDelta(t, -10.0, m.RealizedPNL(), 1e-9)
	assert.InDelta(t, 100_000-20, m.Cash(), 1e-9)
}

func TestClosePosition(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 1.0, 0)

	ok, msg := m.ClosePosition("AAPL", 100, ts)
	require.False(t, ok)
	assert.Contains(t, msg, "no position in AAPL")

	ok, _ = m.Buy("AAPL", 10, 100, ts)
	require.True(t, ok)

	ok, msg = m.ClosePosition("AAPL", 110, ts)
	require.True(t, ok, msg)
	assert.Equal(t, 0, m.NumPositions())
}

func TestCloseAllPositions(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 1.0, 0)
	_, _ = m.Buy("AAPL", 10, 100, ts)
	_, _ = m.Buy("GOOGL", 10, 140, ts)
	_, _ = m.Buy("TSLA", 10, 250, ts)

	results := m.CloseAllPositions(map[string]float64{
		"AAPL":  110,
		"GOOGL": 150,
	}, ts)

	require.Len(t, results, 3)
	assert.Contains(t, results[0], "sold 10 shares of AAPL")
	assert.Contains(t, results[1], "sold 10 shares of GOOGL")
	assert.Contains(t, results[2], "no price provided for TSLA, skipping")

	assert.Equal(t, 1, m.NumPositions())
	_, held := m.Position("TSLA")
	assert.True(t, held)
}

func TestDerivedAccessors(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 1.0, 0)
	assert.Equal(t, 100_000.0, m.PortfolioValue())
	assert.Equal(t, 0.0, m.TotalPNL())
	assert.Equal(t, 0.0, m.TotalPNLPct())

	_, _ = m.Buy("AAPL", 100, 100, ts)
	m.UpdatePrices(map[string]float64{"AAPL": 105})

	assert.InDelta(t, 10_500.0, m.PositionsValue(), 1e-9)
	assert.InDelta(t, m.Cash()+m.PositionsValue(), m.PortfolioValue(), 1e-9)
	assert.InDelta(t, 500.0, m.UnrealizedPNL(), 1e-9)
	assert.InDelta(t, 500.0, m.TotalPNL(), 1e-9)
	assert.InDelta(t, 0.5, m.TotalPNLPct(), 1e-9)
}

func TestTotalPNLPctZeroInitialCash(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 0, 1.0, 0)
	assert.Equal(t, 0.0, m.TotalPNLPct())
}

func TestSummary(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, 100_000, 1.0, 0)
	_, _ = m.Buy("AAPL", 100, 100, ts)
	_, _ = m.Sell("AAPL", 50, 110, ts)

	s := m.Summary()
	assert.Equal(t, 1, s.NumPositions)
	assert.Equal(t, 2, s.NumTransactions)
	assert.InDelta(t, 500.0, s.RealizedPNL, 1e-9)
	assert.InDelta(t, m.PortfolioValue(), s.PortfolioValue, 1e-9)
}
