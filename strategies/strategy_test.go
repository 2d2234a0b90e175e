package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/daytrader/market"
	"github.com/quantfold/daytrader/portfolio"
)

// stubView is a canned read-only portfolio for driving strategies directly.
type stubView struct {
	cash      float64
	positions map[string]portfolio.Position
}

func (v stubView) Cash() float64           { return v.cash }
func (v stubView) PortfolioValue() float64 { return v.cash }

func (v stubView) Position(symbol string) (portfolio.Position, bool) {
	p, ok := v.positions[symbol]
	return p, ok
}

func (v stubView) Positions() []portfolio.Position {
	out := make([]portfolio.Position, 0, len(v.positions))
	for _, p := range v.positions {
		out = append(out, p)
	}
	return out
}

func flatView(cash float64) stubView {
	return stubView{cash: cash}
}

func heldView(cash float64, pos portfolio.Position) stubView {
	return stubView{cash: cash, positions: map[string]portfolio.Position{pos.Symbol: pos}}
}

func barAt(i int, close float64) market.Bar {
	start := time.Date(2024, 1, 2, 21, 0, 0, 0, time.UTC)
	return market.Bar{Time: start.AddDate(0, 0, i), Symbol: "AAPL", Close: close}
}

func feed(s Strategy, view View, closes ...float64) []Intent {
	var last []Intent
	for i, c := range closes {
		last = s.OnData(barAt(i, c), view)
	}
	return last
}

func TestShares(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 95.0, shares(10_000, 0.95, 100))
	assert.Equal(t, 0.0, shares(50, 1.0, 100))
	assert.Equal(t, 0.0, shares(10_000, 1.0, 0))
}

func TestBuyAndHoldBuysOnce(t *testing.T) {
	t.Parallel()

	s := NewBuyAndHold("AAPL", 1.0)
	view := flatView(10_000)

	intents := s.OnData(barAt(0, 100), view)
	require.Len(t, intents, 1)
	assert.Equal(t, market.Buy, intents[0].Side)
	assert.Equal(t, 100.0, intents[0].Quantity)
	assert.Equal(t, 100.0, intents[0].Price)
	assert.Equal(t, "initial buy and hold", intents[0].Reason)

	assert.Empty(t, s.OnData(barAt(1, 110), view))
}

func TestBuyAndHoldSkipsUnaffordable(t *testing.T) {
	t.Parallel()

	s := NewBuyAndHold("AAPL", 1.0)

	assert.Empty(t, s.OnData(barAt(0, 100), flatView(50)))
	// Still unbought; buys once cash allows.
	intents := s.OnData(barAt(1, 40), flatView(50))
	require.Len(t, intents, 1)
	assert.Equal(t, 1.0, intents[0].Quantity)
}

func TestSMACrossSignals(t *testing.T) {
	t.Parallel()

	t.Run("buy on upward crossover", func(t *testing.T) {
		t.Parallel()

		s := NewSMACross("AAPL", 2, 3, 1.0)
		intents := feed(s, flatView(10_000), 10, 10, 10, 20)
		require.Len(t, intents, 1)
		assert.Equal(t, market.Buy, intents[0].Side)
		assert.Contains(t, intents[0].Reason, "buy signal")
	})

	t.Run("sell on downward crossover", func(t *testing.T) {
		t.Parallel()

		s := NewSMACross("AAPL", 2, 3, 1.0)
		view := heldView(0, portfolio.Position{Symbol: "AAPL", Quantity: 500, AveragePrice: 10})
		intents := feed(s, view, 10, 10, 10, 20, 1, 1)
		require.Len(t, intents, 1)
		assert.Equal(t, market.Sell, intents[0].Side)
		assert.Equal(t, 500.0, intents[0].Quantity)
		assert.Contains(t, intents[0].Reason, "sell signal")
	})

	t.Run("no signal before long window fills", func(t *testing.T) {
		t.Parallel()

		s := NewSMACross("AAPL", 2, 3, 1.0)
		assert.Empty(t, feed(s, flatView(10_000), 10, 11, 12))
	})

	t.Run("warmup primes the window", func(t *testing.T) {
		t.Parallel()

		s := NewSMACross("AAPL", 2, 3, 1.0)
		s.OnStart(market.Bars{barAt(0, 10), barAt(1, 10), barAt(2, 10)})
		intents := s.OnData(barAt(3, 20), flatView(10_000))
		require.Len(t, intents, 1)
		assert.Equal(t, market.Buy, intents[0].Side)
	})
}

func TestRSISignals(t *testing.T) {
	t.Parallel()

	t.Run("buy when oversold", func(t *testing.T) {
		t.Parallel()

		s := NewRSI("AAPL", 3, 30, 70, 1.0)
		// Strictly falling prices drive RSI to 0.
		intents := feed(s, flatView(10_000), 100, 95, 90, 85)
		require.Len(t, intents, 1)
		assert.Equal(t, market.Buy, intents[0].Side)
		assert.Contains(t, intents[0].Reason, "RSI oversold")
	})

	t.Run("sell when overbought", func(t *testing.T) {
		t.Parallel()

		s := NewRSI("AAPL", 3, 30, 70, 1.0)
		view := heldView(0, portfolio.Position{Symbol: "AAPL", Quantity: 50, AveragePrice: 100})
		// Strictly rising prices drive RSI to 100.
		intents := feed(s, view, 100, 105, 110, 115)
		require.Len(t, intents, 1)
		assert.Equal(t, market.Sell, intents[0].Side)
		assert.Equal(t, 50.0, intents[0].Quantity)
	})

	t.Run("no signal before period fills", func(t *testing.T) {
		t.Parallel()

		s := NewRSI("AAPL", 3, 30, 70, 1.0)
		assert.Empty(t, feed(s, flatView(10_000), 100, 95, 90))
	})
}

func TestMomentumSignals(t *testing.T) {
	t.Parallel()

	t.Run("buy on positive momentum", func(t *testing.T) {
		t.Parallel()

		s := NewMomentum("AAPL", 2, 1.0)
		intents := feed(s, flatView(10_000), 100, 101, 105)
		require.Len(t, intents, 1)
		assert.Equal(t, market.Buy, intents[0].Side)
		assert.Contains(t, intents[0].Reason, "positive momentum")
	})

	t.Run("sell on negative momentum", func(t *testing.T) {
		t.Parallel()

		s := NewMomentum("AAPL", 2, 1.0)
		view := heldView(0, portfolio.Position{Symbol: "AAPL", Quantity: 25, AveragePrice: 100})
		intents := feed(s, view, 100, 99, 95)
		require.Len(t, intents, 1)
		assert.Equal(t, market.Sell, intents[0].Side)
		assert.Equal(t, 25.0, intents[0].Quantity)
	})

	t.Run("holds without momentum", func(t *testing.T) {
		t.Parallel()

		s := NewMomentum("AAPL", 2, 1.0)
		assert.Empty(t, feed(s, flatView(10_000), 100, 105, 100))
	})
}

func TestNoopNeverTrades(t *testing.T) {
	t.Parallel()

	s := Noop{}
	assert.Empty(t, feed(s, flatView(10_000), 100, 200, 50))
}

func TestNewByName(t *testing.T) {
	t.Parallel()

	p := Params{
		Symbol: "AAPL", PositionSize: 0.95,
		ShortWindow: 20, LongWindow: 50,
		Period: 14, Oversold: 30, Overbought: 70,
		Lookback: 20,
	}

	cases := map[string]string{
		"noop":         "noop",
		"buy-and-hold": "buy-and-hold",
		"sma":          "sma(20/50)",
		"rsi":          "rsi(14)",
		"momentum":     "momentum(20)",
	}
	for name, want := range cases {
		s, err := New(name, p)
		require.NoError(t, err)
		assert.Equal(t, want, s.Name())
	}

	_, err := New("bogus", p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

// Each New call must return a fresh instance; strategy state is private to
// a run.
func TestNewReturnsFreshInstances(t *testing.T) {
	t.Parallel()

	p := Params{Symbol: "AAPL", PositionSize: 1.0}
	a, err := New("buy-and-hold", p)
	require.NoError(t, err)
	b, err := New("buy-and-hold", p)
	require.NoError(t, err)

	require.Len(t, a.OnData(barAt(0, 100), flatView(10_000)), 1)
	// b has not bought yet.
	require.Len(t, b.OnData(barAt(0, 100), flatView(10_000)), 1)
}
