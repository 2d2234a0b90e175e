package strategies

import (
	"fmt"
	"strings"
)

// Params collects the tunables shared by the built-in strategies. Fields not
// used by a given strategy are ignored.
type Params struct {
	Symbol       string
	PositionSize float64

	ShortWindow int // sma
	LongWindow  int // sma
	Period      int // rsi
	Oversold    float64
	Overbought  float64
	Lookback    int // momentum
}

// New constructs a fresh built-in strategy by name. Each call returns a new
// instance so concurrent runs never share strategy state.
func New(name string, p Params) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "buy-and-hold", "buyhold":
		return NewBuyAndHold(p.Symbol, p.PositionSize), nil

	case "sma", "sma-cross":
		return NewSMACross(p.Symbol, p.ShortWindow, p.LongWindow, p.PositionSize), nil

	case "rsi":
		return NewRSI(p.Symbol, p.Period, p.Oversold, p.Overbought, p.PositionSize), nil

	case "momentum":
		return NewMomentum(p.Symbol, p.Lookback, p.PositionSize), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, buy-and-hold, sma, rsi, momentum)", name)
	}
}
