package strategies

import "github.com/quantfold/daytrader/market"

// Noop never trades. Useful as a baseline and in tests.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) OnStart(market.Bars) {}

func (Noop) OnData(market.Bar, View) []Intent { return nil }

func (Noop) OnFinish(View) {}
