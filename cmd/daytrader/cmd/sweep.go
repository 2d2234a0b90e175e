package cmd

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quantfold/daytrader/backtest"
	"github.com/quantfold/daytrader/market"
	"github.com/quantfold/daytrader/strategies"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evaluate SMA crossover parameter combinations in parallel",
	Long: `Sweep runs one independent backtest per short/long window pair on a
worker pool. Each run gets its own ledger and strategy instance; only whole
runs execute in parallel.

Example:
  daytrader sweep --bars data/aapl.csv --symbol AAPL --shorts 10,20,30 --longs 50,100`,
	RunE: runSweep,
}

var (
	swBarsPath   string
	swSymbol     string
	swCapital    float64
	swCommission float64
	swMaxPos     float64
	swSize       float64
	swShorts     []int
	swLongs      []int
	swWorkers    int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVar(&swBarsPath, "bars", "", "path to bar CSV (required)")
	sweepCmd.Flags().StringVar(&swSymbol, "symbol", "AAPL", "traded symbol")
	sweepCmd.Flags().Float64Var(&swCapital, "capital", 100_000, "initial capital")
	sweepCmd.Flags().Float64Var(&swCommission, "commission", 0, "commission per trade")
	sweepCmd.Flags().Float64Var(&swMaxPos, "max-position", 0.25, "max position size as fraction of portfolio")
	sweepCmd.Flags().Float64Var(&swSize, "size", 0.95, "fraction of cash to invest per entry")
	sweepCmd.Flags().IntSliceVar(&swShorts, "shorts", []int{10, 20, 30}, "short windows to try")
	sweepCmd.Flags().IntSliceVar(&swLongs, "longs", []int{50, 100}, "long windows to try")
	sweepCmd.Flags().IntVar(&swWorkers, "workers", runtime.NumCPU(), "parallel runs")

	sweepCmd.MarkFlagRequired("bars")
}

func runSweep(cmd *cobra.Command, args []string) error {
	bars, err := market.LoadCSV(swBarsPath, swSymbol)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("no bars in %s", swBarsPath)
	}

	cfg := backtest.Config{
		InitialCapital:      swCapital,
		CommissionPerTrade:  swCommission,
		MaxPositionFraction: swMaxPos,
	}

	var runs []backtest.SweepRun
	for _, short := range swShorts {
		for _, long := range swLongs {
			if short >= long {
				continue
			}
			short, long := short, long
			runs = append(runs, backtest.SweepRun{
				Name:   fmt.Sprintf("sma(%d/%d)", short, long),
				Config: cfg,
				NewStrategy: func() strategies.Strategy {
					return strategies.NewSMACross(swSymbol, short, long, swSize)
				},
			})
		}
	}
	if len(runs) == 0 {
		return fmt.Errorf("no valid short/long combinations")
	}

	logrus.Infof("sweeping %d runs over %d bars with %d workers", len(runs), len(bars), swWorkers)
	results := backtest.Sweep(runs, bars, swSymbol, swWorkers)

	fmt.Printf("%-14s %12s %10s %10s %8s %8s\n",
		"strategy", "final", "return%", "maxDD%", "sharpe", "trades")
	for _, sr := range results {
		if sr.Err != nil {
			fmt.Printf("%-14s failed: %v\n", sr.Name, sr.Err)
			continue
		}
		r := sr.Result
		fmt.Printf("%-14s %12.2f %10.2f %10.2f %8.2f %8d\n",
			sr.Name, r.FinalValue, r.TotalReturnPct(), r.MaxDrawdown(),
			r.SharpeRatio(), r.NumTrades())
	}

	return nil
}
