package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quantfold/daytrader/backtest"
	"github.com/quantfold/daytrader/config"
	"github.com/quantfold/daytrader/journal"
	"github.com/quantfold/daytrader/market"
	"github.com/quantfold/daytrader/strategies"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a backtest over a CSV bar series",
	Long: `Backtest replays historical bars through a strategy and reports
performance metrics.

Supported strategies:
  - noop: does nothing (baseline)
  - buy-and-hold: buys on the first bar, holds to the end
  - sma: simple moving average crossover
  - rsi: RSI mean reversion
  - momentum: lookback momentum

Example:
  daytrader backtest --bars data/aapl.csv --symbol AAPL --strategy sma --short 20 --long 50`,
	RunE: runBacktest,
}

var (
	btConfigPath string
	btBarsPath   string
	btSymbol     string
	btCapital    float64
	btCommission float64
	btMaxPos     float64
	btWarmup     int

	btStrategy   string
	btSize       float64
	btShort      int
	btLong       int
	btPeriod     int
	btOversold   float64
	btOverbought float64
	btLookback   int

	btJournalDB  string
	btJournalDir string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "config file (YAML or JSON); flags override nothing when set")
	backtestCmd.Flags().StringVar(&btBarsPath, "bars", "", "path to bar CSV (time,open,high,low,close[,volume])")
	backtestCmd.Flags().StringVar(&btSymbol, "symbol", "AAPL", "traded symbol")
	backtestCmd.Flags().Float64Var(&btCapital, "capital", 100_000, "initial capital")
	backtestCmd.Flags().Float64Var(&btCommission, "commission", 0, "commission per trade")
	backtestCmd.Flags().Float64Var(&btMaxPos, "max-position", 0.25, "max position size as fraction of portfolio")
	backtestCmd.Flags().IntVar(&btWarmup, "warmup", 0, "warmup bars fed to the strategy before replay")

	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "sma", "strategy name (noop, buy-and-hold, sma, rsi, momentum)")
	backtestCmd.Flags().Float64Var(&btSize, "size", 0.95, "fraction of cash to invest per entry")
	backtestCmd.Flags().IntVar(&btShort, "short", 20, "sma: short window")
	backtestCmd.Flags().IntVar(&btLong, "long", 50, "sma: long window")
	backtestCmd.Flags().IntVar(&btPeriod, "period", 14, "rsi: period")
	backtestCmd.Flags().Float64Var(&btOversold, "oversold", 30, "rsi: oversold level")
	backtestCmd.Flags().Float64Var(&btOverbought, "overbought", 70, "rsi: overbought level")
	backtestCmd.Flags().IntVar(&btLookback, "lookback", 20, "momentum: lookback window")

	backtestCmd.Flags().StringVar(&btJournalDB, "journal-db", "", "record run output to this SQLite database")
	backtestCmd.Flags().StringVar(&btJournalDir, "journal-dir", "", "record run output as CSV files in this directory")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := backtestConfig()
	if err != nil {
		return err
	}

	bars, err := market.LoadCSV(cfg.Data.BarsFile, cfg.Data.Symbol)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("no bars in %s", cfg.Data.BarsFile)
	}

	strat, err := strategies.New(cfg.Strategy.Name, strategyParams(cfg))
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	logrus.Infof("running %s over %d bars of %s", strat.Name(), len(bars), cfg.Data.Symbol)

	engine := backtest.NewEngine(backtest.Config{
		InitialCapital:      cfg.Run.InitialCapital,
		CommissionPerTrade:  cfg.Run.CommissionPerTrade,
		MaxPositionFraction: cfg.Run.MaxPositionFraction,
		WarmupPeriod:        cfg.Run.WarmupPeriod,
	})

	result, err := engine.Run(strat, bars, cfg.Data.Symbol)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	result.PrintSummary(os.Stdout)

	return journalResult(cfg, result)
}

func backtestConfig() (*config.Config, error) {
	if btConfigPath != "" {
		return config.LoadFromFile(btConfigPath)
	}

	cfg := config.Default()
	cfg.Run = config.RunConfig{
		InitialCapital:      btCapital,
		CommissionPerTrade:  btCommission,
		MaxPositionFraction: btMaxPos,
		WarmupPeriod:        btWarmup,
	}
	cfg.Data = config.DataConfig{BarsFile: btBarsPath, Symbol: btSymbol}
	cfg.Strategy = config.StrategyConfig{
		Name:         btStrategy,
		PositionSize: btSize,
		ShortWindow:  btShort,
		LongWindow:   btLong,
		Period:       btPeriod,
		Oversold:     btOversold,
		Overbought:   btOverbought,
		Lookback:     btLookback,
	}
	switch {
	case btJournalDB != "":
		cfg.Journal = config.JournalConfig{Type: "sqlite", DBPath: btJournalDB}
	case btJournalDir != "":
		cfg.Journal = config.JournalConfig{Type: "csv", Dir: btJournalDir}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func strategyParams(cfg *config.Config) strategies.Params {
	return strategies.Params{
		Symbol:       cfg.Data.Symbol,
		PositionSize: cfg.Strategy.PositionSize,
		ShortWindow:  cfg.Strategy.ShortWindow,
		LongWindow:   cfg.Strategy.LongWindow,
		Period:       cfg.Strategy.Period,
		Oversold:     cfg.Strategy.Oversold,
		Overbought:   cfg.Strategy.Overbought,
		Lookback:     cfg.Strategy.Lookback,
	}
}

func journalResult(cfg *config.Config, result *backtest.Result) error {
	var j journal.Journal

	switch cfg.Journal.Type {
	case "", "none":
		return nil
	case "sqlite":
		sq, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		j = sq
	case "csv":
		cw, err := journal.NewCSV(cfg.Journal.Dir)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		j = cw
	}
	defer j.Close()

	runID, err := journal.WriteResult(j, result)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	logrus.Infof("journaled run %s", runID)
	return nil
}
