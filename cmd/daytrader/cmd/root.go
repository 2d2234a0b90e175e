package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "daytrader",
	Short: "A backtesting engine with strict portfolio accounting",
	Long: `Daytrader replays historical OHLCV bars through pluggable trading
strategies and tracks the resulting portfolio with strict accounting rules.

It provides tools for:
  - Backtesting strategies against CSV bar data
  - Enforcing capital, risk, and inventory rules on every trade
  - Recording equity curves and trade logs to CSV or SQLite
  - Running parameter sweeps across independent configurations`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
