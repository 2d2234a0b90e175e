package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantfold/daytrader/config"
)

var configOut string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write a default configuration file",
	Long: `Config writes a default run configuration to the given path. The
format follows the file extension: .yaml/.yml for YAML, anything else JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if err := cfg.SaveToFile(configOut); err != nil {
			return err
		}
		fmt.Printf("wrote default config to %s\n", configOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVarP(&configOut, "out", "o", "daytrader.yaml", "output path")
}
