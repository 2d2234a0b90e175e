package main

import (
	"os"

	"github.com/quantfold/daytrader/cmd/daytrader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
