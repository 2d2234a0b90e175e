package backtest

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/quantfold/daytrader/market"
	"github.com/quantfold/daytrader/strategies"
)

// SweepRun is one independent run of a parameter sweep. NewStrategy must
// return a fresh strategy instance on every call; instances are stateful
// and are never shared across runs.
type SweepRun struct {
	Name        string
	Config      Config
	NewStrategy func() strategies.Strategy
}

// SweepResult pairs a run with its outcome.
type SweepResult struct {
	Name   string
	Result *Result
	Err    error
}

// Sweep evaluates independent run configurations concurrently on a worker
// pool. Parallelism only ever spans whole runs: each run gets its own
// ledger and strategy, and the bar-by-bar replay inside a run stays
// strictly sequential. Results come back in input order.
func Sweep(runs []SweepRun, bars market.Bars, symbol string, workers int) []SweepResult {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(runs) {
		workers = len(runs)
	}

	results := make([]SweepResult, len(runs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				run := runs[i]
				res, err := NewEngine(run.Config).Run(run.NewStrategy(), bars, symbol)
				if err != nil {
					logrus.Warnf("sweep: run %q failed: %v", run.Name, err)
				}
				results[i] = SweepResult{Name: run.Name, Result: res, Err: err}
			}
		}()
	}

	for i := range runs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
