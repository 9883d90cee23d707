// Package batch runs one pipeline per input item, strictly sequentially.
// Each item's failure is caught and recorded so one bad item never aborts
// the rest; completed items keep their outputs.
package batch

import (
	"context"

	"skillkit/internal/logger"
)

// Result represents the outcome of one batch item.
type Result struct {
	// Key identifies the item, normally the pipeline fetcher key
	Key string

	// Target is where the item's output went, empty when the item failed
	Target string

	// Error contains any error that occurred while processing the item.
	// If Error is not nil, no output was written for the item.
	Error error
}

// ItemFunc processes a single batch item and reports its key, output target,
// and error.
type ItemFunc func(ctx context.Context, item string) Result

// Run processes items in order, one at a time. It stops early only when the
// context is cancelled; per-item failures are collected, not propagated.
func Run(ctx context.Context, items []string, fn ItemFunc) []Result {
	results := make([]Result, 0, len(items))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Key: item, Error: err})
			continue
		}

		result := fn(ctx, item)
		if result.Error != nil {
			logger.G(ctx).WithField("item", result.Key).WithError(result.Error).Warn("batch item failed")
		}
		results = append(results, result)
	}

	return results
}

// Failed filters the results down to the ones that errored.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Error != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
