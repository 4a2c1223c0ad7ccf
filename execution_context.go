package redact

import "context"

// An ExecutionContext is the parallel-processing environment which
// reads, transforms and writes Partitions. NumWorkers is a live
// snapshot, and may change between calls.
type ExecutionContext interface {
	NumWorkers() int // NumWorkers returns the number of currently available workers
	// Run executes numTasks independent tasks across the available workers, blocking until
	// all have finished. The first error cancels the remaining tasks and is returned.
	Run(ctx context.Context, numTasks int, fn func(ctx context.Context, task int) error) error
}
