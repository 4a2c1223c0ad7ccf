package cluster

import (
	"context"
	"fmt"
	"sync/atomic"

	errors "github.com/go-sif/redact/errors"
	iutil "github.com/go-sif/redact/internal/util"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// LocalCluster is an ExecutionContext which runs tasks on a bounded
// pool of goroutines within this process
type LocalCluster struct {
	opts       *LocalOptions
	numWorkers atomic.Int64
	stage      *semaphore.Weighted // held by a running stage, so that Resize waits for it to finish
}

// CreateLocalCluster creates a LocalCluster
func CreateLocalCluster(opts *LocalOptions) (*LocalCluster, error) {
	if opts == nil {
		opts = &LocalOptions{}
	}
	opts = CloneLocalOptions(opts)
	if err := ensureDefaultLocalOptionsValues(opts); err != nil {
		return nil, err
	}
	c := &LocalCluster{opts: opts, stage: semaphore.NewWeighted(1)}
	c.numWorkers.Store(int64(opts.NumWorkers))
	return c, nil
}

// NumWorkers returns the number of currently available workers
func (c *LocalCluster) NumWorkers() int {
	return int(c.numWorkers.Load())
}

// Resize changes the number of available workers, waiting for any running stage to finish first
func (c *LocalCluster) Resize(ctx context.Context, numWorkers int) error {
	if numWorkers < 1 {
		return errors.InvalidWorkerCountError{Count: numWorkers}
	}
	if err := c.stage.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.stage.Release(1)
	log.Debugf("Resizing local cluster from %d to %d workers", c.NumWorkers(), numWorkers)
	c.numWorkers.Store(int64(numWorkers))
	return nil
}

// Run executes numTasks independent tasks across the available workers, blocking until
// all have finished. The first error cancels the remaining tasks and is returned.
func (c *LocalCluster) Run(ctx context.Context, numTasks int, fn func(ctx context.Context, task int) error) error {
	if numTasks == 0 {
		return nil
	}
	if err := c.stage.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.stage.Release(1)
	numWorkers := c.NumWorkers()
	if numWorkers < 1 {
		return errors.InvalidWorkerCountError{Count: numWorkers}
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i := 0; i < numTasks; i++ {
		task := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return runSafely(gctx, task, fn)
		})
	}
	return g.Wait()
}

// runSafely runs a single task, turning panics into errors
func runSafely(ctx context.Context, task int, fn func(ctx context.Context, task int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("Task %d Panic: %v\n%s", task, r, iutil.GetTrace())
		}
	}()
	return fn(ctx, task)
}
