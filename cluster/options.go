package cluster

import (
	"runtime"

	errors "github.com/go-sif/redact/errors"
)

// LocalOptions are options for a LocalCluster
type LocalOptions struct {
	NumWorkers int // the number of Workers to run tasks on. Defaults to the number of CPUs when 0.
}

// CloneLocalOptions makes a copy of a LocalOptions
func CloneLocalOptions(opts *LocalOptions) *LocalOptions {
	return &LocalOptions{
		NumWorkers: opts.NumWorkers,
	}
}

func ensureDefaultLocalOptionsValues(opts *LocalOptions) error {
	if opts.NumWorkers < 0 {
		return errors.InvalidWorkerCountError{Count: opts.NumWorkers}
	}
	// default certain options if not supplied
	if opts.NumWorkers == 0 {
		opts.NumWorkers = runtime.NumCPU()
	}
	return nil
}
