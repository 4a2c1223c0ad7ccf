package partition

import (
	errors "github.com/go-sif/redact/errors"
)

// ShardsPerWorker is the number of output shards planned for each available worker
const ShardsPerWorker = 4

// PlanPartitions returns the number of output shards to write for the given
// number of workers. It never plans zero shards.
func PlanPartitions(workerCount int) (int, error) {
	if workerCount < 1 {
		return 0, &errors.ConfigurationError{
			Reason: "cannot plan output partitions",
			Err:    errors.InvalidWorkerCountError{Count: workerCount},
		}
	}
	return workerCount * ShardsPerWorker, nil
}
