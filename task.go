package redact

import "context"

// A Task is an action or transformation applied
// to Partitions of data.
type Task interface {
	RunWorker(ctx context.Context, previous OperablePartition) (OperablePartition, error)
}
