package relation

import (
	"context"

	"github.com/go-sif/redact"
)

// noOpTask is a task that does nothing
type noOpTask struct{}

// RunWorker for noOpTask does nothing
func (s *noOpTask) RunWorker(ctx context.Context, previous redact.OperablePartition) (redact.OperablePartition, error) {
	return previous, nil
}
