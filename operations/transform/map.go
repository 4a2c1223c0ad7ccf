package transform

import (
	"context"

	"github.com/go-sif/redact"
	iutil "github.com/go-sif/redact/internal/util"
)

type mapTask struct {
	fn redact.MapOperation
}

func (s *mapTask) RunWorker(ctx context.Context, previous redact.OperablePartition) (redact.OperablePartition, error) {
	return previous.MapRows(s.fn)
}

// Map transforms a Row in-place
func Map(fn redact.MapOperation) *redact.RelationOperation {
	return &redact.RelationOperation{
		TaskType: redact.MapTaskType,
		Do: func(r redact.Relation, current redact.Schema) (*redact.RelationOperationResult, error) {
			return &redact.RelationOperationResult{
				Task:       &mapTask{fn: iutil.SafeMapOperation(fn)},
				DataSchema: current.Clone(),
			}, nil
		},
	}
}
