package transform

import (
	"context"

	"github.com/go-sif/redact"
)

// repackTask lays rows out according to a compacted Schema
type repackTask struct {
	newSchema redact.Schema
}

func (s *repackTask) RunWorker(ctx context.Context, previous redact.OperablePartition) (redact.OperablePartition, error) {
	return previous.Repack(s.newSchema)
}

// RemoveColumn removes existing columns, preserving the relative order of the rest
func RemoveColumn(oldNames ...string) *redact.RelationOperation {
	return &redact.RelationOperation{
		TaskType: redact.RepackTaskType,
		Do: func(r redact.Relation, current redact.Schema) (*redact.RelationOperationResult, error) {
			newSchema := current
			for _, oldName := range oldNames {
				var err error
				newSchema, err = newSchema.RemoveColumn(oldName)
				if err != nil {
					return nil, err
				}
			}
			repacked := newSchema.Repack()
			return &redact.RelationOperationResult{
				Task:       &repackTask{repacked},
				DataSchema: repacked,
			}, nil
		},
	}
}
