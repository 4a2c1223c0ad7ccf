package transform

import (
	"context"

	"github.com/go-sif/redact"
	iutil "github.com/go-sif/redact/internal/util"
)

type withColumnTask struct {
	colName   string
	newSchema redact.Schema
	fn        redact.ColumnOperation
}

func (s *withColumnTask) RunWorker(ctx context.Context, previous redact.OperablePartition) (redact.OperablePartition, error) {
	if err := previous.UpdateCurrentSchema(s.newSchema); err != nil {
		return nil, err
	}
	return previous.MapRows(func(row redact.Row) error {
		val, isNil, err := s.fn(row)
		if err != nil {
			return err
		}
		if isNil {
			return row.SetNil(s.colName)
		}
		return row.SetString(s.colName, val)
	})
}

// WithColumn appends a new column to the end of the Schema, computing
// its value for every Row from the Row's existing columns
func WithColumn(colName string, fn redact.ColumnOperation) *redact.RelationOperation {
	return &redact.RelationOperation{
		TaskType: redact.WithColumnTaskType,
		Do: func(r redact.Relation, current redact.Schema) (*redact.RelationOperationResult, error) {
			newSchema, err := current.CreateColumn(colName)
			if err != nil {
				return nil, err
			}
			return &redact.RelationOperationResult{
				Task: &withColumnTask{
					colName:   colName,
					newSchema: newSchema,
					fn:        iutil.SafeColumnOperation(fn),
				},
				DataSchema: newSchema,
			}, nil
		},
	}
}
