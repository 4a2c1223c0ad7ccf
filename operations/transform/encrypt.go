package transform

import (
	"context"
	"fmt"

	"github.com/go-sif/redact"
	"github.com/go-sif/redact/digest"
	errors "github.com/go-sif/redact/errors"
	"github.com/samber/lo"
)

// EncryptedPrefix is prepended to the name of a column to name its digest column
const EncryptedPrefix = "encrypted_"

// EncryptedName returns the name of the column holding the digest of colName
func EncryptedName(colName string) string {
	return EncryptedPrefix + colName
}

// chainTask runs several Tasks against a Partition, one after another
type chainTask struct {
	tasks []redact.Task
}

func (s *chainTask) RunWorker(ctx context.Context, previous redact.OperablePartition) (redact.OperablePartition, error) {
	part := previous
	for _, task := range s.tasks {
		var err error
		part, err = task.RunWorker(ctx, part)
		if err != nil {
			return nil, err
		}
	}
	return part, nil
}

// digestColumn computes the digest of a column. Nil cells are digested as nilText.
func digestColumn(colName string, nilText string) redact.ColumnOperation {
	return func(row redact.Row) (string, bool, error) {
		if row.IsNil(colName) {
			return digest.Digest(nilText), false, nil
		}
		val, err := row.GetString(colName)
		if err != nil {
			return "", false, err
		}
		return digest.Digest(val), false, nil
	}
}

// EncryptColumns replaces each of the given columns with an "encrypted_" column
// holding the SHA-256 digest of its value. Retained columns keep their relative
// order, followed by the encrypted columns in the order requested.
// Nil cells are digested as the empty string.
func EncryptColumns(colNames ...string) *redact.RelationOperation {
	return EncryptColumnsWithNilText("", colNames...)
}

// EncryptColumnsWithNilText is EncryptColumns, digesting nil cells as nilText
func EncryptColumnsWithNilText(nilText string, colNames ...string) *redact.RelationOperation {
	steps := lo.Map(colNames, func(colName string, _ int) *redact.RelationOperation {
		return WithColumn(EncryptedName(colName), digestColumn(colName, nilText))
	})
	steps = append(steps, RemoveColumn(colNames...))
	return &redact.RelationOperation{
		TaskType: redact.WithColumnTaskType,
		Do: func(r redact.Relation, current redact.Schema) (*redact.RelationOperationResult, error) {
			if len(colNames) == 0 {
				return nil, fmt.Errorf("no columns to encrypt")
			}
			if dups := lo.FindDuplicates(colNames); len(dups) > 0 {
				return nil, errors.DuplicateColumnError{Name: dups[0]}
			}
			for _, colName := range colNames {
				if _, err := current.GetOffset(colName); err != nil {
					return nil, err
				}
			}
			next := current
			tasks := make([]redact.Task, 0, len(steps))
			for _, step := range steps {
				result, err := step.Do(r, next)
				if err != nil {
					return nil, err
				}
				tasks = append(tasks, result.Task)
				next = result.DataSchema
			}
			return &redact.RelationOperationResult{
				Task:       &chainTask{tasks},
				DataSchema: next,
			}, nil
		},
	}
}
