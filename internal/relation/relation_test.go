package relation

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-sif/redact"
	"github.com/go-sif/redact/cluster"
	"github.com/go-sif/redact/internal/partition"
	"github.com/go-sif/redact/schema"
	"github.com/stretchr/testify/require"
)

type upperTask struct {
	col string
}

func (s *upperTask) RunWorker(ctx context.Context, previous redact.OperablePartition) (redact.OperablePartition, error) {
	return previous.MapRows(func(row redact.Row) error {
		val, err := row.GetString(s.col)
		if err != nil {
			return err
		}
		return row.SetString(s.col, val+"!")
	})
}

func upper(col string) *redact.RelationOperation {
	return &redact.RelationOperation{
		TaskType: redact.MapTaskType,
		Do: func(r redact.Relation, current redact.Schema) (*redact.RelationOperationResult, error) {
			if !current.HasColumn(col) {
				return nil, fmt.Errorf("missing %s", col)
			}
			return &redact.RelationOperationResult{Task: &upperTask{col}, DataSchema: current}, nil
		},
	}
}

func createTestRelation(t *testing.T, numParts int, rowsPerPart int) redact.Relation {
	s, err := schema.CreateSchemaFromNames("name")
	require.Nil(t, err)
	parts := make([]redact.Partition, numParts)
	for i := range parts {
		part := partition.CreateBuildablePartition(rowsPerPart, s)
		for j := 0; j < rowsPerPart; j++ {
			require.Nil(t, part.AppendRowData([]string{fmt.Sprintf("%d-%d", i, j)}))
		}
		parts[i] = part
	}
	return CreateRelation(s, parts)
}

func TestEvaluateIsRepeatable(t *testing.T) {
	exec, err := cluster.CreateLocalCluster(&cluster.LocalOptions{NumWorkers: 2})
	require.Nil(t, err)
	r := createTestRelation(t, 5, 3)
	next, err := r.To(upper("name"), upper("name"))
	require.Nil(t, err)
	require.Equal(t, 5, next.NumPartitions())

	for attempt := 0; attempt < 2; attempt++ {
		parts, err := next.Evaluate(context.Background(), exec)
		require.Nil(t, err)
		require.Len(t, parts, 5)
		for i, part := range parts {
			require.Equal(t, 3, part.GetNumRows())
			val, err := part.GetRow(0).GetString("name")
			require.Nil(t, err)
			require.Equal(t, fmt.Sprintf("%d-0!!", i), val)
		}
	}

	// the parent is unaffected
	parts, err := r.Evaluate(context.Background(), exec)
	require.Nil(t, err)
	val, err := parts[4].GetRow(2).GetString("name")
	require.Nil(t, err)
	require.Equal(t, "4-2", val)
}

func TestToSurfacesSchemaErrors(t *testing.T) {
	r := createTestRelation(t, 1, 1)
	_, err := r.To(upper("name"), upper("address"))
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "missing address")
}

func TestEvaluateEmptyRelation(t *testing.T) {
	exec, err := cluster.CreateLocalCluster(&cluster.LocalOptions{NumWorkers: 1})
	require.Nil(t, err)
	s, err := schema.CreateSchemaFromNames("name")
	require.Nil(t, err)
	parts, err := CreateRelation(s, nil).Evaluate(context.Background(), exec)
	require.Nil(t, err)
	require.Len(t, parts, 0)
}
