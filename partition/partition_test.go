package partition

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/go-sif/redact"
	errors "github.com/go-sif/redact/errors"
	"github.com/go-sif/redact/schema"
	"github.com/stretchr/testify/require"
)

func buildPartitions(t *testing.T, sizes ...int) []redact.Partition {
	s, err := schema.CreateSchemaFromNames("id")
	require.Nil(t, err)
	parts := make([]redact.Partition, 0, len(sizes))
	id := 0
	for _, size := range sizes {
		part := CreateBuildablePartition(size+1, s)
		for i := 0; i < size; i++ {
			require.Nil(t, part.AppendRowData([]string{fmt.Sprint(id)}))
			id++
		}
		parts = append(parts, part)
	}
	return parts
}

func collectIDs(t *testing.T, shards []*Shard) []string {
	var ids []string
	for _, shard := range shards {
		err := shard.ForEachRow(func(row redact.Row) error {
			id, err := row.GetString("id")
			ids = append(ids, id)
			return err
		})
		require.Nil(t, err)
	}
	return ids
}

func TestPlanPartitions(t *testing.T) {
	for _, workers := range []int{1, 2, 7, 64} {
		n, err := PlanPartitions(workers)
		require.Nil(t, err)
		require.Equal(t, workers*4, n)
	}
	for _, workers := range []int{0, -3} {
		_, err := PlanPartitions(workers)
		var confErr *errors.ConfigurationError
		require.True(t, goerrors.As(err, &confErr))
		var countErr errors.InvalidWorkerCountError
		require.True(t, goerrors.As(err, &countErr))
		require.Equal(t, workers, countErr.Count)
	}
}

func TestCoalesceBalanced(t *testing.T) {
	parts := buildPartitions(t, 3, 0, 7, 2)
	shards, err := Coalesce(parts, 4)
	require.Nil(t, err)
	require.Len(t, shards, 4)
	sizes := make([]int, len(shards))
	for i, shard := range shards {
		sizes[i] = shard.NumRows()
		require.Equal(t, i, shard.Index)
	}
	require.Equal(t, []int{3, 3, 3, 3}, sizes)

	ids := collectIDs(t, shards)
	expected := make([]string, 12)
	for i := range expected {
		expected[i] = fmt.Sprint(i)
	}
	require.Equal(t, expected, ids)
}

func TestCoalesceFewerRowsThanShards(t *testing.T) {
	parts := buildPartitions(t, 1, 2)
	shards, err := Coalesce(parts, 8)
	require.Nil(t, err)
	require.Len(t, shards, 3)
	for _, shard := range shards {
		require.Equal(t, 1, shard.NumRows())
	}
	require.Equal(t, []string{"0", "1", "2"}, collectIDs(t, shards))
}

func TestCoalesceUneven(t *testing.T) {
	parts := buildPartitions(t, 10)
	shards, err := Coalesce(parts, 4)
	require.Nil(t, err)
	sizes := []int{}
	for _, shard := range shards {
		sizes = append(sizes, shard.NumRows())
	}
	require.Equal(t, []int{3, 3, 2, 2}, sizes)
}

func TestCoalesceEmpty(t *testing.T) {
	shards, err := Coalesce(buildPartitions(t, 0, 0), 4)
	require.Nil(t, err)
	require.Len(t, shards, 0)

	_, err = Coalesce(nil, 0)
	require.NotNil(t, err)
}
