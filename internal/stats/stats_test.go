package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunStatistics(t *testing.T) {
	rs := &RunStatistics{}
	rs.Start()
	rs.StartStage()
	rs.EndStage(ReadStage, 1234567, 3)
	rs.StartStage()
	rs.EndStage(WriteStage, 1234567, 8)
	rs.Finish()

	require.Equal(t, int64(1234567), rs.GetNumRowsProcessed(ReadStage))
	require.Equal(t, int64(8), rs.GetNumPartitionsProcessed(WriteStage))
	require.Equal(t, int64(0), rs.GetNumRowsProcessed("missing"))
	_, ok := rs.GetStageRuntime(WriteStage)
	require.True(t, ok)
	_, ok = rs.GetStageRuntime("missing")
	require.False(t, ok)
	require.Equal(t, rs.GetRuntime(), rs.GetRuntime())
	require.Contains(t, rs.Summary(), "read: 1,234,567 rows, 3 partitions")
	require.Contains(t, rs.Summary(), "write: 1,234,567 rows, 8 partitions")
}
