package partition

import (
	"fmt"

	"github.com/go-sif/redact"
)

// A Segment is a contiguous run of rows [Start, End) within a Partition
type Segment struct {
	Partition redact.Partition
	Start     int
	End       int
}

// A Shard is a contiguous run of rows drawn from one or more Partitions, in order,
// which will be written as a single output file
type Shard struct {
	Index    int
	Segments []Segment
}

// NumRows returns the number of rows in this Shard
func (s *Shard) NumRows() int {
	n := 0
	for _, seg := range s.Segments {
		n += seg.End - seg.Start
	}
	return n
}

// ForEachRow iterates over the rows of this Shard, in order
func (s *Shard) ForEachRow(fn redact.MapOperation) error {
	for _, seg := range s.Segments {
		for i := seg.Start; i < seg.End; i++ {
			if err := fn(seg.Partition.GetRow(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Coalesce splits the rows of the given Partitions into at most n contiguous,
// disjoint Shards of balanced size. Every row belongs to exactly one Shard, and
// row order is preserved. Fewer than n Shards are produced when there are fewer
// than n rows.
func Coalesce(parts []redact.Partition, n int) ([]*Shard, error) {
	if n < 1 {
		return nil, fmt.Errorf("cannot coalesce into %d shards", n)
	}
	total := 0
	for _, part := range parts {
		total += part.GetNumRows()
	}
	numShards := n
	if total < numShards {
		numShards = total
	}
	shards := make([]*Shard, 0, numShards)
	if numShards == 0 {
		return shards, nil
	}
	base, extra := total/numShards, total%numShards
	partIdx, rowIdx := 0, 0
	for i := 0; i < numShards; i++ {
		want := base
		if i < extra {
			want++
		}
		shard := &Shard{Index: i}
		for want > 0 {
			part := parts[partIdx]
			available := part.GetNumRows() - rowIdx
			if available == 0 {
				partIdx++
				rowIdx = 0
				continue
			}
			take := want
			if available < take {
				take = available
			}
			shard.Segments = append(shard.Segments, Segment{Partition: part, Start: rowIdx, End: rowIdx + take})
			rowIdx += take
			want -= take
		}
		shards = append(shards, shard)
	}
	return shards, nil
}
