package redact

import (
	"context"
	"io"
)

// PartitionLoader is a description of how to load specific Partitions of data from a particular DataSource.
// DataSources implement this interface to implement data-loading logic. PartitionLoaders are spread across
// workers, so an assumption is made that each PartitionLoader will produce a roughly equal number of Partitions
type PartitionLoader interface {
	ToString() string                                                             // for logging
	Load(ctx context.Context, parser DataSourceParser) (PartitionIterator, error) // how to actually load data
}

// PartitionMap is an interface describing an iterator for PartitionLoaders.
// Returned by DataSource.Analyze(), a reader will iterate through
// PartitionLoaders and assign them to workers.
type PartitionMap interface {
	HasNext() bool
	Next() PartitionLoader
}

// DataSource is a source of data which will be manipulated according to transformations defined on a Relation.
// It represents information about how to load data from the source as Partitions.
type DataSource interface {
	Analyze(ctx context.Context) (PartitionMap, error)
}

// A DataSourceParser is capable of parsing raw data from a PartitionLoader to produce Partitions
type DataSourceParser interface {
	PartitionSize() int // returns the maximum size of Partitions produced by this DataSourceParser, in rows
	Parse(r io.Reader, onIteratorEnd func()) (PartitionIterator, error)
}
