package redact

// PartitionIterator is a generalized interface for iterating over Partitions, regardless of where they come from
type PartitionIterator interface {
	HasNextPartition() bool
	NextPartition() (Partition, error)
	Schema() Schema // Schema returns the Schema of the Partitions produced by this iterator
	OnEnd(onEnd func())
}
