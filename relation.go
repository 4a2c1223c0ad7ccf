package redact

import "context"

// A Relation is an ordered sequence of Rows over a shared, ordered set of
// text columns, along with a chain of transformations which will be applied
// to it. Relations are values: To produces a new Relation.
type Relation interface {
	GetSchema() Schema                                                        // GetSchema returns the Schema of a Relation, after all of its transformations
	NumPartitions() int                                                       // NumPartitions returns the number of source Partitions in this Relation
	NumRows() int                                                             // NumRows returns the number of Rows in the source Partitions of this Relation
	To(ops ...*RelationOperation) (Relation, error)                           // To is a "functional operations" factory method for Relations, chaining operations onto the current one
	Evaluate(ctx context.Context, exec ExecutionContext) ([]Partition, error) // Evaluate applies all transformations in parallel, returning the resulting Partitions in order
}
