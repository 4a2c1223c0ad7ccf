package redact

// MapOperation - A generic function for manipulating Rows in-place
type MapOperation func(row Row) error

// ColumnOperation - A generic function for computing the value of a new column from a Row
type ColumnOperation func(row Row) (value string, isNil bool, err error)

// RelationOperationResult is the result of a RelationOperation
type RelationOperationResult struct {
	Task       Task
	DataSchema Schema
}

// A RelationOperation - A generic Relation transform, returning a Task that performs the "work" and a (potentially) altered Schema.
type RelationOperation struct {
	TaskType TaskType
	Do       func(r Relation, current Schema) (*RelationOperationResult, error)
}
