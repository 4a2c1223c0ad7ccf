package errors

import (
	"fmt"
)

// NilValueError occurs when a value in a Row is null
type NilValueError struct{ Name string }

// Error returns a textual representation of this NilValueError
func (e NilValueError) Error() string {
	return fmt.Sprintf("Value for column %s is nil", e.Name)
}

// MissingColumnError occurs when a Schema does not contain a requested column
type MissingColumnError struct{ Name string }

// Error returns a textual representation of this MissingColumnError
func (e MissingColumnError) Error() string {
	return fmt.Sprintf("Schema does not contain column with name %s", e.Name)
}

// DuplicateColumnError occurs when a column is created with a name already present in a Schema
type DuplicateColumnError struct{ Name string }

// Error returns a textual representation of this DuplicateColumnError
func (e DuplicateColumnError) Error() string {
	return fmt.Sprintf("Schema already contains column with name %s", e.Name)
}

// IncompatibleRowError occurs when a Row's width does not match an expected Schema
type IncompatibleRowError struct {
	Expected int
	Actual   int
}

// Error returns a textual representation of this IncompatibleRowError
func (e IncompatibleRowError) Error() string {
	return fmt.Sprintf("Row width %d is not compatible with Schema width %d", e.Actual, e.Expected)
}

// PartitionFullError occurs when a Partition has reached its max size an a new Row insertion is attempted
type PartitionFullError struct{}

// Error returns a textual representation of this PartitionFullError
func (e PartitionFullError) Error() string {
	return "Partition is full"
}

// NoMorePartitionsError occurs when there are no more partitions in a PartitionIterator
type NoMorePartitionsError struct{}

// Error returns a textual representation of this NoMorePartitionsError
func (e NoMorePartitionsError) Error() string {
	return "No more partitions"
}

// InvalidWorkerCountError occurs when an execution context reports no usable workers
type InvalidWorkerCountError struct{ Count int }

// Error returns a textual representation of this InvalidWorkerCountError
func (e InvalidWorkerCountError) Error() string {
	return fmt.Sprintf("worker count must be at least 1, was %d", e.Count)
}
