package redact

// A Partition is a portion of a dataset, consisting of multiple Rows.
// Partitions are not generally interacted with directly, instead being
// manipulated in parallel by Relation Tasks.
type Partition interface {
	ID() string                       // ID retrieves the ID of this Partition
	GetMaxRows() int                  // GetMaxRows retrieves the maximum number of rows in this Partition
	GetNumRows() int                  // GetNumRows retrieves the number of rows in this Partition
	GetRow(rowNum int) Row            // GetRow retrieves a specific row from this Partition
	GetSchema() Schema                // GetSchema retrieves the current Schema of this Partition
	ForEachRow(fn MapOperation) error // ForEachRow iterates over Rows in a Partition, in order
}

// A BuildablePartition can be built. Used in the implementation of DataSources and Parsers
type BuildablePartition interface {
	Partition
	AppendEmptyRow() (Row, error)        // AppendEmptyRow adds an all-nil Row to the end of this Partition, returning the Row so that Row methods can be used to populate it
	AppendRowData(values []string) error // AppendRowData adds a Row to the end of this Partition, if it isn't full and if the Row fits within the schema
}

// An OperablePartition can be operated on
type OperablePartition interface {
	Partition
	UpdateCurrentSchema(currentSchema Schema) error     // Sets the current schema of a Partition, making room for newly created columns
	MapRows(fn MapOperation) (OperablePartition, error) // MapRows runs a MapOperation on each row in this Partition, manipulating them in-place.
	Repack(newSchema Schema) (OperablePartition, error) // Repack produces a fresh Partition laid out according to a new Schema, dropping removed columns
}
