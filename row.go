package redact

// Row is a representation of a single row of text data,
// (a slice of a Partition), along with a reference to the
// Schema for that row. In practice, users of Row will call its
// getter and setter methods to retrieve, manipulate and store data
type Row interface {
	Schema() Schema                                   // Schema returns a read-only copy of the schema for a row
	ToString() string                                 // ToString returns a string representation of this row
	IsNil(colName string) bool                        // IsNil returns true iff the given column value is nil in this row. If an error occurs, this function will return false.
	SetNil(colName string) error                      // SetNil sets the given column value to nil within this row
	GetString(colName string) (col string, err error) // GetString retrieves a single string from the column with the given name. Nil values produce a NilValueError.
	SetString(colName string, value string) error     // SetString modifies a single string in the column with the given name
}
