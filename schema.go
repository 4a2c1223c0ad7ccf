package redact

// Schema is an ordered mapping from column names to positions
// within a Row. Every column holds text. Schemas are values:
// methods which alter a Schema return a new one.
type Schema interface {
	Equals(otherSchema Schema) error
	Clone() Schema
	NumColumns() int
	NumRemovedColumns() int
	Repack() (newSchema Schema)
	GetOffset(colName string) (offset Column, err error)
	HasColumn(colName string) bool
	CreateColumn(colName string) (newSchema Schema, err error)
	RemoveColumn(colName string) (newSchema Schema, err error)
	IsMarkedForRemoval(colName string) bool
	ColumnNames() []string
	ForEachColumn(fn func(name string, col Column) error) error
}
