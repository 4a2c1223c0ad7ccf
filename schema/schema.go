package schema

import (
	"fmt"
	"sort"

	"github.com/go-sif/redact"
	errors "github.com/go-sif/redact/errors"
)

// Column describes the position of a field in a Row.
type column struct {
	idx int
}

// Clone returns a copy of this Column
func (c *column) Clone() redact.Column {
	return &column{c.idx}
}

// Index returns the index of this Column within a Schema
func (c *column) Index() int {
	return c.idx
}

// Schema is a mapping from column names to positions
// within a Row. It allows one to obtain offsets by name,
// define new columns, remove columns, etc.
type schema struct {
	schema   map[string]redact.Column
	toRemove map[string]bool
}

// CreateSchema is a factory for Schemas
func CreateSchema() redact.Schema {
	return &schema{
		schema:   make(map[string]redact.Column),
		toRemove: make(map[string]bool),
	}
}

// CreateSchemaFromNames builds a Schema holding the given columns, in order.
// Names must be unique.
func CreateSchemaFromNames(names ...string) (redact.Schema, error) {
	s := CreateSchema().(*schema)
	for i, name := range names {
		if _, exists := s.schema[name]; exists {
			return nil, errors.DuplicateColumnError{Name: name}
		}
		s.schema[name] = &column{i}
	}
	return s, nil
}

// Equals returns nil iff this and another Schema hold the same columns in the same order
func (s *schema) Equals(otherSchema redact.Schema) error {
	if s.NumColumns() != otherSchema.NumColumns() {
		return fmt.Errorf("Schemas have unequal numbers of columns")
	}
	if s.NumRemovedColumns() != otherSchema.NumRemovedColumns() {
		return fmt.Errorf("Schemas have unequal numbers of removed columns")
	}
	return s.ForEachColumn(func(name string, offset redact.Column) error {
		otherOffset, err := otherSchema.GetOffset(name)
		if err != nil {
			return err
		}
		if offset.Index() != otherOffset.Index() {
			return fmt.Errorf("Column %s indices do not match", name)
		}
		if s.IsMarkedForRemoval(name) != otherSchema.IsMarkedForRemoval(name) {
			return fmt.Errorf("Column %s removal marks do not match", name)
		}
		return nil
	})
}

// Clone returns a copy of this Schema
func (s *schema) Clone() redact.Schema {
	return s.clone()
}

func (s *schema) clone() *schema {
	newSchema := make(map[string]redact.Column, len(s.schema))
	for k, v := range s.schema {
		newSchema[k] = v.Clone()
	}
	newRemoved := make(map[string]bool, len(s.toRemove))
	for k, v := range s.toRemove {
		newRemoved[k] = v
	}
	return &schema{schema: newSchema, toRemove: newRemoved}
}

// NumColumns returns the number of columns in this Schema, including those marked for removal
func (s *schema) NumColumns() int {
	return len(s.schema)
}

// NumRemovedColumns returns the number of removed columns in this Schema
func (s *schema) NumRemovedColumns() int {
	return len(s.toRemove)
}

// Repack produces a Schema without the columns marked for removal, preserving the relative order of the rest.
func (s *schema) Repack() (newSchema redact.Schema) {
	// we need the column names in index order
	cols := make([]string, 0, len(s.schema)-len(s.toRemove))
	for k := range s.schema {
		if !s.toRemove[k] {
			cols = append(cols, k)
		}
	}
	sort.Slice(cols, func(i, j int) bool {
		return s.schema[cols[i]].Index() < s.schema[cols[j]].Index()
	})
	// re-insert into fresh schema in original index order
	repacked := CreateSchema().(*schema)
	for i, name := range cols {
		repacked.schema[name] = &column{i}
	}
	return repacked
}

// GetOffset returns the position of a particular column within a row.
func (s *schema) GetOffset(colName string) (offset redact.Column, err error) {
	offset, ok := s.schema[colName]
	if !ok {
		err = errors.MissingColumnError{Name: colName}
	}
	return
}

// HasColumn returns true iff this schema contains a column with the given name
func (s *schema) HasColumn(colName string) bool {
	_, err := s.GetOffset(colName)
	return err == nil
}

// CreateColumn returns a new Schema with an additional column appended to the end
func (s *schema) CreateColumn(colName string) (redact.Schema, error) {
	if _, containsOffset := s.schema[colName]; containsOffset {
		return nil, errors.DuplicateColumnError{Name: colName}
	}
	newSchema := s.clone()
	newSchema.schema[colName] = &column{len(newSchema.schema)}
	return newSchema, nil
}

// RemoveColumn returns a new Schema in which a column is marked for removal at the next Repack
func (s *schema) RemoveColumn(colName string) (redact.Schema, error) {
	if _, exists := s.schema[colName]; !exists {
		return nil, errors.MissingColumnError{Name: colName}
	}
	newSchema := s.clone()
	newSchema.toRemove[colName] = true
	return newSchema, nil
}

// IsMarkedForRemoval returns true iff the given column has been marked for removal
func (s *schema) IsMarkedForRemoval(colName string) bool {
	_, marked := s.toRemove[colName]
	return marked
}

// ColumnNames returns the names in the schema, in index order
func (s *schema) ColumnNames() []string {
	names := make([]string, len(s.schema))
	for k, v := range s.schema {
		names[v.Index()] = k
	}
	return names
}

// ForEachColumn iterates over the columns in this Schema. Does not necessarily iterate in order of column index.
func (s *schema) ForEachColumn(fn func(name string, col redact.Column) error) error {
	for k, v := range s.schema {
		err := fn(k, v)
		if err != nil {
			return err
		}
	}
	return nil
}
