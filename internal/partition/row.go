package partition

import (
	"fmt"
	"strings"

	"github.com/go-sif/redact"
	errors "github.com/go-sif/redact/errors"
)

// rowImpl is a view over a single row of a Partition. values and nils
// are slices of the Partition's storage, so setters modify the Partition.
type rowImpl struct {
	partID string
	values []string
	nils   []bool
	schema redact.Schema // schema lets us pick the values we need out of the row
}

// CreateRow builds a standalone row over the given values, none of which are nil
func CreateRow(values []string, schema redact.Schema) redact.Row {
	return &rowImpl{values: values, nils: make([]bool, len(values)), schema: schema}
}

// Schema returns a read-only copy of the schema for a row
func (r *rowImpl) Schema() redact.Schema {
	return r.schema.Clone()
}

// ToString returns a string representation of this row
func (r *rowImpl) ToString() string {
	var res strings.Builder
	fmt.Fprint(&res, "{")
	for i, name := range r.schema.ColumnNames() {
		if i > 0 {
			fmt.Fprint(&res, ", ")
		}
		if r.IsNil(name) {
			fmt.Fprintf(&res, "%s: nil", name)
			continue
		}
		v, _ := r.GetString(name)
		fmt.Fprintf(&res, "%s: %q", name, v)
	}
	fmt.Fprint(&res, "}")
	return res.String()
}

func (r *rowImpl) index(colName string) (int, error) {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return 0, err
	}
	idx := offset.Index()
	if idx >= len(r.values) {
		return 0, errors.IncompatibleRowError{Expected: r.schema.NumColumns(), Actual: len(r.values)}
	}
	return idx, nil
}

// IsNil returns true iff the given column value is nil in this row. If an error occurs, this function will return false.
func (r *rowImpl) IsNil(colName string) bool {
	idx, err := r.index(colName)
	if err != nil {
		return false
	}
	return r.nils[idx]
}

// SetNil sets the given column value to nil within this row
func (r *rowImpl) SetNil(colName string) error {
	idx, err := r.index(colName)
	if err != nil {
		return err
	}
	r.values[idx] = ""
	r.nils[idx] = true
	return nil
}

// GetString retrieves a single string from the column with the given name
func (r *rowImpl) GetString(colName string) (string, error) {
	idx, err := r.index(colName)
	if err != nil {
		return "", err
	}
	if r.nils[idx] {
		return "", errors.NilValueError{Name: colName}
	}
	return r.values[idx], nil
}

// SetString modifies a single string in the column with the given name
func (r *rowImpl) SetString(colName string, value string) error {
	idx, err := r.index(colName)
	if err != nil {
		return err
	}
	r.values[idx] = value
	r.nils[idx] = false
	return nil
}
