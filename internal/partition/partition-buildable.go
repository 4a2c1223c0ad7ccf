package partition

import (
	"github.com/go-sif/redact"
	errors "github.com/go-sif/redact/errors"
)

// CreateBuildablePartition creates a new, empty Partition which can be filled with rows
func CreateBuildablePartition(maxRows int, schema redact.Schema) redact.BuildablePartition {
	return createPartitionImpl(maxRows, defaultCapacity, schema)
}

// canInsertRowData checks if a Row can be inserted into this Partition
func (p *partitionImpl) canInsertRowData(width int) error {
	if width != p.currentSchema.NumColumns() {
		return errors.IncompatibleRowError{Expected: p.currentSchema.NumColumns(), Actual: width}
	} else if len(p.values) >= p.maxRows {
		return errors.PartitionFullError{}
	}
	return nil
}

// AppendEmptyRow is a convenient way to add an all-nil Row to the end of this Partition, returning the Row so that Row methods can be used to populate it
func (p *partitionImpl) AppendEmptyRow() (redact.Row, error) {
	width := p.currentSchema.NumColumns()
	if err := p.canInsertRowData(width); err != nil {
		return nil, err
	}
	nils := make([]bool, width)
	for i := range nils {
		nils[i] = true
	}
	p.values = append(p.values, make([]string, width))
	p.nils = append(p.nils, nils)
	return p.GetRow(len(p.values) - 1), nil
}

// AppendRowData adds a Row to the end of this Partition, if it isn't full and if the Row fits within the schema.
// None of the appended values are nil. The values slice is copied.
func (p *partitionImpl) AppendRowData(values []string) error {
	if err := p.canInsertRowData(len(values)); err != nil {
		return err
	}
	row := make([]string, len(values))
	copy(row, values)
	p.values = append(p.values, row)
	p.nils = append(p.nils, make([]bool, len(values)))
	return nil
}
