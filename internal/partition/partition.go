package partition

import (
	"github.com/go-sif/redact"
	"github.com/google/uuid"
)

const defaultCapacity = 16

// partitionImpl is Redact's internal implementation of Partition
type partitionImpl struct {
	id            string
	maxRows       int
	values        [][]string // values[row][column index]
	nils          [][]bool   // nils[row][column index]
	currentSchema redact.Schema
}

// createPartitionImpl creates a new, empty Partition for a schema
func createPartitionImpl(maxRows int, initialCapacity int, schema redact.Schema) *partitionImpl {
	if initialCapacity > maxRows {
		initialCapacity = maxRows
	}
	return &partitionImpl{
		id:            uuid.NewString(),
		maxRows:       maxRows,
		values:        make([][]string, 0, initialCapacity),
		nils:          make([][]bool, 0, initialCapacity),
		currentSchema: schema,
	}
}

// CreatePartition creates a new, empty Partition for a schema
func CreatePartition(maxRows int, schema redact.Schema) redact.OperablePartition {
	return createPartitionImpl(maxRows, defaultCapacity, schema)
}

// ID retrieves the ID of this Partition
func (p *partitionImpl) ID() string {
	return p.id
}

// GetMaxRows retrieves the maximum number of rows in this Partition
func (p *partitionImpl) GetMaxRows() int {
	return p.maxRows
}

// GetNumRows retrieves the number of rows in this Partition
func (p *partitionImpl) GetNumRows() int {
	return len(p.values)
}

// GetSchema retrieves the current Schema of this Partition
func (p *partitionImpl) GetSchema() redact.Schema {
	return p.currentSchema
}

// GetRow retrieves a specific row from this Partition
func (p *partitionImpl) GetRow(rowNum int) redact.Row {
	return &rowImpl{
		partID: p.id,
		values: p.values[rowNum],
		nils:   p.nils[rowNum],
		schema: p.currentSchema,
	}
}

// ForEachRow iterates over Rows in a Partition, in order
func (p *partitionImpl) ForEachRow(fn redact.MapOperation) error {
	row := &rowImpl{partID: p.id, schema: p.currentSchema}
	for i := 0; i < len(p.values); i++ {
		row.values = p.values[i]
		row.nils = p.nils[i]
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}
