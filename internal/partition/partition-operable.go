package partition

import (
	"github.com/go-sif/redact"
	"github.com/hashicorp/go-multierror"
)

// UpdateCurrentSchema updates the Schema of this Partition, growing each row
// with nil cells for any newly created columns
func (p *partitionImpl) UpdateCurrentSchema(currentSchema redact.Schema) error {
	width := currentSchema.NumColumns()
	for i := range p.values {
		for len(p.values[i]) < width {
			p.values[i] = append(p.values[i], "")
			p.nils[i] = append(p.nils[i], true)
		}
	}
	p.currentSchema = currentSchema
	return nil
}

// MapRows runs a MapOperation on each row in this Partition, manipulating them in-place.
// Errors from every row are collected, and no Partition is returned if any occurred.
func (p *partitionImpl) MapRows(fn redact.MapOperation) (redact.OperablePartition, error) {
	var multierr *multierror.Error
	for i := 0; i < p.GetNumRows(); i++ {
		if err := fn(p.GetRow(i)); err != nil {
			multierr = multierror.Append(multierr, err)
		}
	}
	if err := multierr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return p, nil
}

// Repack produces a fresh Partition laid out according to a new Schema, copying
// values by column name. Columns absent from the current Schema are dropped.
func (p *partitionImpl) Repack(newSchema redact.Schema) (redact.OperablePartition, error) {
	names := newSchema.ColumnNames()
	sources := make([]int, len(names))
	for i, name := range names {
		offset, err := p.currentSchema.GetOffset(name)
		if err != nil {
			return nil, err
		}
		sources[i] = offset.Index()
	}
	result := createPartitionImpl(p.maxRows, len(p.values), newSchema)
	for i := range p.values {
		values := make([]string, len(names))
		nils := make([]bool, len(names))
		for j, src := range sources {
			values[j] = p.values[i][src]
			nils[j] = p.nils[i][src]
		}
		result.values = append(result.values, values)
		result.nils = append(result.nils, nils)
	}
	return result, nil
}

// Copy produces an OperablePartition holding a copy of the rows of any Partition,
// so that Tasks may manipulate it without affecting the original.
func Copy(p redact.Partition) (redact.OperablePartition, error) {
	if impl, ok := p.(*partitionImpl); ok {
		return impl.Repack(impl.currentSchema)
	}
	schema := p.GetSchema()
	names := schema.ColumnNames()
	result := createPartitionImpl(p.GetMaxRows(), p.GetNumRows(), schema)
	err := p.ForEachRow(func(row redact.Row) error {
		values := make([]string, len(names))
		nils := make([]bool, len(names))
		for i, name := range names {
			if row.IsNil(name) {
				nils[i] = true
				continue
			}
			val, err := row.GetString(name)
			if err != nil {
				return err
			}
			values[i] = val
		}
		result.values = append(result.values, values)
		result.nils = append(result.nils, nils)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
