package dsv

import (
	"encoding/csv"
	"io"
	"sync"

	"github.com/go-sif/redact"
	errors "github.com/go-sif/redact/errors"
	"github.com/go-sif/redact/partition"
)

type dsvFilePartitionIterator struct {
	parser       *Parser
	reader       *csv.Reader
	hasNext      bool
	schema       redact.Schema
	lock         sync.Mutex
	endListeners []func()
}

// OnEnd registers a listener which fires when this iterator runs out of Partitions
func (dsvi *dsvFilePartitionIterator) OnEnd(onEnd func()) {
	dsvi.lock.Lock()
	defer dsvi.lock.Unlock()
	dsvi.endListeners = append(dsvi.endListeners, onEnd)
}

// HasNextPartition returns true iff this PartitionIterator can produce another Partition
func (dsvi *dsvFilePartitionIterator) HasNextPartition() bool {
	dsvi.lock.Lock()
	defer dsvi.lock.Unlock()
	return dsvi.hasNext
}

// Schema returns the Schema described by the header of the file
func (dsvi *dsvFilePartitionIterator) Schema() redact.Schema {
	return dsvi.schema
}

// NextPartition returns the next Partition if one is available, or an error
func (dsvi *dsvFilePartitionIterator) NextPartition() (redact.Partition, error) {
	dsvi.lock.Lock()
	defer dsvi.lock.Unlock()
	if !dsvi.hasNext {
		return nil, errors.NoMorePartitionsError{}
	}
	part := partition.CreateBuildablePartition(dsvi.parser.PartitionSize(), dsvi.schema)
	colNames := dsvi.schema.ColumnNames()
	// parse lines
	for {
		// If the partition is full, we're done
		if part.GetNumRows() == part.GetMaxRows() {
			return part, nil
		}
		// Otherwise, grab another line from the file
		rowStrings, err := dsvi.reader.Read()
		if err == io.EOF {
			dsvi.end()
			return part, nil
		} else if err != nil {
			dsvi.end()
			return nil, err
		}
		if err := scanRow(dsvi.parser.NilValue(), colNames, rowStrings, part); err != nil {
			dsvi.end()
			return nil, err
		}
	}
}

// end marks this iterator as exhausted and notifies listeners. Callers must hold the lock.
func (dsvi *dsvFilePartitionIterator) end() {
	dsvi.hasNext = false
	for _, l := range dsvi.endListeners {
		l()
	}
	dsvi.endListeners = []func(){}
}
