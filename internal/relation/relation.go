package relation

import (
	"context"
	"fmt"

	"github.com/go-sif/redact"
	"github.com/go-sif/redact/internal/partition"
)

// A relationImpl implements Relation internally for Redact
type relationImpl struct {
	parent   *relationImpl      // the parent Relation. Nil if this is the root.
	task     redact.Task        // the task represented by this Relation, executed to produce it from its parent
	taskType redact.TaskType    // a unique name for the type of task this Relation represents
	source   []redact.Partition // the source data, shared by every Relation in the chain
	schema   redact.Schema      // the schema of the data after this task
}

// CreateRelation is a factory for Relations. This function is not intended to be used directly,
// as Relations are returned by DataSource packages.
func CreateRelation(schema redact.Schema, source []redact.Partition) redact.Relation {
	return &relationImpl{
		parent:   nil,
		task:     &noOpTask{},
		taskType: redact.ExtractTaskType,
		source:   source,
		schema:   schema,
	}
}

// GetSchema returns the Schema of a Relation
func (r *relationImpl) GetSchema() redact.Schema {
	return r.schema
}

// NumPartitions returns the number of source Partitions in this Relation
func (r *relationImpl) NumPartitions() int {
	return len(r.source)
}

// NumRows returns the number of Rows in the source Partitions of this Relation
func (r *relationImpl) NumRows() int {
	n := 0
	for _, part := range r.source {
		n += part.GetNumRows()
	}
	return n
}

// To is a "functional operations" factory method for Relations,
// chaining operations onto the current one. Schema errors are
// returned here, before any data is touched.
func (r *relationImpl) To(ops ...*redact.RelationOperation) (redact.Relation, error) {
	next := r
	for _, op := range ops {
		result, err := op.Do(next, next.schema)
		if err != nil {
			return nil, err
		}
		next = &relationImpl{
			parent:   next,
			task:     result.Task,
			taskType: op.TaskType,
			source:   r.source,
			schema:   result.DataSchema,
		}
	}
	return next, nil
}

// tasks returns the chain of tasks from the root to this Relation
func (r *relationImpl) tasks() []*relationImpl {
	var chain []*relationImpl
	for f := r; f != nil; f = f.parent {
		chain = append([]*relationImpl{f}, chain...)
	}
	return chain
}

// Evaluate runs the task chain against every source Partition in parallel. Source
// Partitions are copied first, so a Relation may be evaluated more than once.
func (r *relationImpl) Evaluate(ctx context.Context, exec redact.ExecutionContext) ([]redact.Partition, error) {
	chain := r.tasks()
	results := make([]redact.Partition, len(r.source))
	err := exec.Run(ctx, len(r.source), func(ctx context.Context, i int) error {
		part, err := partition.Copy(r.source[i])
		if err != nil {
			return err
		}
		for _, frame := range chain {
			if err := ctx.Err(); err != nil {
				return err
			}
			part, err = frame.task.RunWorker(ctx, part)
			if err != nil {
				return fmt.Errorf("error in %s task for partition %d: %w", frame.taskType, i, err)
			}
		}
		results[i] = part
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
