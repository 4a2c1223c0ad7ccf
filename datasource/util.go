package datasource

import (
	"github.com/go-sif/redact"
	"github.com/go-sif/redact/internal/relation"
)

// CreateRelation produces a fresh Relation over loaded Partitions (useful for the implementation of DataSources)
func CreateRelation(schema redact.Schema, parts []redact.Partition) redact.Relation {
	return relation.CreateRelation(schema, parts)
}
