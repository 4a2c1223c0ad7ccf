package partition

import (
	"github.com/go-sif/redact"
	ipartition "github.com/go-sif/redact/internal/partition"
)

// CreateBuildablePartition creates a new, empty Partition which DataSources and Parsers can fill with rows
func CreateBuildablePartition(maxRows int, schema redact.Schema) redact.BuildablePartition {
	return ipartition.CreateBuildablePartition(maxRows, schema)
}
