package file

import (
	"context"
	"fmt"

	"github.com/go-sif/redact"
	"github.com/go-sif/redact/storage"
	"github.com/samber/lo"
)

// DataSource is a file, or a directory of files, containing data which will be manipulated according to a Relation
type DataSource struct {
	resolver *storage.Resolver
	location storage.Location
}

// CreateDataSource is a factory for DataSources
func CreateDataSource(resolver *storage.Resolver, location storage.Location) *DataSource {
	return &DataSource{resolver: resolver, location: location}
}

// Analyze returns a PartitionMap, describing how the source files will be divided into Partitions.
// A location naming an object produces one file. Otherwise, every object directly beneath the
// location is read in lexical order, except those whose names begin with "_" or ".".
func (fs *DataSource) Analyze(ctx context.Context) (redact.PartitionMap, error) {
	bucket, err := fs.resolver.Open(ctx, fs.location)
	if err != nil {
		return nil, err
	}
	isObject, err := storage.IsObject(ctx, bucket, fs.location.Key)
	if err != nil {
		return nil, err
	}
	if isObject {
		return &PartitionMap{files: []string{fs.location.Key}, source: fs}, nil
	}
	keys, err := storage.ListObjects(ctx, bucket, fs.location.Prefix())
	if err != nil {
		return nil, err
	}
	toRead := lo.Reject(keys, func(key string, _ int) bool {
		return storage.IsHidden(key)
	})
	if len(toRead) == 0 {
		return nil, fmt.Errorf("%s contains no files", fs.location.String())
	}
	return &PartitionMap{
		files:  toRead,
		source: fs,
	}, nil
}
