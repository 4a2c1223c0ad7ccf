package file

import (
	"context"
	"fmt"

	"github.com/go-sif/redact"
	"github.com/go-sif/redact/datasource"
	errors "github.com/go-sif/redact/errors"
	"github.com/go-sif/redact/storage"
	log "github.com/sirupsen/logrus"
)

type loadedFile struct {
	loader redact.PartitionLoader
	schema redact.Schema
	parts  []redact.Partition
}

// Read loads every file at a location into a Relation, in parallel. Every file must
// share the same header. Any failure aborts the whole read with an InputReadError,
// and no Relation is returned.
func Read(ctx context.Context, exec redact.ExecutionContext, resolver *storage.Resolver, location storage.Location, parser redact.DataSourceParser) (redact.Relation, error) {
	fail := func(err error) (redact.Relation, error) {
		return nil, &errors.InputReadError{Location: location.String(), Err: err}
	}
	pm, err := CreateDataSource(resolver, location).Analyze(ctx)
	if err != nil {
		return fail(err)
	}
	var files []*loadedFile
	for pm.HasNext() {
		files = append(files, &loadedFile{loader: pm.Next()})
	}
	err = exec.Run(ctx, len(files), func(ctx context.Context, i int) error {
		return files[i].load(ctx, parser)
	})
	if err != nil {
		return fail(err)
	}
	schema := files[0].schema
	var parts []redact.Partition
	for _, f := range files {
		if err := schema.Equals(f.schema); err != nil {
			return fail(fmt.Errorf("header of %s does not match header of %s: %w", f.loader.ToString(), files[0].loader.ToString(), err))
		}
		parts = append(parts, f.parts...)
	}
	log.Debugf("Read %d partitions from %d files at %s", len(parts), len(files), location.String())
	return datasource.CreateRelation(schema, parts), nil
}

func (f *loadedFile) load(ctx context.Context, parser redact.DataSourceParser) error {
	iter, err := f.loader.Load(ctx, parser)
	if err != nil {
		return err
	}
	f.schema = iter.Schema()
	for iter.HasNextPartition() {
		part, err := iter.NextPartition()
		if err != nil {
			return fmt.Errorf("%s: %w", f.loader.ToString(), err)
		}
		if part.GetNumRows() > 0 {
			f.parts = append(f.parts, part)
		}
	}
	return nil
}
