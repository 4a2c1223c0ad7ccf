package file

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-sif/redact"
	"github.com/pierrec/lz4/v4"
	log "github.com/sirupsen/logrus"
)

// Lz4Extension marks files holding lz4 frames, which are decompressed as they are read
const Lz4Extension = ".lz4"

// PartitionLoader is capable of loading partitions of data from a file
type PartitionLoader struct {
	key    string
	source *DataSource
}

// ToString returns a string representation of this PartitionLoader
func (pl *PartitionLoader) ToString() string {
	return fmt.Sprintf("File loader key: %s", pl.key)
}

// Load is capable of loading partitions of data from a file
func (pl *PartitionLoader) Load(ctx context.Context, parser redact.DataSourceParser) (redact.PartitionIterator, error) {
	bucket, err := pl.source.resolver.Open(ctx, pl.source.location)
	if err != nil {
		return nil, err
	}
	f, err := bucket.NewReader(ctx, pl.key, nil)
	if err != nil {
		return nil, err
	}
	var r io.Reader = f
	if strings.HasSuffix(pl.key, Lz4Extension) {
		r = lz4.NewReader(f)
	}
	pi, err := parser.Parse(r, func() {
		err := f.Close()
		if err != nil {
			log.Warnf("couldn't close file %s: %v", pl.key, err)
		}
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", pl.key, err)
	}
	return pi, nil
}
