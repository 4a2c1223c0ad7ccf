package dsv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/go-sif/redact"
	errors "github.com/go-sif/redact/errors"
	"github.com/go-sif/redact/partition"
	"github.com/go-sif/redact/storage"
	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"
	log "github.com/sirupsen/logrus"
	"gocloud.dev/blob"
)

// Compression describes how output files are compressed
type Compression = string

const (
	// NoCompression writes plain text files
	NoCompression Compression = "none"
	// Lz4Compression writes lz4 frames
	Lz4Compression Compression = "lz4"
)

// DefaultSentinel is written in place of nil and empty cells unless configured otherwise
const DefaultSentinel = "\u0000"

// stagingDir prefixes the location of in-progress output until it is committed
const stagingDir = "_temporary"

// WriterConf configures a DSV Writer
type WriterConf struct {
	Delimiter   rune        // The delimiter separating columns in the file. Defaults to ,
	NullValue   string      // The text written for nil cells
	EmptyValue  string      // The text written for empty cells
	Header      bool        // If true, a header row is written at the top of every file
	Compression Compression // How files are compressed. Defaults to NoCompression.
}

// Writer materializes Relations as delimited text files
type Writer struct {
	conf *WriterConf
}

// CreateWriter returns a new DSV Writer
func CreateWriter(conf *WriterConf) (*Writer, error) {
	if conf.Delimiter == 0 {
		conf.Delimiter = ','
	}
	if len(conf.Compression) == 0 {
		conf.Compression = NoCompression
	}
	if conf.Compression != NoCompression && conf.Compression != Lz4Compression {
		return nil, fmt.Errorf("unsupported compression %q", conf.Compression)
	}
	return &Writer{conf: conf}, nil
}

// Extension returns the file extension used for output files
func (w *Writer) Extension() string {
	if w.conf.Compression == Lz4Compression {
		return ".csv.lz4"
	}
	return ".csv"
}

// Write evaluates a Relation and writes it to a location as at most numShards files,
// replacing whatever was there before. Files are first written to a staging prefix
// in parallel and are only moved into place once all of them have succeeded, so a
// failed write leaves any previous output untouched.
func (w *Writer) Write(ctx context.Context, exec redact.ExecutionContext, relation redact.Relation, resolver *storage.Resolver, location storage.Location, numShards int) (*Manifest, error) {
	fail := func(err error) (*Manifest, error) {
		return nil, &errors.OutputWriteError{Location: location.String(), Err: err}
	}
	bucket, err := resolver.Open(ctx, location)
	if err != nil {
		return fail(err)
	}
	parts, err := relation.Evaluate(ctx, exec)
	if err != nil {
		return fail(err)
	}
	shards, err := partition.Coalesce(parts, numShards)
	if err != nil {
		return fail(err)
	}
	runID := uuid.NewString()
	staging := stagingLocation(location, runID)
	manifest := &Manifest{
		RunID:   runID,
		Columns: relation.GetSchema().ColumnNames(),
		Shards:  make([]ShardInfo, len(shards)),
	}
	log.Debugf("Staging %d shards at %s", len(shards), staging.String())
	err = exec.Run(ctx, len(shards), func(ctx context.Context, i int) error {
		name := fmt.Sprintf("part-%05d-%s%s", shards[i].Index, runID, w.Extension())
		info, err := w.writeShard(ctx, bucket, staging.Child(name).Key, manifest.Columns, shards[i])
		if err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		info.Name = name
		manifest.Shards[i] = *info
		return nil
	})
	if err != nil {
		// ctx may already be cancelled, but staging must still be removed
		if cleanupErr := removeStaging(context.Background(), bucket, staging); cleanupErr != nil {
			log.Warnf("Failed to remove staged output %s: %v", staging.String(), cleanupErr)
		}
		return fail(err)
	}
	if err := w.commit(ctx, bucket, location, staging, manifest); err != nil {
		return fail(err)
	}
	log.Infof("Wrote %s rows in %d files to %s", humanize.Comma(int64(manifest.NumRows())), len(manifest.Shards), location.String())
	return manifest, nil
}

// writeShard writes a single Shard to a key, returning its row count and checksum
func (w *Writer) writeShard(ctx context.Context, bucket *blob.Bucket, key string, columns []string, shard *partition.Shard) (*ShardInfo, error) {
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	bw, err := bucket.NewWriter(wctx, key, &blob.WriterOptions{ContentType: "text/csv"})
	if err != nil {
		return nil, err
	}
	hash := xxhash.New()
	counter := &countingWriter{}
	var out io.Writer = io.MultiWriter(bw, hash, counter)
	var zw *lz4.Writer
	if w.conf.Compression == Lz4Compression {
		zw = lz4.NewWriter(out)
		out = zw
	}
	abort := func(err error) (*ShardInfo, error) {
		// cancelling the context before closing discards the object
		cancel()
		bw.Close()
		return nil, err
	}
	csvw := csv.NewWriter(out)
	csvw.Comma = w.conf.Delimiter
	if w.conf.Header {
		if err := csvw.Write(columns); err != nil {
			return abort(err)
		}
	}
	record := make([]string, len(columns))
	err = shard.ForEachRow(func(row redact.Row) error {
		for i, col := range columns {
			if row.IsNil(col) {
				record[i] = w.conf.NullValue
				continue
			}
			val, err := row.GetString(col)
			if err != nil {
				return err
			}
			if len(val) == 0 {
				val = w.conf.EmptyValue
			}
			record[i] = val
		}
		return csvw.Write(record)
	})
	if err != nil {
		return abort(err)
	}
	csvw.Flush()
	if err := csvw.Error(); err != nil {
		return abort(err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return abort(err)
		}
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}
	return &ShardInfo{
		Rows:     shard.NumRows(),
		Bytes:    counter.n,
		Checksum: strconv.FormatUint(hash.Sum64(), 16),
	}, nil
}

// commit replaces everything at a location with the staged shards, then writes the Manifest
func (w *Writer) commit(ctx context.Context, bucket *blob.Bucket, location storage.Location, staging storage.Location, manifest *Manifest) error {
	manifestKey := location.Child(ManifestName).Key
	if previous, err := ReadManifest(ctx, bucket, manifestKey); err == nil {
		log.Infof("Replacing output of run %s (%s rows in %d files)", previous.RunID, humanize.Comma(int64(previous.NumRows())), len(previous.Shards))
	} else if !storage.IsNotExist(err) {
		log.Warnf("Ignoring unreadable manifest %s: %v", manifestKey, err)
	}
	// a location may currently name a single object rather than a directory
	isObject, err := storage.IsObject(ctx, bucket, location.Key)
	if err != nil {
		return err
	}
	if isObject {
		if err := bucket.Delete(ctx, location.Key); err != nil {
			return err
		}
	}
	existing, err := storage.ListAllObjects(ctx, bucket, location.Prefix())
	if err != nil {
		return err
	}
	for _, key := range existing {
		if strings.HasPrefix(key, staging.Prefix()) {
			continue
		}
		if err := bucket.Delete(ctx, key); err != nil && !storage.IsNotExist(err) {
			return err
		}
	}
	for _, shard := range manifest.Shards {
		if err := bucket.Copy(ctx, location.Child(shard.Name).Key, staging.Child(shard.Name).Key, nil); err != nil {
			return err
		}
	}
	if err := removeStaging(ctx, bucket, staging); err != nil {
		return err
	}
	manifest.CompletedAt = time.Now().UTC()
	if err := writeManifest(ctx, bucket, manifestKey, manifest); err != nil {
		return err
	}
	// directories emptied by the deletes above
	return storage.PruneEmptyDirs(location)
}

// stagingLocation names the prefix where a run's files are written before commit. It is a
// hidden sibling of the output, so that an output which is currently an object can be replaced.
// Outputs at the top of a bucket stage beneath themselves.
func stagingLocation(location storage.Location, runID string) storage.Location {
	parent, ok := location.Parent()
	if !ok {
		return location.Child(stagingDir, runID)
	}
	return parent.Child(fmt.Sprintf("%s-%s-%s", stagingDir, location.Base(), runID))
}

func removeStaging(ctx context.Context, bucket *blob.Bucket, staging storage.Location) error {
	if err := storage.DeletePrefix(ctx, bucket, staging.Prefix()); err != nil {
		return err
	}
	return storage.PruneEmptyDirs(staging)
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
