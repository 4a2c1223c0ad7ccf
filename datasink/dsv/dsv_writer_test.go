package dsv

import (
	"bytes"
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/go-sif/redact"
	"github.com/go-sif/redact/cluster"
	"github.com/go-sif/redact/datasource"
	errors "github.com/go-sif/redact/errors"
	"github.com/go-sif/redact/operations/transform"
	"github.com/go-sif/redact/partition"
	"github.com/go-sif/redact/schema"
	"github.com/go-sif/redact/storage"
	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
)

type testEnv struct {
	ctx      context.Context
	exec     redact.ExecutionContext
	resolver *storage.Resolver
	out      storage.Location
	bucket   *blob.Bucket
}

func createTestEnv(t *testing.T) *testEnv {
	ctx := context.Background()
	exec, err := cluster.CreateLocalCluster(&cluster.LocalOptions{NumWorkers: 2})
	require.Nil(t, err)
	out, err := storage.ParseLocation("mem://", uuid.NewString()+"/output")
	require.Nil(t, err)
	resolver := storage.CreateResolver()
	t.Cleanup(func() { resolver.Close() })
	bucket, err := resolver.Open(ctx, out)
	require.Nil(t, err)
	return &testEnv{ctx: ctx, exec: exec, resolver: resolver, out: out, bucket: bucket}
}

// createRelation builds a relation of numRows rows over columns id and note,
// where every third note is nil and every fifth is empty
func createRelation(t *testing.T, numRows int, partSize int) redact.Relation {
	s, err := schema.CreateSchemaFromNames("id", "note")
	require.Nil(t, err)
	var parts []redact.Partition
	var part redact.BuildablePartition
	for i := 0; i < numRows; i++ {
		if part == nil || part.GetNumRows() == partSize {
			part = partition.CreateBuildablePartition(partSize, s)
			parts = append(parts, part)
		}
		row, err := part.AppendEmptyRow()
		require.Nil(t, err)
		require.Nil(t, row.SetString("id", strconv.Itoa(i)))
		switch {
		case i%3 == 0:
		case i%5 == 0:
			require.Nil(t, row.SetString("note", ""))
		default:
			require.Nil(t, row.SetString("note", fmt.Sprintf("note, %d", i)))
		}
	}
	return datasource.CreateRelation(s, parts)
}

func (e *testEnv) listOutput(t *testing.T) []string {
	keys, err := storage.ListAllObjects(e.ctx, e.bucket, e.out.Prefix())
	require.Nil(t, err)
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = strings.TrimPrefix(key, e.out.Prefix())
	}
	return names
}

func TestWriteShardsAndManifest(t *testing.T) {
	e := createTestEnv(t)
	w, err := CreateWriter(&WriterConf{NullValue: DefaultSentinel, EmptyValue: DefaultSentinel})
	require.Nil(t, err)
	m, err := w.Write(e.ctx, e.exec, createRelation(t, 10, 3), e.resolver, e.out, 4)
	require.Nil(t, err)
	require.Len(t, m.Shards, 4)
	require.Equal(t, 10, m.NumRows())
	require.Equal(t, []string{"id", "note"}, m.Columns)

	names := e.listOutput(t)
	require.Len(t, names, 5)
	require.Equal(t, ManifestName, names[0])
	for i, shard := range m.Shards {
		require.Equal(t, fmt.Sprintf("part-%05d-%s.csv", i, m.RunID), shard.Name)
		require.Equal(t, shard.Name, names[i+1])
		data, err := e.bucket.ReadAll(e.ctx, e.out.Child(shard.Name).Key)
		require.Nil(t, err)
		require.Equal(t, strconv.FormatUint(xxhash.Sum64(data), 16), shard.Checksum)
		require.Equal(t, int64(len(data)), shard.Bytes)
	}

	first, err := e.bucket.ReadAll(e.ctx, e.out.Child(m.Shards[0].Name).Key)
	require.Nil(t, err)
	require.Equal(t, "0,\x00\n1,\"note, 1\"\n2,\"note, 2\"\n", string(first))
	second, err := e.bucket.ReadAll(e.ctx, e.out.Child(m.Shards[1].Name).Key)
	require.Nil(t, err)
	require.Equal(t, "3,\x00\n4,\"note, 4\"\n5,\x00\n", string(second))

	stored, err := ReadManifest(e.ctx, e.bucket, e.out.Child(ManifestName).Key)
	require.Nil(t, err)
	require.Equal(t, m.RunID, stored.RunID)
	require.Equal(t, m.Shards, stored.Shards)
	require.Equal(t, m.Columns, stored.Columns)
}

func TestWriteFewerRowsThanShards(t *testing.T) {
	e := createTestEnv(t)
	w, err := CreateWriter(&WriterConf{Header: true, Delimiter: '|', NullValue: "NULL", EmptyValue: "EMPTY"})
	require.Nil(t, err)
	m, err := w.Write(e.ctx, e.exec, createRelation(t, 2, 5), e.resolver, e.out, 8)
	require.Nil(t, err)
	require.Len(t, m.Shards, 2)
	data, err := e.bucket.ReadAll(e.ctx, e.out.Child(m.Shards[1].Name).Key)
	require.Nil(t, err)
	require.Equal(t, "id|note\n1|note, 1\n", string(data))
	data, err = e.bucket.ReadAll(e.ctx, e.out.Child(m.Shards[0].Name).Key)
	require.Nil(t, err)
	require.Equal(t, "id|note\n0|NULL\n", string(data))
}

func TestWriteOverwritesPreviousOutput(t *testing.T) {
	e := createTestEnv(t)
	require.Nil(t, e.bucket.WriteAll(e.ctx, e.out.Child("stale.csv").Key, []byte("old"), nil))
	require.Nil(t, e.bucket.WriteAll(e.ctx, e.out.Child("nested", "stale.csv").Key, []byte("old"), nil))
	w, err := CreateWriter(&WriterConf{})
	require.Nil(t, err)
	first, err := w.Write(e.ctx, e.exec, createRelation(t, 8, 4), e.resolver, e.out, 4)
	require.Nil(t, err)
	second, err := w.Write(e.ctx, e.exec, createRelation(t, 8, 4), e.resolver, e.out, 2)
	require.Nil(t, err)
	require.NotEqual(t, first.RunID, second.RunID)

	names := e.listOutput(t)
	require.Len(t, names, 3)
	for _, name := range names[1:] {
		require.Contains(t, name, second.RunID)
	}
}

func TestWriteEmptyRelation(t *testing.T) {
	e := createTestEnv(t)
	require.Nil(t, e.bucket.WriteAll(e.ctx, e.out.Child("stale.csv").Key, []byte("old"), nil))
	w, err := CreateWriter(&WriterConf{})
	require.Nil(t, err)
	m, err := w.Write(e.ctx, e.exec, createRelation(t, 0, 4), e.resolver, e.out, 4)
	require.Nil(t, err)
	require.Len(t, m.Shards, 0)
	require.Equal(t, []string{ManifestName}, e.listOutput(t))
}

func TestWriteFailureLeavesPreviousOutput(t *testing.T) {
	e := createTestEnv(t)
	w, err := CreateWriter(&WriterConf{})
	require.Nil(t, err)
	_, err = w.Write(e.ctx, e.exec, createRelation(t, 6, 2), e.resolver, e.out, 2)
	require.Nil(t, err)
	before := e.listOutput(t)

	failing, err := createRelation(t, 6, 2).To(transform.Map(func(row redact.Row) error {
		_, err := row.GetString("note")
		return err
	}))
	require.Nil(t, err)
	_, err = w.Write(e.ctx, e.exec, failing, e.resolver, e.out, 2)
	var writeErr *errors.OutputWriteError
	require.True(t, goerrors.As(err, &writeErr))
	require.Equal(t, e.out.String(), writeErr.Location)
	var nilErr errors.NilValueError
	require.True(t, goerrors.As(err, &nilErr))
	require.Equal(t, before, e.listOutput(t))
}

// failingShardExec fails the last task of the shard-writing stage, once every other shard is staged
type failingShardExec struct {
	redact.ExecutionContext
	bucket *blob.Bucket
	calls  int
	staged []string
}

func (f *failingShardExec) Run(ctx context.Context, numTasks int, fn func(ctx context.Context, task int) error) error {
	f.calls++
	// the first stage evaluates the relation, the second writes shards
	if f.calls != 2 {
		return f.ExecutionContext.Run(ctx, numTasks, fn)
	}
	return f.ExecutionContext.Run(ctx, numTasks, func(ctx context.Context, task int) error {
		if task < numTasks-1 {
			return fn(ctx, task)
		}
		keys, err := storage.ListAllObjects(ctx, f.bucket, "")
		if err != nil {
			return err
		}
		f.staged = keys
		return fmt.Errorf("device full")
	})
}

func (e *testEnv) snapshot(t *testing.T) map[string]string {
	keys, err := storage.ListAllObjects(e.ctx, e.bucket, "")
	require.Nil(t, err)
	contents := make(map[string]string, len(keys))
	for _, key := range keys {
		data, err := e.bucket.ReadAll(e.ctx, key)
		require.Nil(t, err)
		contents[key] = string(data)
	}
	return contents
}

func TestShardFailureLeavesPreviousOutput(t *testing.T) {
	e := createTestEnv(t)
	w, err := CreateWriter(&WriterConf{})
	require.Nil(t, err)
	previous, err := w.Write(e.ctx, e.exec, createRelation(t, 6, 2), e.resolver, e.out, 2)
	require.Nil(t, err)
	before := e.snapshot(t)

	// one worker, so shards are staged in order
	serial, err := cluster.CreateLocalCluster(&cluster.LocalOptions{NumWorkers: 1})
	require.Nil(t, err)
	exec := &failingShardExec{ExecutionContext: serial, bucket: e.bucket}
	_, err = w.Write(e.ctx, exec, createRelation(t, 9, 3), e.resolver, e.out, 3)
	var writeErr *errors.OutputWriteError
	require.True(t, goerrors.As(err, &writeErr))
	require.Contains(t, err.Error(), "device full")

	var staged []string
	for _, key := range exec.staged {
		if strings.Contains(key, stagingDir) {
			staged = append(staged, key)
		}
	}
	require.Len(t, staged, 2)

	require.Equal(t, before, e.snapshot(t))
	stored, err := ReadManifest(e.ctx, e.bucket, e.out.Child(ManifestName).Key)
	require.Nil(t, err)
	require.Equal(t, previous.RunID, stored.RunID)
}

func TestWriteReplacesObjectAtOutput(t *testing.T) {
	e := createTestEnv(t)
	require.Nil(t, e.bucket.WriteAll(e.ctx, e.out.Key, []byte("a single object"), nil))
	w, err := CreateWriter(&WriterConf{})
	require.Nil(t, err)
	m, err := w.Write(e.ctx, e.exec, createRelation(t, 4, 2), e.resolver, e.out, 2)
	require.Nil(t, err)
	isObject, err := storage.IsObject(e.ctx, e.bucket, e.out.Key)
	require.Nil(t, err)
	require.False(t, isObject)
	require.Equal(t, []string{ManifestName, m.Shards[0].Name, m.Shards[1].Name}, e.listOutput(t))
}

func TestStagingLocation(t *testing.T) {
	out, err := storage.ParseLocation("s3://", "bucket/data/output")
	require.Nil(t, err)
	require.Equal(t, "data/_temporary-output-run", stagingLocation(out, "run").Key)

	top, err := storage.ParseLocation("s3://", "bucket")
	require.Nil(t, err)
	require.Equal(t, "_temporary/run", stagingLocation(top, "run").Key)
}

func TestWriteLz4(t *testing.T) {
	e := createTestEnv(t)
	w, err := CreateWriter(&WriterConf{Compression: Lz4Compression})
	require.Nil(t, err)
	m, err := w.Write(e.ctx, e.exec, createRelation(t, 3, 3), e.resolver, e.out, 1)
	require.Nil(t, err)
	require.Len(t, m.Shards, 1)
	require.True(t, strings.HasSuffix(m.Shards[0].Name, ".csv.lz4"))
	data, err := e.bucket.ReadAll(e.ctx, e.out.Child(m.Shards[0].Name).Key)
	require.Nil(t, err)
	plain, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	require.Nil(t, err)
	require.Equal(t, "0,\n1,\"note, 1\"\n2,\"note, 2\"\n", string(plain))

	_, err = CreateWriter(&WriterConf{Compression: "zstd"})
	require.NotNil(t, err)
}
