package storage

import (
	"context"
	goerrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errors "github.com/go-sif/redact/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("s3a://", "my-bucket/data/input")
	require.Nil(t, err)
	require.Equal(t, Location{Scheme: S3Scheme, Bucket: "my-bucket", Key: "data/input"}, loc)
	require.Equal(t, "s3://my-bucket/data/input", loc.String())
	require.Equal(t, "data/input/", loc.Prefix())
	require.Equal(t, "data/input/_SUCCESS", loc.Child("_SUCCESS").Key)
	require.Equal(t, "input", loc.Base())
	parent, ok := loc.Parent()
	require.True(t, ok)
	require.Equal(t, "data", parent.Key)
	parent, ok = parent.Parent()
	require.True(t, ok)
	require.Equal(t, "", parent.Key)
	_, ok = parent.Parent()
	require.False(t, ok)

	loc, err = ParseLocation("mem:", "/scratch/")
	require.Nil(t, err)
	require.Equal(t, Location{Scheme: MemScheme, Bucket: "scratch"}, loc)
	require.Equal(t, "", loc.Prefix())
	require.Equal(t, "a.csv", loc.Child("a.csv").Key)

	loc, err = ParseLocation("file://", "/tmp/out")
	require.Nil(t, err)
	require.Equal(t, "tmp/out", loc.Key)
	require.Equal(t, "file:///tmp/out", loc.String())

	loc, err = ParseLocation("FILE", "relative/dir")
	require.Nil(t, err)
	wd, err := os.Getwd()
	require.Nil(t, err)
	require.Equal(t, strings.Trim(filepath.ToSlash(filepath.Join(wd, "relative/dir")), "/"), loc.Key)
}

func TestParseLocationErrors(t *testing.T) {
	var confErr *errors.ConfigurationError
	_, err := ParseLocation("ftp://", "host/file")
	require.True(t, goerrors.As(err, &confErr))
	_, err = ParseLocation("s3://", "")
	require.True(t, goerrors.As(err, &confErr))
	_, err = ParseLocation("gs://", "/")
	require.True(t, goerrors.As(err, &confErr))
}

func TestMemBucketsAreShared(t *testing.T) {
	ctx := context.Background()
	loc, err := ParseLocation("mem://", uuid.NewString()+"/dir/file.csv")
	require.Nil(t, err)
	first := CreateResolver()
	defer first.Close()
	bucket, err := first.Open(ctx, loc)
	require.Nil(t, err)
	require.Nil(t, bucket.WriteAll(ctx, loc.Key, []byte("a,b\n"), nil))

	second := CreateResolver()
	defer second.Close()
	other, err := second.Open(ctx, loc)
	require.Nil(t, err)
	data, err := other.ReadAll(ctx, loc.Key)
	require.Nil(t, err)
	require.Equal(t, "a,b\n", string(data))
}

func TestObjectHelpers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	loc, err := ParseLocation("file://", dir)
	require.Nil(t, err)
	resolver := CreateResolver()
	defer resolver.Close()
	bucket, err := resolver.Open(ctx, loc)
	require.Nil(t, err)

	for _, name := range []string{"b.csv", "a.csv", "_SUCCESS", "nested/c.csv"} {
		require.Nil(t, bucket.WriteAll(ctx, loc.Child(name).Key, []byte("x"), nil))
	}
	// no attribute sidecars beside local objects
	entries, err := os.ReadDir(dir)
	require.Nil(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	require.Equal(t, []string{"_SUCCESS", "a.csv", "b.csv", "nested"}, names)

	isObject, err := IsObject(ctx, bucket, loc.Key)
	require.Nil(t, err)
	require.False(t, isObject)
	isObject, err = IsObject(ctx, bucket, loc.Child("a.csv").Key)
	require.Nil(t, err)
	require.True(t, isObject)
	isObject, err = IsObject(ctx, bucket, loc.Child("missing.csv").Key)
	require.Nil(t, err)
	require.False(t, isObject)

	keys, err := ListObjects(ctx, bucket, loc.Prefix())
	require.Nil(t, err)
	require.Equal(t, []string{loc.Child("_SUCCESS").Key, loc.Child("a.csv").Key, loc.Child("b.csv").Key}, keys)
	require.True(t, IsHidden(keys[0]))
	require.False(t, IsHidden(keys[1]))

	_, err = bucket.ReadAll(ctx, loc.Child("missing.csv").Key)
	require.True(t, IsNotExist(err))

	require.Nil(t, DeletePrefix(ctx, bucket, loc.Prefix()))
	keys, err = ListObjects(ctx, bucket, loc.Child("nested").Prefix())
	require.Nil(t, err)
	require.Len(t, keys, 0)
}

func TestPruneEmptyDirs(t *testing.T) {
	root := t.TempDir()
	require.Nil(t, os.MkdirAll(filepath.Join(root, "out", "a", "b"), 0755))
	require.Nil(t, os.MkdirAll(filepath.Join(root, "out", "c"), 0755))
	require.Nil(t, os.WriteFile(filepath.Join(root, "out", "c", "keep.csv"), []byte("x"), 0644))
	loc, err := ParseLocation("file://", filepath.Join(root, "out"))
	require.Nil(t, err)

	require.Nil(t, PruneEmptyDirs(loc))
	entries, err := os.ReadDir(filepath.Join(root, "out"))
	require.Nil(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "c", entries[0].Name())

	require.Nil(t, os.Remove(filepath.Join(root, "out", "c", "keep.csv")))
	require.Nil(t, PruneEmptyDirs(loc))
	_, err = os.Stat(filepath.Join(root, "out"))
	require.True(t, os.IsNotExist(err))
	require.Nil(t, PruneEmptyDirs(loc))
}
