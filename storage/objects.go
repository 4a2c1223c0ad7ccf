package storage

import (
	"context"
	goerrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// IsNotExist reports whether an error returned by a bucket means that an object does not exist
func IsNotExist(err error) bool {
	return gcerrors.Code(err) == gcerrors.NotFound
}

// IsObject reports whether a key names an object, as opposed to a directory
// or nothing at all
func IsObject(ctx context.Context, bucket *blob.Bucket, key string) (bool, error) {
	if len(key) == 0 {
		return false, nil
	}
	iter := bucket.List(&blob.ListOptions{Prefix: key, Delimiter: "/"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			return false, nil
		} else if err != nil {
			return false, err
		}
		if !obj.IsDir && obj.Key == key {
			return true, nil
		}
	}
}

// ListObjects returns the keys of the objects directly beneath a prefix, in lexical order
func ListObjects(ctx context.Context, bucket *blob.Bucket, prefix string) ([]string, error) {
	var keys []string
	iter := bucket.List(&blob.ListOptions{Prefix: prefix, Delimiter: "/"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if !obj.IsDir {
			keys = append(keys, obj.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// ListAllObjects returns the keys of every object beneath a prefix, at any depth
func ListAllObjects(ctx context.Context, bucket *blob.Bucket, prefix string) ([]string, error) {
	var keys []string
	iter := bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if !obj.IsDir {
			keys = append(keys, obj.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// DeletePrefix deletes every object beneath a prefix, at any depth
func DeletePrefix(ctx context.Context, bucket *blob.Bucket, prefix string) error {
	keys, err := ListAllObjects(ctx, bucket, prefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := bucket.Delete(ctx, key); err != nil && !IsNotExist(err) {
			return err
		}
	}
	return nil
}

// IsHidden reports whether the final element of a key marks it as
// metadata or a hidden file, which readers skip
func IsHidden(key string) bool {
	name := key[strings.LastIndex(key, "/")+1:]
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

// PruneEmptyDirs removes the empty directories beneath a local Location, and the
// Location itself once it is empty. Object stores have no directories, so
// other schemes are left alone.
func PruneEmptyDirs(loc Location) error {
	if loc.Scheme != FileScheme {
		return nil
	}
	var dirs []string
	err := filepath.WalkDir(filepath.FromSlash("/"+loc.Key), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	if goerrors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	// children come after their parents
	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			if err := os.Remove(dirs[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
