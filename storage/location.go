package storage

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	errors "github.com/go-sif/redact/errors"
)

// Scheme identifies a storage backend
type Scheme = string

const (
	// FileScheme addresses the local filesystem
	FileScheme Scheme = "file"
	// MemScheme addresses process-wide in-memory buckets, mostly useful for testing
	MemScheme Scheme = "mem"
	// S3Scheme addresses Amazon S3. s3a and s3n are accepted as aliases.
	S3Scheme Scheme = "s3"
	// GCSScheme addresses Google Cloud Storage
	GCSScheme Scheme = "gs"
	// AzureScheme addresses Azure Blob Storage
	AzureScheme Scheme = "azblob"
)

var schemeAliases = map[string]Scheme{
	"file":   FileScheme,
	"mem":    MemScheme,
	"s3":     S3Scheme,
	"s3a":    S3Scheme,
	"s3n":    S3Scheme,
	"gs":     GCSScheme,
	"azblob": AzureScheme,
}

// A Location is an object or directory within a bucket. Keys use "/" as a
// separator and never start or end with one.
type Location struct {
	Scheme Scheme
	Bucket string // empty for the local filesystem
	Key    string
}

// NormalizeScheme turns a path scheme such as "file://", "S3A:" or "gs" into a
// supported Scheme
func NormalizeScheme(pathScheme string) (Scheme, error) {
	s := strings.ToLower(strings.TrimSpace(pathScheme))
	s = strings.TrimSuffix(s, "//")
	s = strings.TrimSuffix(s, ":")
	scheme, ok := schemeAliases[s]
	if !ok {
		return "", &errors.ConfigurationError{Reason: fmt.Sprintf("unsupported path scheme %q", pathScheme)}
	}
	return scheme, nil
}

// ParseLocation combines a path scheme and a path into a Location. Local paths
// may be relative, and are made absolute. For every other scheme, the first
// path segment names the bucket.
func ParseLocation(pathScheme string, p string) (Location, error) {
	scheme, err := NormalizeScheme(pathScheme)
	if err != nil {
		return Location{}, err
	}
	if len(strings.TrimSpace(p)) == 0 {
		return Location{}, &errors.ConfigurationError{Reason: "path must not be empty"}
	}
	if scheme == FileScheme {
		abs, err := filepath.Abs(filepath.FromSlash(p))
		if err != nil {
			return Location{}, &errors.ConfigurationError{Reason: fmt.Sprintf("invalid local path %q", p), Err: err}
		}
		key := strings.Trim(filepath.ToSlash(abs), "/")
		if len(key) == 0 {
			return Location{}, &errors.ConfigurationError{Reason: "path must not be the filesystem root"}
		}
		return Location{Scheme: scheme, Key: key}, nil
	}
	cleaned := strings.Trim(path.Clean("/"+p), "/")
	bucket, key, _ := strings.Cut(cleaned, "/")
	if len(bucket) == 0 {
		return Location{}, &errors.ConfigurationError{Reason: fmt.Sprintf("missing bucket in %s path %q", scheme, p)}
	}
	return Location{Scheme: scheme, Bucket: bucket, Key: key}, nil
}

// String returns a URL-like representation of this Location
func (l Location) String() string {
	if l.Scheme == FileScheme {
		return fmt.Sprintf("file:///%s", l.Key)
	}
	if len(l.Key) == 0 {
		return fmt.Sprintf("%s://%s", l.Scheme, l.Bucket)
	}
	return fmt.Sprintf("%s://%s/%s", l.Scheme, l.Bucket, l.Key)
}

// Child returns the Location of a named object beneath this one
func (l Location) Child(name ...string) Location {
	parts := append([]string{l.Key}, name...)
	l.Key = strings.Trim(path.Join(parts...), "/")
	return l
}

// Prefix returns the key prefix shared by every object beneath this Location
func (l Location) Prefix() string {
	if len(l.Key) == 0 {
		return ""
	}
	return l.Key + "/"
}

// Base returns the last element of this Location's key
func (l Location) Base() string {
	return path.Base(l.Key)
}

// Parent returns the Location holding this one. ok is false at the top of a bucket.
func (l Location) Parent() (parent Location, ok bool) {
	if len(l.Key) == 0 {
		return l, false
	}
	dir := path.Dir(l.Key)
	if dir == "." {
		dir = ""
	}
	l.Key = dir
	return l, true
}
