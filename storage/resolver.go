package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/azureblob" // registers azblob://
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob" // registers gs://
	"gocloud.dev/blob/memblob"
	"gocloud.dev/blob/s3blob"
)

// in-memory buckets live for the lifetime of the process, so that
// separate Resolvers see the same data
var (
	memBucketsLock sync.Mutex
	memBuckets     = make(map[string]*blob.Bucket)
)

func memBucket(name string) *blob.Bucket {
	memBucketsLock.Lock()
	defer memBucketsLock.Unlock()
	bucket, ok := memBuckets[name]
	if !ok {
		bucket = memblob.OpenBucket(nil)
		memBuckets[name] = bucket
	}
	return bucket
}

// A Resolver opens the bucket behind a Location, caching opened buckets
// until it is closed. It is safe for concurrent use.
type Resolver struct {
	lock     sync.Mutex
	buckets  map[string]*blob.Bucket
	s3Client *s3.Client
}

// CreateResolver creates a Resolver
func CreateResolver() *Resolver {
	return &Resolver{buckets: make(map[string]*blob.Bucket)}
}

// Open returns the bucket holding a Location
func (r *Resolver) Open(ctx context.Context, loc Location) (*blob.Bucket, error) {
	if loc.Scheme == MemScheme {
		return memBucket(loc.Bucket), nil
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	cacheKey := fmt.Sprintf("%s://%s", loc.Scheme, loc.Bucket)
	if bucket, ok := r.buckets[cacheKey]; ok {
		return bucket, nil
	}
	bucket, err := r.open(ctx, loc)
	if err != nil {
		return nil, err
	}
	log.Debugf("Opened bucket %s", cacheKey)
	r.buckets[cacheKey] = bucket
	return bucket, nil
}

func (r *Resolver) open(ctx context.Context, loc Location) (*blob.Bucket, error) {
	switch loc.Scheme {
	case FileScheme:
		// attribute sidecars would sit beside every output file
		return fileblob.OpenBucket("/", &fileblob.Options{Metadata: fileblob.MetadataDontWrite})
	case S3Scheme:
		if r.s3Client == nil {
			cfg, err := config.LoadDefaultConfig(ctx)
			if err != nil {
				return nil, fmt.Errorf("load s3 config: %w", err)
			}
			r.s3Client = s3.NewFromConfig(cfg)
		}
		return s3blob.OpenBucketV2(ctx, r.s3Client, loc.Bucket, nil)
	case GCSScheme, AzureScheme:
		return blob.OpenBucket(ctx, fmt.Sprintf("%s://%s", loc.Scheme, loc.Bucket))
	default:
		return nil, fmt.Errorf("unsupported scheme %q", loc.Scheme)
	}
}

// Close closes every bucket opened by this Resolver
func (r *Resolver) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	var multierr *multierror.Error
	for name, bucket := range r.buckets {
		if err := bucket.Close(); err != nil {
			multierr = multierror.Append(multierr, fmt.Errorf("close %s: %w", name, err))
		}
	}
	r.buckets = make(map[string]*blob.Bucket)
	return multierr.ErrorOrNil()
}
