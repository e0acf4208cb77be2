// Package ingestion bulk-loads action records from an S3-compatible object
// store into the event store. Files are gzip-compressed NDJSON; a load run
// either ingests every listed object or fails as a whole.
package ingestion

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectSource lists and opens action files in a bulk object store.
type ObjectSource interface {
	// List returns the keys of all action files, in lexical order.
	List(ctx context.Context) ([]string, error)

	// Open opens one object for reading. The caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MinioSource implements ObjectSource against an S3-compatible endpoint.
type MinioSource struct {
	client *minio.Client
	bucket string
	prefix string
}

// MinioSourceOptions contains configuration for creating a MinioSource.
type MinioSourceOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

// NewMinioSource creates a new object source.
func NewMinioSource(opts MinioSourceOptions) (*MinioSource, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	return &MinioSource{
		client: client,
		bucket: opts.Bucket,
		prefix: opts.Prefix,
	}, nil
}

// List returns the keys of all .ndjson.gz objects under the prefix.
func (s *MinioSource) List(ctx context.Context) ([]string, error) {
	var keys []string

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects in %s/%s: %w", s.bucket, s.prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".ndjson.gz") {
			keys = append(keys, obj.Key)
		}
	}

	return keys, nil
}

// Open opens one object for reading.
func (s *MinioSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	return obj, nil
}

var _ ObjectSource = (*MinioSource)(nil)
