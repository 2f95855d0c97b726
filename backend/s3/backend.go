package s3

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mwantia/modtree/backend"
)

// S3Backend exposes a bucket, or a prefix within it, of any S3 compatible
// object storage. Object keys are resources, "/" delimited key prefixes are
// containers; empty containers may be recorded as zero-byte objects ending in "/".
type S3Backend struct {
	mu sync.RWMutex

	client     *minio.Client
	endpoint   string
	bucketName string
	prefix     string
}

func NewS3Backend(endpoint, bucketName, prefix, accessKey, secretKey string, useSsl bool) (*S3Backend, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSsl,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrMalformedAddress, err)
	}

	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &S3Backend{
		client:     client,
		endpoint:   endpoint,
		bucketName: bucketName,
		prefix:     prefix,
	}, nil
}

// Returns the identifier name defined for this backend
func (*S3Backend) Name() string {
	return "s3"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend.
func (sb *S3Backend) Open(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	exists, err := sb.client.BucketExists(ctx, sb.bucketName)
	if err != nil {
		return fmt.Errorf("%w: %w", backend.ErrOpenFailed, err)
	}

	if !exists {
		return fmt.Errorf("%w: bucket '%s' does not exist", backend.ErrOpenFailed, sb.bucketName)
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (sb *S3Backend) Close(ctx context.Context) error {
	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (sb *S3Backend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityEnumerate,
			backend.CapabilityStreaming,
			backend.CapabilityPersistent,
			backend.CapabilityRemote,
			backend.CapabilityWritable,
		},
	}
}

// Root returns the container at the configured bucket prefix.
func (sb *S3Backend) Root(ctx context.Context) (backend.Store, error) {
	return backend.NewKeyspaceStore(sb, "s3://"+sb.endpoint+"/"+sb.bucketName+"/"+sb.prefix), nil
}

func (sb *S3Backend) objectKey(key string) string {
	return sb.prefix + key
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
