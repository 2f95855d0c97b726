package s3

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/mwantia/modtree/backend"
)

func (sb *S3Backend) Stat(ctx context.Context, key string) (bool, error) {
	if strings.HasSuffix(key, backend.KeySeparator) {
		return false, nil
	}

	sb.mu.RLock()
	defer sb.mu.RUnlock()

	_, err := sb.client.StatObject(ctx, sb.bucketName, sb.objectKey(key), minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (sb *S3Backend) HasPrefix(ctx context.Context, prefix string) (bool, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	// Stop the listing goroutine once the first object arrived
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectsCh := sb.client.ListObjects(ctx, sb.bucketName, minio.ListObjectsOptions{
		Prefix:    sb.objectKey(prefix),
		Recursive: true,
		MaxKeys:   1,
	})

	for obj := range objectsCh {
		if obj.Err != nil {
			return false, obj.Err
		}
		return true, nil
	}

	return false, nil
}

func (sb *S3Backend) List(ctx context.Context, prefix string) ([]string, []string, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	// Non-recursive listings return common prefixes as keys ending in "/"
	objectsCh := sb.client.ListObjects(ctx, sb.bucketName, minio.ListObjectsOptions{
		Prefix:    sb.objectKey(prefix),
		Recursive: false,
	})

	var keys []string
	for obj := range objectsCh {
		if obj.Err != nil {
			return nil, nil, obj.Err
		}
		if rel, ok := strings.CutPrefix(obj.Key, sb.prefix); ok {
			keys = append(keys, rel)
		}
	}

	objects, prefixes := backend.SplitListing(prefix, slices.Values(keys))
	return objects, prefixes, nil
}

func (sb *S3Backend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if strings.HasSuffix(key, backend.KeySeparator) {
		return nil, backend.ErrIsContainer
	}

	sb.mu.RLock()
	defer sb.mu.RUnlock()

	object, err := sb.client.GetObject(ctx, sb.bucketName, sb.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	// GetObject is lazy; Stat surfaces a missing key
	if _, err := object.Stat(); err != nil {
		object.Close()
		if isNoSuchKey(err) {
			return nil, backend.ErrNotExist
		}
		return nil, err
	}

	return object, nil
}
