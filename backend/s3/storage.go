package s3

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/mwantia/modtree/backend"
)

// Put stores data under key, replacing any previous content.
func (sb *S3Backend) Put(ctx context.Context, key string, data []byte) error {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return err
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()

	_, err = sb.client.PutObject(ctx, sb.bucketName, sb.objectKey(key), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

// Mkdir records an empty container at key as a zero-byte object with trailing slash.
func (sb *S3Backend) Mkdir(ctx context.Context, key string) error {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return err
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()

	_, err = sb.client.PutObject(ctx, sb.bucketName, sb.objectKey(key)+backend.KeySeparator, bytes.NewReader(nil), 0, minio.PutObjectOptions{
		ContentType: "application/x-directory",
	})
	return err
}

// Delete removes the object stored at key.
func (sb *S3Backend) Delete(ctx context.Context, key string) error {
	key, err := backend.NormalizeKey(key)
	if err != nil {
		return err
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()

	return sb.client.RemoveObject(ctx, sb.bucketName, sb.objectKey(key), minio.RemoveObjectOptions{})
}

// DeleteTree removes every object below the configured prefix.
// Returns ErrNoPrefix if the backend exposes the whole bucket.
func (sb *S3Backend) DeleteTree(ctx context.Context) error {
	if sb.prefix == "" {
		return backend.ErrNoPrefix
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()

	// Stop the listing goroutine if a removal fails
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectsCh := sb.client.ListObjects(ctx, sb.bucketName, minio.ListObjectsOptions{
		Prefix:    sb.prefix,
		Recursive: true,
	})

	for obj := range objectsCh {
		if obj.Err != nil {
			return obj.Err
		}
		if err := sb.client.RemoveObject(ctx, sb.bucketName, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return err
		}
	}

	return nil
}
