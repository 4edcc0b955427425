package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
)

// S3Purger removes listing media objects from the bucket.
type S3Purger struct {
	client *minio.Client
	bucket string
}

func NewS3Purger(client *minio.Client, bucket string) *S3Purger {
	return &S3Purger{
		client: client,
		bucket: strings.TrimSpace(bucket),
	}
}

// Delete removes one object. Removing a missing object succeeds.
func (p *S3Purger) Delete(ctx context.Context, key string) error {
	if p.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if p.bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return nil
	}

	if err := p.client.RemoveObject(ctx, p.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("remove object %q from s3: %w", key, err)
	}
	return nil
}
