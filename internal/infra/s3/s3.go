package s3

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// NewClient accepts the endpoint with or without a scheme; an https:// prefix
// forces TLS.
func NewClient(cfg Config) (*minio.Client, error) {
	endpoint, secure := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	return client, nil
}

// CheckBucket verifies the media bucket is reachable before the worker starts
// purging from it.
func CheckBucket(ctx context.Context, client *minio.Client, bucket string) error {
	if client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check s3 bucket %q: %w", bucket, err)
	}
	if !exists {
		return fmt.Errorf("s3 bucket %q does not exist", bucket)
	}
	return nil
}

func splitEndpoint(raw string, useSSL bool) (string, bool) {
	endpoint := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint, useSSL = strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		endpoint, useSSL = strings.TrimPrefix(endpoint, "http://"), false
	}
	return strings.TrimRight(endpoint, "/"), useSSL
}
