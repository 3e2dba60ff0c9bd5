package staging

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cropwise/fieldadvisor/internal/domain/diagnosis"
)

// MinioStorage stages diagnosis images in an S3-compatible bucket.
type MinioStorage struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewMinioStorage constructs the storage adapter.
func NewMinioStorage(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*MinioStorage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := strings.HasPrefix(strings.ToLower(endpoint), "https")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init staging client: %w", err)
	}
	return &MinioStorage{client: client, bucket: bucket, logger: logger.With("component", "staging.minio")}, nil
}

func (s *MinioStorage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

// Put uploads the image bytes under key.
func (s *MinioStorage) Put(ctx context.Context, key string, data []byte, mimeType string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType:      mimeType,
		DisableMultipart: len(data) < 5*1024*1024, // small uploads as single part
	})
	return err
}

// Delete removes a staged image.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

var _ diagnosis.ObjectStorage = (*MinioStorage)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if strings.Contains(raw, "/") {
		parts := strings.Split(raw, "/")
		raw = parts[0]
	}
	return raw
}
