// Package storage wraps the MinIO client behind a small service constructed
// at startup and handed to the components that upload or delete objects.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

const (
	// Object key prefixes inside the bucket.
	UploadsPrefix = "uploads"
	QRCodesPrefix = "qrcodes"
)

type Service struct {
	client   *minio.Client
	bucket   string
	endpoint string
	secure   bool
}

func New(client *minio.Client, bucket, endpoint string, secure bool) *Service {
	return &Service{client: client, bucket: bucket, endpoint: endpoint, secure: secure}
}

// Upload stores an object under key and returns its public URL. Re-uploading
// the same key overwrites the previous object.
func (s *Service) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

// Remove deletes an object. Callers treat failures as best-effort.
func (s *Service) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// PublicURL builds the fetchable URL for a stored key.
func (s *Service) PublicURL(key string) string {
	scheme := "http"
	if s.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key)
}
