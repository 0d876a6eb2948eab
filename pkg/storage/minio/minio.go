// Package minio implements object storage on a MinIO (or S3-compatible)
// endpoint.
package minio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	cfg "github.com/rotostampa/pdf-handler/config"
	"github.com/rotostampa/pdf-handler/pkg/logger"
)

// Store holds a MinIO client bound to one bucket.
type Store struct {
	client *minio.Client
	bucket string
	log    logger.Logger
}

// New connects to the configured endpoint and ensures the bucket exists.
func New(log logger.Logger) (*Store, error) {
	mc := cfg.GetMinioConfig()
	client, err := minio.New(mc.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(mc.AccessKey, mc.SecretKey, ""),
		Secure: mc.UseSSL,
		Region: mc.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), mc.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", mc.BucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), mc.BucketName, minio.MakeBucketOptions{Region: mc.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", mc.BucketName, err)
		}
	}

	return &Store{client: client, bucket: mc.BucketName, log: log}, nil
}

func (s *Store) Store(ctx context.Context, key string, contentType string, r io.Reader) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.log.Error("store object failed",
			logger.String("bucket", s.bucket),
			logger.String("key", key),
			logger.Error(err),
		)
		return fmt.Errorf("store %q: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		s.log.Error("get object failed",
			logger.String("bucket", s.bucket),
			logger.String("key", key),
			logger.Error(err),
		)
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return obj, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.log.Error("delete object failed",
			logger.String("bucket", s.bucket),
			logger.String("key", key),
			logger.Error(err),
		)
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// CleanupBefore removes expired job artifacts.
func (s *Store) CleanupBefore(ctx context.Context, threshold time.Time) error {
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			s.log.Error("list objects failed",
				logger.String("bucket", s.bucket),
				logger.Error(obj.Err),
			)
			continue
		}
		if obj.LastModified.Before(threshold) {
			if err := s.Delete(ctx, obj.Key); err != nil {
				continue
			}
			s.log.Info("deleted expired object",
				logger.String("key", obj.Key),
				logger.Time("lastModified", obj.LastModified),
			)
		}
	}
	return nil
}
