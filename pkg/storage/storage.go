// Package storage abstracts the object store that holds split job inputs
// and per-page output artifacts.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rotostampa/pdf-handler/pkg/logger"
	"github.com/rotostampa/pdf-handler/pkg/storage/minio"
	"github.com/rotostampa/pdf-handler/pkg/storage/s3"
)

// Type selects a storage backend.
type Type string

const (
	TypeMinio Type = "minio"
	TypeS3    Type = "s3"
)

// Storage is the object store surface the split service needs.
type Storage interface {
	// Store writes the object under key with the given content type.
	Store(ctx context.Context, key string, contentType string, r io.Reader) error
	// Get opens the object under key for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object under key.
	Delete(ctx context.Context, key string) error
	// CleanupBefore deletes objects last modified before threshold.
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// New builds a backend by type.
func New(t Type, log logger.Logger) (Storage, error) {
	switch t {
	case TypeMinio:
		return minio.New(log)
	case TypeS3:
		return s3.New(log)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", t)
	}
}
