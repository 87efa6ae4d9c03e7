package repository

import (
	"context"
	"io"
)

// ObjectStorage defines the interface for the transcript cold archive.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
type ObjectStorage interface {
	// Upload stores an object under key.
	// Used by the worker service when archiving caption documents.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Exists reports whether an object is already stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}
