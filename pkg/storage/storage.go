package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnavailable is returned by the unavailable stub for every call. Callers
// map it to the STORAGE_UNAVAILABLE error code.
var ErrUnavailable = errors.New("object storage is not configured")

// ObjectStorage abstracts the material blob store (Cloudflare R2 in
// production, any S3-compatible endpoint elsewhere).
type ObjectStorage interface {
	// Put uploads an object and returns nothing; the key is caller-chosen.
	Put(ctx context.Context, key string, body io.Reader, contentType string) error

	// Get downloads an object. The caller must close the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Head returns the object size, or an error if the object is missing.
	Head(ctx context.Context, key string) (int64, error)

	// PresignPut returns a URL a client can PUT the object to directly.
	PresignPut(ctx context.Context, key string, contentType string, expires time.Duration) (string, error)
}
