package storage

import (
	"context"
	"io"
	"time"
)

// UnavailableStorage is wired in when R2 credentials are missing. Uploads
// fail with a stable error instead of panicking on a nil client.
type UnavailableStorage struct{}

var _ ObjectStorage = &UnavailableStorage{}

func NewUnavailableStorage() *UnavailableStorage {
	return &UnavailableStorage{}
}

func (u *UnavailableStorage) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	return ErrUnavailable
}

func (u *UnavailableStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, ErrUnavailable
}

func (u *UnavailableStorage) Head(ctx context.Context, key string) (int64, error) {
	return 0, ErrUnavailable
}

func (u *UnavailableStorage) PresignPut(ctx context.Context, key string, contentType string, expires time.Duration) (string, error) {
	return "", ErrUnavailable
}
