// Package storage abstracts the object store holding bulk import/export
// files. Two implementations exist: a local filesystem store for
// development and tests, and a Google Cloud Storage store for production.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrTooLarge = errors.New("file exceeds maximum allowed size")
var ErrUnsupportedURL = errors.New("unsupported file url")

// PutResult describes a stored object.
type PutResult struct {
	// URL is the canonical object reference (file:// or gs://).
	URL  string
	Size int64
	// SHA256 is the hex digest of the stored bytes.
	SHA256 string
}

// Store is the object-store port used by the bulk subsystem.
type Store interface {
	// Put streams body into the store under path, hashing as it writes.
	// maxBytes <= 0 disables the size cap.
	Put(ctx context.Context, path string, body io.Reader, contentType string, maxBytes int64) (*PutResult, error)
	// Open returns a reader for a URL previously returned by Put.
	Open(ctx context.Context, url string) (io.ReadCloser, error)
	// SignedURL returns a time-limited download link. Local files return
	// their file:// URL unchanged.
	SignedURL(ctx context.Context, url string, expiry time.Duration) (string, error)
}
