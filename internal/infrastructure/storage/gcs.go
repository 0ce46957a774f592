package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
)

// GCSStore stores objects in a Google Cloud Storage bucket.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSStore dials GCS with application default credentials.
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, path string, body io.Reader, contentType string, maxBytes int64) (*PutResult, error) {
	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType

	hasher := sha256.New()
	var total int64
	buf := make([]byte, 1<<20)
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			total += int64(n)
			if maxBytes > 0 && total > maxBytes {
				_ = w.Close()
				return nil, ErrTooLarge
			}
			if _, werr := w.Write(buf[:n]); werr != nil {
				_ = w.Close()
				return nil, fmt.Errorf("gcs write: %w", werr)
			}
			hasher.Write(buf[:n])
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			_ = w.Close()
			return nil, fmt.Errorf("read upload: %w", rerr)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gcs close: %w", err)
	}

	return &PutResult{
		URL:    fmt.Sprintf("gs://%s/%s", s.bucket, path),
		Size:   total,
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

func (s *GCSStore) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	bucket, object, err := splitGS(url)
	if err != nil {
		return nil, err
	}
	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs open: %w", err)
	}
	return r, nil
}

func (s *GCSStore) SignedURL(_ context.Context, url string, expiry time.Duration) (string, error) {
	bucket, object, err := splitGS(url)
	if err != nil {
		return "", err
	}
	signed, err := s.client.Bucket(bucket).SignedURL(object, &gcs.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	})
	if err != nil {
		return "", fmt.Errorf("gcs sign: %w", err)
	}
	return signed, nil
}

func splitGS(url string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(url, "gs://")
	if !ok {
		return "", "", ErrUnsupportedURL
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok {
		return "", "", ErrUnsupportedURL
	}
	return bucket, object, nil
}
