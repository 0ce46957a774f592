package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps objects under a base directory on the filesystem.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("storage dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{baseDir: abs}, nil
}

func (s *LocalStore) Put(_ context.Context, path string, body io.Reader, _ string, maxBytes int64) (*PutResult, error) {
	full := filepath.Join(s.baseDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	var total int64
	buf := make([]byte, 1<<20)
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			total += int64(n)
			if maxBytes > 0 && total > maxBytes {
				_ = os.Remove(full)
				return nil, ErrTooLarge
			}
			if _, werr := f.Write(buf[:n]); werr != nil {
				return nil, fmt.Errorf("write file: %w", werr)
			}
			hasher.Write(buf[:n])
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, fmt.Errorf("read upload: %w", rerr)
		}
	}

	return &PutResult{
		URL:    "file://" + filepath.ToSlash(full),
		Size:   total,
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

func (s *LocalStore) Open(_ context.Context, url string) (io.ReadCloser, error) {
	path, ok := strings.CutPrefix(url, "file://")
	if !ok {
		return nil, ErrUnsupportedURL
	}
	return os.Open(filepath.FromSlash(path))
}

// SignedURL on local storage is a no-op: the file URL is returned as is.
func (s *LocalStore) SignedURL(_ context.Context, url string, _ time.Duration) (string, error) {
	if !strings.HasPrefix(url, "file://") {
		return "", ErrUnsupportedURL
	}
	return url, nil
}
