package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// FileDedup provides fast idempotency checks for bulk uploads, in front of
// the database-level (entity, file_hash) unique constraint.
// Key format: bulk:dedup:<entity>:<sha256>
type FileDedup struct {
	client *redis.Client
}

// NewFileDedup creates a FileDedup wrapping the given Redis client.
func NewFileDedup(client *redis.Client) *FileDedup {
	return &FileDedup{client: client}
}

// IsDuplicate reports whether a file with this hash was already uploaded
// for the entity within the dedup window.
func (d *FileDedup) IsDuplicate(ctx context.Context, entity, fileHash string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(entity, fileHash)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records the upload (expires after dedupTTL).
func (d *FileDedup) Mark(ctx context.Context, entity, fileHash string) error {
	return d.client.Set(ctx, d.key(entity, fileHash), "1", dedupTTL).Err()
}

func (d *FileDedup) key(entity, fileHash string) string {
	return fmt.Sprintf("bulk:dedup:%s:%s", entity, fileHash)
}
