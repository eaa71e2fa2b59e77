package objects

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store holds wall photo blobs.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// PhotoKey builds a collision-free object key for a draft photo, keeping the
// original file extension.
func PhotoKey(draftID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return path.Join("drafts", draftID, uuid.NewString()+ext)
}
