// Package blob stores uploaded files in a bucket or a local directory and
// builds their public urls.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/folio-cms/folio/internal/config"
)

var (
	// ErrObjectExists is returned when a key is already taken. Objects are never overwritten.
	ErrObjectExists = errors.New("object already exists")

	// ErrInvalidKey is returned for empty keys or keys leaving the store root.
	ErrInvalidKey = errors.New("invalid object key")
)

// Store is a write-only object store with public read urls.
type Store interface {
	// Put writes size bytes of r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType, cacheControl string) error
	// PublicURL returns the url the object under key is served from.
	PublicURL(key string) string
}

// New returns the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.Storage) (Store, error) {
	switch cfg.Driver {
	case config.StorageS3:
		return NewS3(ctx, cfg)
	case config.StorageMinio:
		return NewMinio(cfg)
	case config.StorageLocal, "":
		return NewLocal(cfg.LocalPath, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownStorageDriver, cfg.Driver)
	}
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}

	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "" {
			return false
		}
	}

	return true
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
