package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	localDirPerm  = 0o750
	localFilePerm = 0o640
)

// Local keeps objects as files below a root directory.
type Local struct {
	root    string
	baseURL string
}

// NewLocal returns a store writing below root. baseURL is where root is served,
// "/media" when empty.
func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty local path", ErrInvalidKey)
	}

	if err := os.MkdirAll(root, localDirPerm); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}

	if baseURL == "" {
		baseURL = "/media"
	}

	return &Local{root: root, baseURL: baseURL}, nil
}

// Root returns the directory objects are written to.
func (l *Local) Root() string {
	return l.root
}

// Put implements Store. The file is created exclusively.
func (l *Local) Put(ctx context.Context, key string, r io.Reader, _ int64, _, _ string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), localDirPerm); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, localFilePerm)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrObjectExists
		}

		return fmt.Errorf("create object: %w", err)
	}

	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(target)

		return fmt.Errorf("write object: %w", err)
	}

	return f.Close()
}

// PublicURL implements Store.
func (l *Local) PublicURL(key string) string {
	return joinURL(l.baseURL, key)
}
