package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/folio-cms/folio/internal/config"
)

// Minio writes objects to a MinIO server.
type Minio struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinio connects to cfg.Endpoint, which may be given with or without scheme.
func NewMinio(cfg config.Storage) (*Minio, error) {
	endpoint, secure := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: minio endpoint is empty", ErrInvalidKey)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}

		baseURL = scheme + "://" + endpoint + "/" + cfg.Bucket
	}

	return &Minio{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

func splitEndpoint(endpoint string, useSSL bool) (string, bool) {
	if !strings.Contains(endpoint, "://") {
		return strings.TrimRight(endpoint, "/"), useSSL
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", useSSL
	}

	return u.Host, u.Scheme == "https"
}

// Put implements Store. Existing keys are left untouched.
func (m *Minio) Put(ctx context.Context, key string, r io.Reader, size int64, contentType, cacheControl string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}

	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return ErrObjectExists
	}

	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("stat object %s: %w", key, err)
	}

	_, err = m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: cacheControl,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	return nil
}

// PublicURL implements Store.
func (m *Minio) PublicURL(key string) string {
	return joinURL(m.baseURL, key)
}
