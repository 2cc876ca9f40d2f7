// Package upload validates, names and stores uploaded images and records
// them in the media library.
package upload

import (
	"context"
	"errors"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/blob"
	"github.com/folio-cms/folio/internal/db/models"
)

const (
	// DefaultContentType is used when the client sent none.
	DefaultContentType = "image/jpeg"
	// CacheControl is set on every stored object.
	CacheControl = "max-age=3600"
	// DefaultPrefix is the object key prefix.
	DefaultPrefix = "uploads"

	imagePrefix = "image/"
)

var (
	// ErrNoFile is returned for a missing or empty file.
	ErrNoFile = apperror.Validation("No file received.")

	// ErrNotImage is returned when the content type is not image/*.
	ErrNotImage = apperror.Validation("Only image uploads are allowed.")

	// ErrMediaRecord is returned when the object was stored but the media
	// library row could not be written. The Result still carries the url.
	ErrMediaRecord = apperror.Upstream("File uploaded, but failed to log it in the media library.", nil)

	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.]`)
)

var (
	uploadCounter     *prometheus.CounterVec //nolint:gochecknoglobals
	uploadCounterOnce sync.Once              //nolint:gochecknoglobals
)

func uploads() *prometheus.CounterVec {
	uploadCounterOnce.Do(func() {
		uploadCounter = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_uploads_total",
			Help: "Number of image uploads, by result.",
		}, []string{"result"})
	})

	return uploadCounter
}

// MediaRecorder stores metadata of uploaded files.
type MediaRecorder interface {
	Record(ctx context.Context, fileURL, altText string, size int64) (*models.MediaAsset, error)
}

// File is one received upload.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Result of a stored upload.
type Result struct {
	URL string `json:"url"`
	Key string `json:"-"`
}

// Gateway stores uploads in a blob store.
type Gateway struct {
	store  blob.Store
	media  MediaRecorder
	prefix string
	now    func() time.Time

	mu   sync.Mutex
	last int64
}

// New returns a gateway writing below prefix, DefaultPrefix when empty.
func New(store blob.Store, media MediaRecorder, prefix string) *Gateway {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Gateway{store: store, media: media, prefix: prefix, now: time.Now}
}

// Sanitize replaces every character outside [a-zA-Z0-9.] with "_" and lower-cases the result.
func Sanitize(name string) string {
	return strings.ToLower(unsafeChars.ReplaceAllString(name, "_"))
}

// StorageName returns "<unix millis>-<sanitized name>". The millisecond part
// is strictly increasing within the process.
func (g *Gateway) StorageName(name string) string {
	return strconv.FormatInt(g.nextStamp(), 10) + "-" + Sanitize(name)
}

func (g *Gateway) nextStamp() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}

	g.last = ms

	return ms
}

// Upload validates f, stores it and records it in the media library.
func (g *Gateway) Upload(ctx context.Context, f File) (Result, error) {
	if f.Body == nil || f.Size == 0 || f.Name == "" {
		uploads().WithLabelValues("rejected").Inc()

		return Result{}, ErrNoFile
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	if !strings.HasPrefix(strings.ToLower(contentType), imagePrefix) {
		uploads().WithLabelValues("rejected").Inc()

		return Result{}, ErrNotImage
	}

	key := path.Join(g.prefix, g.StorageName(f.Name))

	if err := g.store.Put(ctx, key, f.Body, f.Size, contentType, CacheControl); err != nil {
		uploads().WithLabelValues("storage_error").Inc()

		return Result{}, apperror.Upstream("Storage error", err)
	}

	res := Result{URL: g.store.PublicURL(key), Key: key}

	if _, err := g.media.Record(ctx, res.URL, f.Name, f.Size); err != nil {
		uploads().WithLabelValues("record_error").Inc()
		log.Error().Err(err).Str("url", res.URL).Msg("uploaded file not recorded in media library")

		return res, ErrMediaRecord
	}

	uploads().WithLabelValues("ok").Inc()

	return res, nil
}

// IsStored reports whether err still left a usable object behind.
func IsStored(err error) bool {
	return err == nil || errors.Is(err, ErrMediaRecord)
}
