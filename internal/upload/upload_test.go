package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/db/models"
)

type putCall struct {
	key, contentType, cacheControl string
	data                           []byte
}

type fakeStore struct {
	mu    sync.Mutex
	puts  []putCall
	fail  error
	calls int
}

func (f *fakeStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType, cacheControl string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.fail != nil {
		return f.fail
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	f.puts = append(f.puts, putCall{key: key, contentType: contentType, cacheControl: cacheControl, data: data})

	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type fakeMedia struct {
	assets []models.MediaAsset
	fail   error
}

func (f *fakeMedia) Record(_ context.Context, fileURL, altText string, size int64) (*models.MediaAsset, error) {
	if f.fail != nil {
		return nil, f.fail
	}

	a := models.MediaAsset{FileURL: fileURL, AltText: altText, FileSize: size}
	f.assets = append(f.assets, a)

	return &a, nil
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func imageFile(name, contentType string) File {
	body := []byte("\x89PNG....")

	return File{Name: name, ContentType: contentType, Size: int64(len(body)), Body: bytes.NewReader(body)}
}

func TestSanitize(t *testing.T) {
	testCases := map[string]string{
		"My Photo (1).PNG": "my_photo__1_.png",
		"héllo.jpg":        "h_llo.jpg",
		"plain.gif":        "plain.gif",
		"../../etc/passwd": ".._.._etc_passwd",
	}

	for in, want := range testCases {
		assert.Equal(t, want, Sanitize(in), in)
	}
}

func TestStorageNameUnique(t *testing.T) {
	g := New(&fakeStore{}, &fakeMedia{}, "")
	g.now = fixedClock(1700000000000)

	first := g.StorageName("me.png")
	second := g.StorageName("me.png")

	assert.Equal(t, "1700000000000-me.png", first)
	assert.Equal(t, "1700000000001-me.png", second)
}

func TestUpload(t *testing.T) {
	store := &fakeStore{}
	media := &fakeMedia{}
	g := New(store, media, "/uploads/")
	g.now = fixedClock(1700000000000)

	res, err := g.Upload(context.Background(), imageFile("Team Photo.png", "image/png"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/uploads/1700000000000-team_photo.png", res.URL)
	require.Len(t, store.puts, 1)
	assert.Equal(t, "uploads/1700000000000-team_photo.png", store.puts[0].key)
	assert.Equal(t, "image/png", store.puts[0].contentType)
	assert.Equal(t, CacheControl, store.puts[0].cacheControl)
	assert.Equal(t, []byte("\x89PNG...."), store.puts[0].data)

	require.Len(t, media.assets, 1)
	assert.Equal(t, res.URL, media.assets[0].FileURL)
	assert.Equal(t, "Team Photo.png", media.assets[0].AltText)
	assert.Equal(t, int64(8), media.assets[0].FileSize)
	assert.Zero(t, media.assets[0].Width)
	assert.Zero(t, media.assets[0].Height)
}

func TestUpload_DefaultContentType(t *testing.T) {
	store := &fakeStore{}
	g := New(store, &fakeMedia{}, "")

	_, err := g.Upload(context.Background(), imageFile("a.jpg", ""))
	require.NoError(t, err)
	require.Len(t, store.puts, 1)
	assert.Equal(t, DefaultContentType, store.puts[0].contentType)
	assert.True(t, strings.HasPrefix(store.puts[0].key, "uploads/"))
}

func TestUpload_RejectsBeforeStoring(t *testing.T) {
	testCases := []struct {
		name string
		file File
		want error
	}{
		{name: "no body", file: File{Name: "a.png", ContentType: "image/png"}, want: ErrNoFile},
		{name: "empty", file: File{Name: "a.png", ContentType: "image/png", Body: bytes.NewReader(nil)}, want: ErrNoFile},
		{name: "pdf", file: imageFile("cv.pdf", "application/pdf"), want: ErrNotImage},
		{name: "text", file: imageFile("notes.txt", "text/plain"), want: ErrNotImage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			media := &fakeMedia{}

			_, err := New(store, media, "").Upload(context.Background(), tc.file)
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, 400, apperror.HTTPStatus(err))
			assert.Zero(t, store.calls, "blob store must not be touched")
			assert.Empty(t, media.assets)
		})
	}
}

func TestUpload_StorageError(t *testing.T) {
	store := &fakeStore{fail: errors.New("bucket not found")}
	media := &fakeMedia{}

	res, err := New(store, media, "").Upload(context.Background(), imageFile("a.png", "image/png"))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindUpstream))
	assert.Equal(t, "Storage error: bucket not found", apperror.Message(err))
	assert.Empty(t, res.URL)
	assert.Empty(t, media.assets)
	assert.False(t, IsStored(err))
}

func TestUpload_MediaRecordError(t *testing.T) {
	store := &fakeStore{}
	media := &fakeMedia{fail: errors.New("disk full")}

	res, err := New(store, media, "").Upload(context.Background(), imageFile("a.png", "image/png"))
	require.ErrorIs(t, err, ErrMediaRecord)
	assert.Equal(t, "File uploaded, but failed to log it in the media library.", apperror.Message(err))
	assert.NotEmpty(t, res.URL, "the stored object stays reachable")
	assert.True(t, IsStored(err))
	assert.Len(t, store.puts, 1)
}
