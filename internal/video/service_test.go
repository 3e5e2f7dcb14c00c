package video

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/lumiforge/video-bridge/internal/backend"
	backendmocks "github.com/lumiforge/video-bridge/internal/backend/mocks"
	"github.com/lumiforge/video-bridge/internal/config"
	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/lumiforge/video-bridge/internal/jwt"
	"github.com/lumiforge/video-bridge/internal/metrics"
	"github.com/lumiforge/video-bridge/internal/staging"
	"github.com/lumiforge/video-bridge/internal/storage"
	storagemocks "github.com/lumiforge/video-bridge/internal/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *Service
	store    *storagemocks.BlobStore
	notifier *backendmocks.Notifier
	stager   *staging.Stager
	tokens   *jwt.JWTManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stager, err := staging.NewStager(t.TempDir())
	require.NoError(t, err)

	tokens := jwt.NewJWTManager(&config.Config{
		BlobReadWriteToken: "AKID:secret",
		ClientTokenTTL:     time.Hour,
	})
	store := storagemocks.NewBlobStore(t)
	notifier := backendmocks.NewNotifier(t)

	return &fixture{
		svc:      NewService(store, stager, notifier, tokens, metrics.New()),
		store:    store,
		notifier: notifier,
		stager:   stager,
		tokens:   tokens,
	}
}

func (f *fixture) stage(t *testing.T, name string, data []byte) *staging.StagedFile {
	t.Helper()
	sf, err := f.stager.Stage(context.Background(), bytes.NewReader(data), name, "video/mp4")
	require.NoError(t, err)
	return sf
}

func dirEntries(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestUpload_Success(t *testing.T) {
	f := newFixture(t)
	data := bytes.Repeat([]byte("v"), 1024)
	sf := f.stage(t, "my clip.mp4", data)

	f.store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "videos/") && strings.HasSuffix(key, ".mp4")
	}), mock.Anything, int64(1024), mock.MatchedBy(func(o storage.PutOptions) bool {
		return o.Multipart && o.ContentType == "video/mp4"
	})).Return(func(_ context.Context, key string, body io.Reader, size int64, _ storage.PutOptions) *storage.Blob {
		n, _ := io.Copy(io.Discard, body)
		return &storage.Blob{URL: "https://blob.example.com/" + key, Size: n, Pathname: key, ContentType: "video/mp4"}
	}, nil).Once()

	f.notifier.On("RegisterVideo", mock.Anything, mock.MatchedBy(func(r backend.RegisterRequest) bool {
		return r.Title == "Test" && r.BlobSize == 1024 && strings.HasPrefix(r.BlobPathname, "videos/")
	})).Return(backend.Outcome{Status: backend.Delivered, StatusCode: 202}).Once()

	res, err := f.svc.Upload(context.Background(), UploadInput{Title: "Test", File: sf})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Test", res.Title)
	assert.Equal(t, int64(1024), res.Size)
	assert.True(t, strings.HasPrefix(res.Pathname, "videos/"))
	assert.Equal(t, "https://blob.example.com/"+res.Pathname, res.URL)
	assert.NotEmpty(t, res.ID)
	assert.True(t, res.Notification.Delivered())
	assert.Equal(t, 0, dirEntries(t, f.stager.Dir()))
}

func TestUpload_DefaultTitle(t *testing.T) {
	f := newFixture(t)
	sf := f.stage(t, "a.webm", []byte("x"))

	f.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&storage.Blob{URL: "u", Size: 1, Pathname: "videos/a.webm"}, nil).Once()
	f.notifier.On("RegisterVideo", mock.Anything, mock.MatchedBy(func(r backend.RegisterRequest) bool {
		return r.Title == DefaultTitle
	})).Return(backend.Outcome{Status: backend.Delivered}).Once()

	res, err := f.svc.Upload(context.Background(), UploadInput{Title: "   ", File: sf})
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, res.Title)
}

func TestUpload_BlobFailureRemovesStagedFile(t *testing.T) {
	f := newFixture(t)
	sf := f.stage(t, "a.mp4", []byte("data"))

	f.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset")).Once()

	res, err := f.svc.Upload(context.Background(), UploadInput{Title: "t", File: sf})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, app_errors.ErrFailedToUploadBlob)
	assert.Equal(t, 0, dirEntries(t, f.stager.Dir()))
	f.notifier.AssertNotCalled(t, "RegisterVideo", mock.Anything, mock.Anything)
}

func TestUpload_NotificationFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	sf := f.stage(t, "a.mp4", []byte("data"))

	f.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&storage.Blob{URL: "https://blob/videos/a.mp4", Size: 4, Pathname: "videos/a.mp4"}, nil).Once()
	f.notifier.On("RegisterVideo", mock.Anything, mock.Anything).
		Return(backend.Outcome{Status: backend.Ignored, Cause: app_errors.ErrBackendNotReachable}).Once()

	res, err := f.svc.Upload(context.Background(), UploadInput{Title: "t", File: sf})
	require.NoError(t, err)
	assert.Equal(t, "https://blob/videos/a.mp4", res.URL)
	assert.Equal(t, backend.Ignored, res.Notification.Status)
	assert.Equal(t, 0, dirEntries(t, f.stager.Dir()))
}

func TestUpload_NoFile(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Upload(context.Background(), UploadInput{Title: "t"})
	assert.ErrorIs(t, err, app_errors.ErrNoFileProvided)
}

func TestObjectKey(t *testing.T) {
	f := newFixture(t)
	f.svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	k1 := f.svc.ObjectKey("../../etc/clip.MOV")
	k2 := f.svc.ObjectKey("../../etc/clip.MOV")

	assert.True(t, strings.HasPrefix(k1, "videos/1700000000000-"))
	assert.True(t, strings.HasSuffix(k1, ".MOV"))
	assert.NotContains(t, k1, "..")
	assert.NotEqual(t, k1, k2)
}
