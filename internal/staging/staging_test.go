package staging

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStager(t *testing.T) *Stager {
	t.Helper()
	s, err := NewStager(filepath.Join(t.TempDir(), "staging"))
	require.NoError(t, err)
	return s
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestStage_WritesFile(t *testing.T) {
	s := newTestStager(t)
	ctx := context.Background()

	f, err := s.Stage(ctx, strings.NewReader("hello video"), "../../my clip.mp4", "")
	require.NoError(t, err)

	assert.Equal(t, int64(11), f.SizeBytes)
	assert.Equal(t, "../../my clip.mp4", f.OriginalName)
	assert.Equal(t, "video/mp4", f.ContentType)
	assert.Equal(t, s.Dir(), filepath.Dir(f.Path))
	assert.True(t, strings.HasSuffix(f.Path, "-my_clip.mp4"))

	data, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Equal(t, "hello video", string(data))

	require.NoError(t, s.Remove(ctx, f))
	assert.Empty(t, listDir(t, s.Dir()))
}

func TestName_UniqueWithinSameMillisecond(t *testing.T) {
	s := newTestStager(t)
	fixed := time.UnixMilli(1700000000000)
	s.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for _, name := range []string{"a b.mp4", "a_b.mp4", "a?b.mp4", "a b.mp4"} {
		n := s.Name(name)
		assert.True(t, strings.HasPrefix(n, "1700000000000-"))
		assert.False(t, seen[n], "duplicate staged name %s", n)
		seen[n] = true
	}
}

func TestStage_ConcurrentSameTimestamp(t *testing.T) {
	s := newTestStager(t)
	fixed := time.UnixMilli(1700000000000)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	const n = 16
	paths := make(chan string, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			f, err := s.Stage(ctx, strings.NewReader("x"), "same.mp4", "video/mp4")
			if err != nil {
				errs <- err
				return
			}
			paths <- f.Path
		}(i)
	}

	unique := map[string]bool{}
	for i := 0; i < n; i++ {
		select {
		case p := <-paths:
			unique[p] = true
		case err := <-errs:
			t.Fatalf("stage failed: %v", err)
		}
	}
	assert.Len(t, unique, n)
	assert.Len(t, listDir(t, s.Dir()), n)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestStage_FailureLeavesNothing(t *testing.T) {
	s := newTestStager(t)

	f, err := s.Stage(context.Background(), failingReader{}, "broken.mp4", "video/mp4")

	assert.Nil(t, f)
	assert.ErrorIs(t, err, app_errors.ErrFailedToStageFile)
	assert.Empty(t, listDir(t, s.Dir()))
}

func TestRemove_MissingFileIsNotAnError(t *testing.T) {
	s := newTestStager(t)

	assert.NoError(t, s.Remove(context.Background(), &StagedFile{Path: filepath.Join(s.Dir(), "gone")}))
	assert.NoError(t, s.Remove(context.Background(), nil))
}

func TestOpen_Missing(t *testing.T) {
	var f *StagedFile
	_, err := f.Open()
	assert.ErrorIs(t, err, app_errors.ErrInvalidStagedFile)
}

func TestCleanup_RemovesOrphans(t *testing.T) {
	s := newTestStager(t)
	ctx := context.Background()

	old, err := s.Stage(ctx, strings.NewReader("old"), "old.mp4", "")
	require.NoError(t, err)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(old.Path, past, past))

	fresh, err := s.Stage(ctx, strings.NewReader("new"), "new.mp4", "")
	require.NoError(t, err)

	assert.Equal(t, 1, s.Cleanup(ctx, time.Hour))
	assert.Equal(t, []string{filepath.Base(fresh.Path)}, listDir(t, s.Dir()))
}
