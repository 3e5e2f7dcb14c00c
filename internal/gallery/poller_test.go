package gallery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lumiforge/video-bridge/internal/backend"
	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/lumiforge/video-bridge/internal/gallery/mocks"
)

func fastPoller(api VideoAPI, attempts int) *Poller {
	return &Poller{api: api, interval: time.Millisecond, maxAttempts: attempts}
}

func TestPoll_StopsOnCompleted(t *testing.T) {
	api := mocks.NewVideoAPI(t)
	api.On("GetStatus", mock.Anything, int64(5)).Return(&backend.ProcessingStatus{JobStatus: "processing"}, nil).Twice()
	api.On("GetStatus", mock.Anything, int64(5)).Return(&backend.ProcessingStatus{JobStatus: backend.JobCompleted}, nil).Once()

	var seen []string
	res := fastPoller(api, 30).Poll(context.Background(), 5, func(st backend.ProcessingStatus) {
		seen = append(seen, st.JobStatus)
	})

	assert.NoError(t, res.Err)
	assert.Equal(t, backend.JobCompleted, res.JobStatus)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, []string{"processing", "processing", "completed"}, seen)
}

func TestPoll_Failed(t *testing.T) {
	msg := "codec not supported"
	api := mocks.NewVideoAPI(t)
	api.On("GetStatus", mock.Anything, int64(5)).Return(&backend.ProcessingStatus{JobStatus: backend.JobFailed, ErrorMessage: &msg}, nil).Once()

	res := fastPoller(api, 30).Poll(context.Background(), 5, nil)

	assert.Equal(t, backend.JobFailed, res.JobStatus)
	assert.Equal(t, msg, res.ErrorMessage)
	assert.Equal(t, 1, res.Attempts)
}

func TestPoll_StopsOnError(t *testing.T) {
	api := mocks.NewVideoAPI(t)
	api.On("GetStatus", mock.Anything, int64(5)).Return(nil, errors.New("down")).Once()

	res := fastPoller(api, 30).Poll(context.Background(), 5, nil)

	assert.ErrorIs(t, res.Err, app_errors.ErrStatusFailed)
	assert.Equal(t, 1, res.Attempts)
}

func TestPoll_GivesUpAfterMaxAttempts(t *testing.T) {
	api := mocks.NewVideoAPI(t)
	api.On("GetStatus", mock.Anything, int64(5)).Return(&backend.ProcessingStatus{JobStatus: "processing"}, nil).Times(3)

	res := fastPoller(api, 3).Poll(context.Background(), 5, nil)

	assert.NoError(t, res.Err)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, "processing", res.JobStatus)
}

func TestPoll_ContextCancelled(t *testing.T) {
	api := mocks.NewVideoAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := (&Poller{api: api, interval: time.Hour, maxAttempts: 30}).Poll(ctx, 5, nil)

	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Equal(t, 0, res.Attempts)
}

func TestNewPoller_Defaults(t *testing.T) {
	p := NewPoller(nil)
	assert.Equal(t, 10*time.Second, p.interval)
	assert.Equal(t, 30, p.maxAttempts)
}
