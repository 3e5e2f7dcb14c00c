package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterVideo_Delivered(t *testing.T) {
	var got RegisterRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos/register", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", 0)
	out := c.RegisterVideo(context.Background(), RegisterRequest{
		BlobURL:      "https://blob/videos/1.mp4",
		BlobSize:     42,
		BlobPathname: "videos/1.mp4",
		Title:        "Test",
	})

	assert.True(t, out.Delivered())
	assert.Equal(t, http.StatusAccepted, out.StatusCode)
	assert.Equal(t, "Test", got.Title)
	assert.Equal(t, int64(42), got.BlobSize)
}

func TestRegisterVideo_IgnoredOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	out := NewClient(srv.URL, 0).RegisterVideo(context.Background(), RegisterRequest{})

	assert.Equal(t, Ignored, out.Status)
	var se *HTTPError
	require.ErrorAs(t, out.Cause, &se)
	assert.Equal(t, 500, se.Code)
}

func TestNotifyUploaded_IgnoredWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	out := NewClient(srv.URL, 0).NotifyUploaded(context.Background(), UploadedNotification{BlobURL: "x"})

	assert.Equal(t, Ignored, out.Status)
	assert.ErrorIs(t, out.Cause, app_errors.ErrBackendNotReachable)
}

func TestListVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "12", r.URL.Query().Get("skip"))
		assert.Equal(t, "12", r.URL.Query().Get("limit"))
		assert.Equal(t, "ready", r.URL.Query().Get("status"))
		_, _ = w.Write([]byte(`{"videos":[{"id":13,"title":"t","status":"ready","duration":65}],"total":17}`))
	}))
	defer srv.Close()

	list, err := NewClient(srv.URL, 0).ListVideos(context.Background(), ListParams{Skip: 12, Limit: 12, Status: "ready"})
	require.NoError(t, err)
	assert.Equal(t, 17, list.Total)
	require.Len(t, list.Videos, 1)
	assert.Equal(t, int64(13), list.Videos[0].ID)
	require.NotNil(t, list.Videos[0].Duration)
	assert.Equal(t, 65, *list.Videos[0].Duration)
}

func TestListVideos_NoStatusFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, has := r.URL.Query()["status"]
		assert.False(t, has)
		_, _ = w.Write([]byte(`{"total":0}`))
	}))
	defer srv.Close()

	list, err := NewClient(srv.URL, 0).ListVideos(context.Background(), ListParams{Limit: 12})
	require.NoError(t, err)
	assert.NotNil(t, list.Videos)
}

func TestListVideos_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).ListVideos(context.Background(), ListParams{Limit: 12})
	assert.ErrorIs(t, err, app_errors.ErrInvalidResponse)
}

func TestGetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos/7/status", r.URL.Path)
		_, _ = w.Write([]byte(`{"job_status":"failed","error_message":"ffmpeg exited"}`))
	}))
	defer srv.Close()

	st, err := NewClient(srv.URL, 0).GetStatus(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, JobFailed, st.JobStatus)
	require.NotNil(t, st.ErrorMessage)
	assert.Equal(t, "ffmpeg exited", *st.ErrorMessage)
}

func TestDeleteVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		switch r.URL.Path {
		case "/videos/1":
			w.WriteHeader(http.StatusNoContent)
		case "/videos/2":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	assert.NoError(t, c.DeleteVideo(context.Background(), 1))
	assert.ErrorIs(t, c.DeleteVideo(context.Background(), 2), app_errors.ErrVideoNotFound)

	var se *HTTPError
	assert.ErrorAs(t, c.DeleteVideo(context.Background(), 3), &se)
}
