package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/lumiforge/video-bridge/internal/logger"
)

const (
	EndpointRegister      = "register"
	EndpointVideoUploaded = "video-uploaded"
)

// Notifier delivers best-effort upload notifications.
type Notifier interface {
	RegisterVideo(ctx context.Context, req RegisterRequest) Outcome
	NotifyUploaded(ctx context.Context, n UploadedNotification) Outcome
}

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	Code int
	Body string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! Status: %d", e.Code)
}

// Client talks to the backend video registry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент; timeout == 0 оставляет таймауты транспорта по умолчанию
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// RegisterVideo posts blob metadata to /videos/register. Failures are logged, never returned.
func (c *Client) RegisterVideo(ctx context.Context, req RegisterRequest) Outcome {
	return c.notify(ctx, EndpointRegister, "/videos/register", req)
}

// NotifyUploaded posts a direct-upload completion to /video-uploaded.
func (c *Client) NotifyUploaded(ctx context.Context, n UploadedNotification) Outcome {
	return c.notify(ctx, EndpointVideoUploaded, "/video-uploaded", n)
}

func (c *Client) notify(ctx context.Context, endpoint, path string, payload interface{}) Outcome {
	log := logger.FromContext(ctx).With("endpoint", endpoint)

	resp, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		log.Error("Failed to notify FastAPI", "error", err)
		return Outcome{Status: Ignored, Cause: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		log.Error("Failed to notify FastAPI", "error", err, "status_code", resp.StatusCode)
		return Outcome{Status: Ignored, StatusCode: resp.StatusCode, Cause: err}
	}

	log.Info("FastAPI notified successfully", "status_code", resp.StatusCode)
	return Outcome{Status: Delivered, StatusCode: resp.StatusCode}
}

// ListVideos fetches one page of the registry.
func (c *Client) ListVideos(ctx context.Context, p ListParams) (*VideoList, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(p.Skip))
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.Status != "" {
		q.Set("status", p.Status)
	}

	resp, err := c.do(ctx, http.MethodGet, "/videos?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var list VideoList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrInvalidResponse, err)
	}
	if list.Videos == nil {
		list.Videos = []VideoRecord{}
	}
	return &list, nil
}

func (c *Client) GetStatus(ctx context.Context, id int64) (*ProcessingStatus, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/videos/%d/status", id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var st ProcessingStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrInvalidResponse, err)
	}
	return &st, nil
}

func (c *Client) DeleteVideo(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/videos/%d", id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return app_errors.ErrVideoNotFound
	}
	return checkStatus(resp)
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrBackendNotReachable, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &HTTPError{Code: resp.StatusCode, Body: string(data)}
}
