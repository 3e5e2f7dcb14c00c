package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/lumiforge/video-bridge/internal/logger"
	"github.com/lumiforge/video-bridge/internal/validation"
)

// Progress reports how much of the file has been sent.
type Progress struct {
	Loaded     int64
	Total      int64
	Percentage float64
}

// UploadResponse is the bridge answer to POST /upload.
type UploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Pathname string `json:"pathname"`
	Title    string `json:"title"`
	ID       string `json:"id"`
}

// Uploader streams multipart uploads to the bridge.
type Uploader struct {
	bridgeURL  string
	httpClient *http.Client
}

func NewUploader(bridgeURL string, timeout time.Duration) *Uploader {
	return &Uploader{
		bridgeURL:  strings.TrimRight(bridgeURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Upload sends title and file as multipart/form-data. The body is produced
// while it is sent, so memory use does not depend on the file size.
func (u *Uploader) Upload(ctx context.Context, title string, file File, onProgress func(Progress)) (*UploadResponse, error) {
	src, err := os.Open(file.Path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	total := file.Size
	if total <= 0 {
		if info, err := src.Stat(); err == nil {
			total = info.Size()
		}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeForm(mw, title, file, &progressReader{r: src, total: total, onProgress: onProgress}))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.bridgeURL+"/upload", pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		logger.FromContext(ctx).Error("Upload error", "error", err)
		return nil, fmt.Errorf("%w: %v", app_errors.ErrUploadNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Upload failed with status %d", resp.StatusCode)
	}

	var out UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, app_errors.ErrInvalidResponse
	}
	return &out, nil
}

func writeForm(mw *multipart.Writer, title string, file File, body io.Reader) error {
	if err := mw.WriteField("title", title); err != nil {
		return err
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = validation.ResolveContentType("", file.Name)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, body); err != nil {
		return err
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

type progressReader struct {
	r          io.Reader
	loaded     int64
	total      int64
	onProgress func(Progress)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.onProgress != nil {
		p.loaded += int64(n)
		pct := 100.0
		if p.total > 0 {
			pct = min(100, float64(p.loaded)/float64(p.total)*100)
		}
		p.onProgress(Progress{Loaded: p.loaded, Total: p.total, Percentage: pct})
	}
	return n, err
}
