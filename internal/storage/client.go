package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/lumiforge/video-bridge/internal/config"
	app_errors "github.com/lumiforge/video-bridge/internal/errors"
)

// PartSize is the size of every multipart chunk except the last one.
// S3-compatible stores reject non-final parts below 5 MiB.
const PartSize int64 = 8 << 20

// Client обертка над S3 клиентом
type Client struct {
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
	endpoint      string
	publicBaseURL string
	pathStyle     bool
	partSize      int64
}

// NewClient создает новый S3 клиент
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	accessKey := cfg.BlobAccessKeyID
	secretKey := cfg.BlobSecretAccessKey
	bucket := cfg.BlobBucket

	if accessKey == "" || secretKey == "" || bucket == "" {
		return nil, app_errors.ErrBlobNotConfigured
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.BlobRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BlobEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BlobEndpoint)
		}
		o.UsePathStyle = cfg.BlobUsePathStyle
	})

	return &Client{
		s3Client:      client,
		presignClient: s3.NewPresignClient(client),
		bucketName:    bucket,
		endpoint:      cfg.BlobEndpoint,
		publicBaseURL: cfg.BlobPublicBaseURL,
		pathStyle:     cfg.BlobUsePathStyle,
		partSize:      PartSize,
	}, nil
}

// Put загружает объект с публичным доступом. Пустые тела отправляются одним
// PutObject, остальные - multipart-загрузкой.
func (c *Client) Put(ctx context.Context, key string, body io.Reader, size int64, opts PutOptions) (*Blob, error) {
	if key == "" {
		return nil, app_errors.ErrObjectKeyRequired
	}
	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if size == 0 || (!opts.Multipart && size <= c.partSize) {
		if err := c.putSingle(ctx, key, body, size, contentType); err != nil {
			return nil, err
		}
		report(opts.OnProgress, size, size)
	} else {
		written, err := c.putMultipart(ctx, key, body, size, contentType, opts.OnProgress)
		if err != nil {
			return nil, err
		}
		size = written
	}

	return &Blob{
		URL:         c.PublicURL(key),
		Size:        size,
		Pathname:    key,
		ContentType: contentType,
	}, nil
}

func (c *Client) putSingle(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	buf, err := io.ReadAll(io.LimitReader(body, c.partSize+1))
	if err != nil {
		return fmt.Errorf("failed to read upload body: %w", err)
	}

	_, err = c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf),
		ContentLength: aws.Int64(int64(len(buf))),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

func (c *Client) putMultipart(ctx context.Context, key string, body io.Reader, size int64, contentType string, onProgress func(Progress)) (int64, error) {
	created, err := c.s3Client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to initiate multipart upload: %w", err)
	}
	uploadID := created.UploadId

	abort := func(cause error) (int64, error) {
		// Контекст запроса мог быть отменен, поэтому abort выполняется отдельно
		abortCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if _, err := c.s3Client.AbortMultipartUpload(abortCtx, &s3.AbortMultipartUploadInput{
			Bucket:   aws.String(c.bucketName),
			Key:      aws.String(key),
			UploadId: uploadID,
		}); err != nil {
			slog.Warn("Failed to abort multipart upload", "key", key, "error", err)
		}
		return 0, cause
	}

	var (
		parts  []types.CompletedPart
		loaded int64
		buf    = make([]byte, c.partSize)
	)
	for partNumber := int32(1); ; partNumber++ {
		n, readErr := io.ReadFull(body, buf)
		if n > 0 {
			out, err := c.s3Client.UploadPart(ctx, &s3.UploadPartInput{
				Bucket:        aws.String(c.bucketName),
				Key:           aws.String(key),
				UploadId:      uploadID,
				PartNumber:    aws.Int32(partNumber),
				Body:          bytes.NewReader(buf[:n]),
				ContentLength: aws.Int64(int64(n)),
			})
			if err != nil {
				return abort(fmt.Errorf("failed to upload part %d: %w", partNumber, err))
			}
			parts = append(parts, types.CompletedPart{
				ETag:       out.ETag,
				PartNumber: aws.Int32(partNumber),
			})
			loaded += int64(n)
			report(onProgress, loaded, size)
		}
		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}
		if readErr != nil {
			return abort(fmt.Errorf("failed to read upload body: %w", readErr))
		}
	}

	if len(parts) == 0 {
		return abort(fmt.Errorf("upload body is empty"))
	}

	_, err = c.s3Client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(c.bucketName),
		Key:      aws.String(key),
		UploadId: uploadID,
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: parts,
		},
	})
	if err != nil {
		return abort(fmt.Errorf("failed to complete multipart upload: %w", err))
	}

	return loaded, nil
}

// PresignPut генерирует URL для прямой загрузки объекта клиентом
func (c *Client) PresignPut(ctx context.Context, key, contentType string, lifetime time.Duration) (string, error) {
	if key == "" {
		return "", app_errors.ErrObjectKeyRequired
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := c.presignClient.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = lifetime
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// Delete removes an object from the bucket
func (c *Client) Delete(ctx context.Context, key string) error {
	if key == "" {
		return app_errors.ErrObjectKeyRequired
	}

	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	return err
}

// PublicURL формирует постоянный публичный URL объекта
func (c *Client) PublicURL(key string) string {
	if c.publicBaseURL != "" {
		return c.publicBaseURL + "/" + escapeKey(key)
	}

	if c.endpoint == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucketName, escapeKey(key))
	}

	u, err := url.Parse(c.endpoint)
	if err != nil || c.pathStyle {
		return strings.TrimRight(c.endpoint, "/") + "/" + c.bucketName + "/" + escapeKey(key)
	}

	// Формируем Virtual-Hosted Style URL: https://bucket.endpoint/key
	u.Scheme = "https"
	u.Host = fmt.Sprintf("%s.%s", c.bucketName, u.Host)
	u.Path = "/" + key
	return u.String()
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func report(onProgress func(Progress), loaded, total int64) {
	if onProgress == nil {
		return
	}
	p := Progress{Loaded: loaded, Total: total}
	if total > 0 {
		p.Percentage = float64(loaded) / float64(total) * 100
	} else {
		p.Percentage = 100
	}
	onProgress(p)
}
