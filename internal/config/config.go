package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP configuration
	Port string

	// Backend (video registry) configuration
	FastAPIURL     string
	BackendTimeout time.Duration

	// Blob storage configuration
	BlobReadWriteToken  string
	BlobBucket          string
	BlobEndpoint        string
	BlobRegion          string
	BlobAccessKeyID     string
	BlobSecretAccessKey string
	BlobPublicBaseURL   string
	BlobUsePathStyle    bool
	ClientTokenTTL      time.Duration

	// Staging and logging
	TempDir string
	LogDir  string

	// Upload limits
	MaxUploadBytes       int64
	MaxConcurrentUploads int
	UploadQueueTimeout   time.Duration

	// Telegram configuration
	TelegramBotToken    string
	TelegramAdminChatID string

	// Alert e-mail (SES) configuration
	AlertEmailFrom string
	AlertEmailTo   string
	SESEndpoint    string
	SESRegion      string
}

// BlobConfigured сообщает, задан ли ключ доступа к blob-хранилищу
func (c *Config) BlobConfigured() bool {
	return c.BlobReadWriteToken != ""
}

func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: failed to read .env file: %v", err)
	}

	fastAPIURL := strings.TrimRight(getEnv("FASTAPI_URL", "http://localhost:8000"), "/")
	if fastAPIURL == "" {
		fastAPIURL = "http://localhost:8000"
	}

	blobEndpoint := getEnv("BLOB_ENDPOINT", "")
	if blobEndpoint != "" && !strings.HasPrefix(blobEndpoint, "http://") && !strings.HasPrefix(blobEndpoint, "https://") {
		blobEndpoint = "https://" + blobEndpoint
		log.Printf("WARN: BLOB_ENDPOINT was missing a protocol scheme. Prepending 'https://'. New endpoint: %s", blobEndpoint)
	}

	// Токен имеет вид "<access key id>:<secret access key>"; явные ключи имеют приоритет
	token := getEnv("BLOB_READ_WRITE_TOKEN", "")
	tokenKeyID, tokenSecret, _ := strings.Cut(token, ":")

	return &Config{
		// HTTP configuration
		Port: getEnv("PORT", "3001"),

		// Backend configuration
		FastAPIURL:     fastAPIURL,
		BackendTimeout: time.Duration(getEnvInt("BACKEND_TIMEOUT_SEC", 30, 1, 600)) * time.Second,

		// Blob storage configuration
		BlobReadWriteToken:  token,
		BlobBucket:          getEnv("BLOB_BUCKET", "videos"),
		BlobEndpoint:        blobEndpoint,
		BlobRegion:          getEnv("BLOB_REGION", "us-east-1"),
		BlobAccessKeyID:     getEnv("BLOB_ACCESS_KEY_ID", tokenKeyID),
		BlobSecretAccessKey: getEnv("BLOB_SECRET_ACCESS_KEY", tokenSecret),
		BlobPublicBaseURL:   strings.TrimRight(getEnv("BLOB_PUBLIC_BASE_URL", ""), "/"),
		BlobUsePathStyle:    getEnvAsBool("BLOB_PATH_STYLE", false),
		ClientTokenTTL:      time.Duration(getEnvInt("CLIENT_TOKEN_TTL_SEC", 3600, 60, 7*24*3600)) * time.Second,

		// Staging and logging
		TempDir: getEnv("TEMP_DIR", filepath.Join(os.TempDir(), "vercel-blob-bridge")),
		LogDir:  getEnv("LOG_DIR", "logs"),

		// Upload limits
		MaxUploadBytes:       getEnvInt64("MAX_UPLOAD_BYTES", 5<<30, 1<<20, 1<<40),
		MaxConcurrentUploads: getEnvInt("MAX_CONCURRENT_UPLOADS", 4, 1, 1024),
		UploadQueueTimeout:   time.Duration(getEnvInt("UPLOAD_QUEUE_TIMEOUT_SEC", 30, 0, 3600)) * time.Second,

		// Telegram configuration
		TelegramBotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAdminChatID: getEnv("TELEGRAM_CHAT_ID", ""),

		// Alert e-mail configuration
		AlertEmailFrom: getEnv("ALERT_EMAIL_FROM", ""),
		AlertEmailTo:   getEnv("ALERT_EMAIL_TO", ""),
		SESEndpoint:    getEnv("SES_ENDPOINT", ""),
		SESRegion:      getEnv("SES_REGION", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, fallback, min, max int) int {
	return int(getEnvInt64(key, int64(fallback), int64(min), int64(max)))
}

func getEnvInt64(key string, fallback, min, max int64) int64 {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			if n < min {
				return min
			}
			if n > max {
				return max
			}
			return n
		}
		log.Printf("WARN: %s=%q is not an integer, using default %d", key, v, fallback)
	}

	if fallback < min {
		return min
	}
	if fallback > max {
		return max
	}
	return fallback
}

// GalleryConfig configures the terminal gallery client.
type GalleryConfig struct {
	APIBaseURL    string
	BridgeURL     string
	LogDir        string
	HTTPTimeout   time.Duration
	ViewportWidth int
}

// LoadGallery reads the gallery client settings. Flags in cmd/gallery
// override these values.
func LoadGallery() *GalleryConfig {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: failed to read .env file: %v", err)
	}

	return &GalleryConfig{
		APIBaseURL:    strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
		BridgeURL:     strings.TrimRight(getEnv("BLOB_BRIDGE_URL", "http://localhost:3001"), "/"),
		LogDir:        getEnv("LOG_DIR", "logs"),
		HTTPTimeout:   time.Duration(getEnvInt("GALLERY_HTTP_TIMEOUT_SEC", 0, 0, 3600)) * time.Second,
		ViewportWidth: getEnvInt("GALLERY_VIEWPORT_WIDTH", 1200, 320, 10000),
	}
}
