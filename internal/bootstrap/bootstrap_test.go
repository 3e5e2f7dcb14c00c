package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_WithoutBlobToken(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("TEMP_DIR", filepath.Join(dir, "tmp"))
	t.Setenv("BLOB_READ_WRITE_TOKEN", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("ALERT_EMAIL_TO", "")

	app, err := Initialize(context.Background())
	require.NoError(t, err)
	defer app.Close()

	w := httptest.NewRecorder()
	app.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"blob_token_configured":false`)

	data, err := os.ReadFile(filepath.Join(dir, "logs", logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "BLOB_READ_WRITE_TOKEN is not set")
	assert.Contains(t, string(data), "Request completed")
}
