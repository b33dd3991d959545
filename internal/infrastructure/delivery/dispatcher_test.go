package delivery

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filegate-io/filegate/internal/shared/config"
	"github.com/filegate-io/filegate/internal/shared/constants"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

func newTestDispatcher(t *testing.T, uploads config.UploadsConfig) (*Dispatcher, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "2026/08"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2026/08/report.pdf"), []byte("%PDF-1.7 test"), 0o644))

	uploads.BaseDir = dir
	log := logger.NewLoggerWithSlog(slog.New(slog.DiscardHandler))
	return NewDispatcher(uploads, log), dir
}

func record(fn func(c *gin.Context)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/uploads/2026/08/report.pdf", nil)
	fn(c)
	return w
}

func TestServeFile_Streams(t *testing.T) {
	d, _ := newTestDispatcher(t, config.UploadsConfig{})

	w := record(func(c *gin.Context) {
		require.NoError(t, d.ServeFile(c, ServeOptions{RelPath: "2026/08/report.pdf", Cacheable: true}))
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.7 test", w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get(constants.HeaderXContentTypeOptions))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get(constants.HeaderXFrameOptions))
	assert.Contains(t, w.Header().Get(constants.HeaderContentDisposition), "inline")
	assert.Contains(t, w.Header().Get(constants.HeaderCacheControl), "public")
	assert.Contains(t, w.Header().Get(constants.HeaderContentType), "application/pdf")
}

func TestServeFile_TokenAccessHeaders(t *testing.T) {
	d, _ := newTestDispatcher(t, config.UploadsConfig{})

	w := record(func(c *gin.Context) {
		require.NoError(t, d.ServeFile(c, ServeOptions{RelPath: "2026/08/report.pdf", Attachment: true, Cacheable: false}))
	})

	assert.Contains(t, w.Header().Get(constants.HeaderContentDisposition), "attachment")
	assert.Contains(t, w.Header().Get(constants.HeaderCacheControl), "no-store")
	assert.Equal(t, "no-cache", w.Header().Get(constants.HeaderPragma))
}

func TestServeFile_NginxOffload(t *testing.T) {
	d, _ := newTestDispatcher(t, config.UploadsConfig{
		OffloadProxy:   "nginx/1.24.0",
		InternalPrefix: "/protected-uploads",
	})

	w := record(func(c *gin.Context) {
		require.NoError(t, d.ServeFile(c, ServeOptions{RelPath: "2026/08/report.pdf"}))
	})

	assert.Equal(t, "/protected-uploads/2026/08/report.pdf", w.Header().Get(constants.HeaderXAccelRedirect))
	assert.Empty(t, w.Body.String(), "offloaded responses must not stream bytes")
}

func TestServeFile_LiteSpeedOffload(t *testing.T) {
	d, _ := newTestDispatcher(t, config.UploadsConfig{
		OffloadProxy:   "LiteSpeed",
		InternalPrefix: "/protected-uploads",
	})

	w := record(func(c *gin.Context) {
		require.NoError(t, d.ServeFile(c, ServeOptions{RelPath: "2026/08/report.pdf"}))
	})

	assert.Equal(t, "/protected-uploads/2026/08/report.pdf", w.Header().Get(constants.HeaderXLiteSpeedLocation))
	assert.Empty(t, w.Body.String())
}

func TestServeFile_Sendfile(t *testing.T) {
	d, dir := newTestDispatcher(t, config.UploadsConfig{Sendfile: true})

	w := record(func(c *gin.Context) {
		require.NoError(t, d.ServeFile(c, ServeOptions{RelPath: "2026/08/report.pdf"}))
	})

	assert.Equal(t, filepath.Join(dir, "2026/08/report.pdf"), w.Header().Get(constants.HeaderXSendfile))
	assert.Empty(t, w.Body.String())
}

func TestServeFile_MissingFile(t *testing.T) {
	d, _ := newTestDispatcher(t, config.UploadsConfig{})

	record(func(c *gin.Context) {
		err := d.ServeFile(c, ServeOptions{RelPath: "2026/08/missing.pdf"})
		assert.Error(t, err)
	})
}

func TestRedirect(t *testing.T) {
	d, _ := newTestDispatcher(t, config.UploadsConfig{})

	t.Run("appends reason to base", func(t *testing.T) {
		w := record(func(c *gin.Context) {
			d.Redirect(c, "https://example.com/denied", "restricted_default")
		})
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://example.com/denied?fg_error=restricted_default", w.Header().Get("Location"))
	})

	t.Run("base with existing query", func(t *testing.T) {
		w := record(func(c *gin.Context) {
			d.Redirect(c, "https://example.com/denied?src=gate", "token_expired")
		})
		assert.Equal(t, "https://example.com/denied?src=gate&fg_error=token_expired", w.Header().Get("Location"))
	})

	t.Run("empty base falls back to site root", func(t *testing.T) {
		w := record(func(c *gin.Context) {
			d.Redirect(c, "", "invalid_path")
		})
		assert.Equal(t, "/?fg_error=invalid_path", w.Header().Get("Location"))
	})

	t.Run("header injection characters are stripped", func(t *testing.T) {
		w := record(func(c *gin.Context) {
			d.Redirect(c, "https://example.com/denied\r\nSet-Cookie: x=1", "invalid_path")
		})
		assert.NotContains(t, w.Header().Get("Location"), "\r")
		assert.NotContains(t, w.Header().Get("Location"), "\n")
	})
}
