package logger

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/matlalipitso/reporting-lwks-sub000/pkg/config"
	"github.com/matlalipitso/reporting-lwks-sub000/pkg/middleware/requestid"
)

func TestNewWithFileSink(t *testing.T) {
	cfg := &config.Config{
		Env: config.EnvDevelopment,
		Log: config.LogConfig{
			Level:     "debug",
			Format:    "console",
			File:      filepath.Join(t.TempDir(), "portal.log"),
			MaxSizeMB: 1,
		},
	}

	l, err := New(cfg)
	require.NoError(t, err)
	l.Info("hello")
	_ = l.Sync()

	writer := RotatingFile(cfg.Log)
	require.Equal(t, cfg.Log.File, writer.Filename)
	require.True(t, writer.Compress)
}

func TestGinMiddlewareLogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(requestid.Middleware())
	r.Use(GinMiddleware(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "http_request", entry.Message)
	fields := entry.ContextMap()
	require.Equal(t, int64(http.StatusNoContent), fields["status"])
	require.Equal(t, "req-42", fields["request_id"])
}
