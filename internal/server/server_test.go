package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-blog/server/config"
)

func sqliteConfig() config.Config {
	return config.Config{
		SecretKey: "test-secret",
		Database: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			Path:        ":memory:",
			AutoMigrate: true,
		},
		MQ: config.MQConfig{Channel: "blog-events"},
	}
}

func TestNew_RequiresSecret(t *testing.T) {
	cfg := sqliteConfig()
	cfg.SecretKey = " "

	_, err := New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "SECRET_KEY is required")
}

func TestNew_ServesRoutes(t *testing.T) {
	ctx := context.Background()
	srv, err := New(ctx, sqliteConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = srv.Shutdown(ctx)
	})

	assert.Equal(t, ":8080", srv.httpServer.Addr)

	for path, want := range map[string]int{
		"/healthz":  http.StatusOK,
		"/":         http.StatusOK,
		"/post/1":   http.StatusNotFound,
		"/allUsers": http.StatusOK,
		"/UserType": http.StatusForbidden,
	} {
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("Content-Type"), path)
	}
}

func TestNew_RejectsUnknownBackends(t *testing.T) {
	cfg := sqliteConfig()
	cfg.Storage.Backend = "ftp"
	_, err := New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "unsupported storage backend")

	cfg = sqliteConfig()
	cfg.MQ.Backend = "kafka"
	_, err = New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "unsupported mq backend")
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := sqliteConfig()
	cfg.ServerPort = 0
	srv, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	srv.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, srv.Run(ctx))
}
