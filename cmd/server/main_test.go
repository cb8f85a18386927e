package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintech/internal/infrastructure/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StorageBackend:      config.StorageMemory,
		HTTPPort:            "0",
		HTTPShutdownTimeout: time.Second,
		TransactionTimeout:  time.Second,
		RetryMaxAttempts:    3,
		IdempotencyTTL:      time.Minute,
	}
}

func TestNewServer_MemoryBackend(t *testing.T) {
	server, cleanup, err := newServer(context.Background(), memoryConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer cleanup()

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts/",
		strings.NewReader(`{"name":"Main","owner":"user-1"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewServer_WithRedisAndRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := memoryConfig()
	cfg.RedisURL = fmt.Sprintf("redis://%s", mr.Addr())
	cfg.RateLimitRPS = 100
	cfg.RateLimitBurst = 10

	server, cleanup, err := newServer(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer cleanup()

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"ok"`)
}

func TestNewServer_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.RedisURL = fmt.Sprintf("redis://%s", mr.Addr())
	mr.Close()

	_, _, err := newServer(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewStorage_UnknownBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.StorageBackend = "sqlite"

	_, err := newStorage(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- run(ctx, memoryConfig(), zerolog.Nop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}
