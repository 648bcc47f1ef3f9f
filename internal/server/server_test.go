package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(http.NotFoundHandler(), 0, time.Second, time.Second, time.Second, logger)
}

func TestServer_Addr(t *testing.T) {
	s := New(http.NotFoundHandler(), 8080, time.Second, time.Second, time.Second, slog.Default())
	assert.Equal(t, ":8080", s.Addr())
}

func TestServer_ShutdownRunsComponentsInReverseOrder(t *testing.T) {
	s := newTestServer()

	var order []string
	for _, name := range []string{"stores", "notify_worker", "metrics"} {
		name := name
		s.OnShutdown(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, s.Shutdown())
	assert.Equal(t, []string{"metrics", "notify_worker", "stores"}, order)
}

func TestServer_ShutdownContinuesAfterFailure(t *testing.T) {
	s := newTestServer()

	boom := errors.New("boom")
	var storesClosed bool
	s.OnShutdown("stores", func(ctx context.Context) error {
		storesClosed = true
		return nil
	})
	s.OnShutdown("notify_worker", func(ctx context.Context) error {
		return boom
	})

	err := s.Shutdown()

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "notify_worker")
	assert.True(t, storesClosed)
}

func TestServer_ServeStopsOnContextCancel(t *testing.T) {
	s := newTestServer()

	stopped := make(chan struct{})
	s.OnShutdown("probe", func(ctx context.Context) error {
		close(stopped)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	<-stopped
}
