package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/go-storefront/internal/config"
	"github.com/MKhiriev/go-storefront/internal/handler"
	handlerhttp "github.com/MKhiriev/go-storefront/internal/handler/http"
	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/internal/service"
	"github.com/MKhiriev/go-storefront/internal/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWorker struct {
	ran      chan struct{}
	shutdown chan struct{}
}

func newRecordingWorker() *recordingWorker {
	return &recordingWorker{ran: make(chan struct{}, 1), shutdown: make(chan struct{}, 1)}
}

func (w *recordingWorker) Run(context.Context) { w.ran <- struct{}{} }
func (w *recordingWorker) Shutdown()           { w.shutdown <- struct{}{} }

func freeAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func newTestHandlers(cfg config.Server) *handler.Handlers {
	return &handler.Handlers{
		HTTP: handlerhttp.NewHandler(&service.Services{}, config.App{}, cfg, logger.Nop()),
	}
}

func TestNewServer_NoHTTP(t *testing.T) {
	_, err := NewServer(&handler.Handlers{}, nil, config.Server{HTTPAddress: ":0"}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)

	_, err = NewServer(nil, nil, config.Server{}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestServer_RunUntilCancelled(t *testing.T) {
	cfg := config.Server{HTTPAddress: freeAddress(t), RequestTimeout: time.Second}
	worker := newRecordingWorker()

	srv, err := NewServer(newTestHandlers(cfg), workers.NewWorkers(worker), cfg, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.(*server).run(ctx)
		close(done)
	}()

	<-worker.ran

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.HTTPAddress + "/api/nope")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	<-worker.shutdown

	// a second Shutdown is a no-op
	srv.Shutdown()
	assert.Empty(t, worker.shutdown)
}

func TestServer_ListenFailureStopsWorkers(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := config.Server{HTTPAddress: l.Addr().String(), RequestTimeout: time.Second}
	worker := newRecordingWorker()

	srv, err := NewServer(newTestHandlers(cfg), workers.NewWorkers(worker), cfg, logger.Nop())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		srv.(*server).run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after listen failure")
	}
	<-worker.shutdown
}
