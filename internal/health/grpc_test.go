package health

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"house-price-gateway/pkg/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type switchChecker struct {
	mu      sync.Mutex
	healthy bool
}

func (c *switchChecker) set(healthy bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.healthy = healthy
}

func (c *switchChecker) CheckHealth(context.Context) (*models.HealthResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.healthy {
		return &models.HealthResponse{Status: "unhealthy"}, nil
	}
	return &models.HealthResponse{Status: "healthy"}, nil
}

func TestRefresh_TracksEngine(t *testing.T) {
	checker := &switchChecker{healthy: true}
	srv := NewServer(checker, time.Second, testLogger())

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, srv.Refresh(context.Background()))

	checker.set(false)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, srv.Refresh(context.Background()))
}

func TestServe_HealthCheckOverGRPC(t *testing.T) {
	checker := &switchChecker{healthy: true}
	srv := NewServer(checker, time.Second, testLogger())

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(lis)
	defer srv.Stop()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: EngineService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	srv.Refresh(ctx)
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: EngineService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestWatch_StopsOnCancel(t *testing.T) {
	srv := NewServer(&switchChecker{healthy: true}, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Watch(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}
