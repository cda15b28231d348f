package devstack

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myreport/reportcycle/internal/devstack/config"
	"github.com/myreport/reportcycle/internal/logging"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestNewApp_RejectsBadConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BlobStore = "tape"

	_, err := NewApp(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestNewApp_S3(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BlobStore = config.BlobS3

	app, err := NewApp(cfg, logging.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, app.server)
}

func TestApp_RunServesUntilCancelled(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ListenAddr = freeAddr(t)
	cfg.PublicBaseURL = "http://" + cfg.ListenAddr

	app, err := NewApp(cfg, logging.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(cfg.PublicBaseURL + "/v1/gender_types")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApp_RunFailsOnBusyAddress(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ListenAddr = l.Addr().String()

	app, err := NewApp(cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Error(t, app.Run(context.Background()))
}
