package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"FinStream/pkg/config"
	xhttp "FinStream/pkg/http"
	applogger "FinStream/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestApp_RunContext(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Server.Port = freePort(t)

	srv := xhttp.NewServer(pingHandler{}, applogger.Nop(),
		xhttp.WithPort(cfg.Server.Port),
	)
	app := New(cfg, applogger.Nop(), srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/ping", cfg.Server.Port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
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
		t.Fatal("app did not shut down")
	}
}
