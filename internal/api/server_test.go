package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finboard/pkg/config"
	"github.com/wonny/finboard/pkg/logger"
)

func TestNewServerWiring(t *testing.T) {
	cfg := &config.Config{Port: "8080", Env: "development"}

	srv := New(cfg, logger.Nop(), testRouter())
	require.NotNil(t, srv.httpServer)

	assert.Equal(t, ":8080", srv.httpServer.Addr)
	assert.Equal(t, 15*time.Second, srv.httpServer.ReadTimeout)
	assert.Equal(t, 30*time.Second, srv.httpServer.WriteTimeout, "스캔 응답 여유")
	assert.Equal(t, 60*time.Second, srv.httpServer.IdleTimeout)
}
