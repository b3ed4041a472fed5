package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finboard/internal/contracts"
	"github.com/wonny/finboard/pkg/logger"
)

func dialStream(t *testing.T, stream *Stream) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(stream.Handle))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// 등록은 업그레이드 고루틴에서 일어나므로 잠깐 기다린다
	deadline := time.Now().Add(2 * time.Second)
	for stream.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 1, stream.ClientCount())

	return conn
}

func TestStreamBroadcastSqueeze(t *testing.T) {
	stream := NewStream(logger.Nop())
	conn := dialStream(t, stream)

	stream.BroadcastSqueeze([]contracts.SqueezeScore{
		{Code: "247540", Name: "에코프로비엠", TotalScore: 82, Tier: contracts.TierCritical},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string                   `json:"type"`
		Payload []contracts.SqueezeScore `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "squeeze_candidates", msg.Type)
	require.Len(t, msg.Payload, 1)
	assert.Equal(t, "247540", msg.Payload[0].Code)
}

func TestStreamClientCountAfterClose(t *testing.T) {
	stream := NewStream(logger.Nop())
	conn := dialStream(t, stream)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for stream.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 0, stream.ClientCount())
}

func TestStreamBroadcastWithoutClients(t *testing.T) {
	stream := NewStream(logger.Nop())

	// 연결된 클라이언트가 없어도 패닉 없이 지나가야 한다
	stream.BroadcastSqueeze(nil)
}
