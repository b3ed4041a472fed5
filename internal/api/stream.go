package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/finboard/internal/contracts"
	"github.com/wonny/finboard/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 로컬 대시보드 전용이므로 오리진 검사는 하지 않는다
		return true
	},
}

// streamMessage is the envelope for every websocket push
type streamMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Stream pushes squeeze scan results to connected websocket clients.
// Writes to a single connection are serialized with a per-connection mutex;
// gorilla/websocket does not allow concurrent writers.
type Stream struct {
	logger  *logger.Logger
	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

// NewStream creates an empty websocket stream
func NewStream(log *logger.Logger) *Stream {
	return &Stream{
		logger:  log,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Handle upgrades the request and keeps the connection registered until
// the client disconnects. Incoming messages are drained and ignored.
func (s *Stream) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Error("웹소켓 업그레이드 실패")
		return
	}

	s.mu.Lock()
	s.clients[conn] = &sync.Mutex{}
	total := len(s.clients)
	s.mu.Unlock()

	s.logger.WithField("clients", total).Debug("웹소켓 클라이언트 연결")

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		remaining := len(s.clients)
		s.mu.Unlock()

		conn.Close()
		s.logger.WithField("clients", remaining).Debug("웹소켓 클라이언트 연결 종료")
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.WithError(err).Warn("웹소켓 읽기 오류")
			}
			return
		}
	}
}

// ClientCount returns the number of connected clients
func (s *Stream) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// BroadcastSqueeze sends the latest squeeze candidates to every client
func (s *Stream) BroadcastSqueeze(candidates []contracts.SqueezeScore) {
	s.broadcast(streamMessage{
		Type:      "squeeze_candidates",
		Payload:   candidates,
		Timestamp: time.Now(),
	})
}

func (s *Stream) broadcast(msg streamMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.WithError(err).Error("웹소켓 메시지 직렬화 실패")
		return
	}

	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	mutexes := make([]*sync.Mutex, 0, len(s.clients))
	for conn, mu := range s.clients {
		conns = append(conns, conn)
		mutexes = append(mutexes, mu)
	}
	s.mu.RUnlock()

	for i, conn := range conns {
		mutexes[i].Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		mutexes[i].Unlock()

		if err != nil {
			s.logger.WithError(err).Warn("웹소켓 전송 실패")
		}
	}
}
