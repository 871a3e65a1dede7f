package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WsServer struct {
	hub        *Hub
	upgrader   websocket.Upgrader
	sendBuffer int
	readLimit  int64
}

func NewWsServer(h *Hub, sendBuffer int, readLimit int64) *WsServer {
	return &WsServer{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Game clients are served from arbitrary origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sendBuffer: sendBuffer,
		readLimit:  readLimit,
	}
}

func (s *WsServer) Register(r gin.IRoutes) {
	r.GET("/ws", s.Handle)
}

// ---------------------------------------------------------------------------
//  Public: Gin entry‑point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		// the upgrader has already written an HTTP error
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(s.readLimit)

	conn := newClientConn(rawConn, s.sendBuffer)
	s.hub.Register(conn)
	zap.L().Debug("ws.connected", zap.String("remote", rawConn.RemoteAddr().String()))

	go conn.writePump()
	go s.reader(conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) reader(conn *clientConn) {
	defer s.hub.Unregister(conn)

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, data, err := conn.rawConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("ws.read", zap.Error(err))
			}
			return // client closed or errored
		}
		if mt != websocket.TextMessage {
			zap.L().Warn("ws.drop_frame", zap.String("reason", "non-text frame"))
			continue
		}
		_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
		s.hub.HandleFrame(conn, data)
	}
}
