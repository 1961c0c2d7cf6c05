package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/boss-rush/internal/engine"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// events drains every queued event.
func (s *Server) events(c *gin.Context) {
	evts := s.arena.Events().Drain()
	if evts == nil {
		evts = []engine.Event{}
	}
	c.JSON(http.StatusOK, evts)
}

// eventStream pushes events to a websocket client as they are emitted.
// The stream competes with GET /api/events for the same queue.
func (s *Server) eventStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	s.logger.Info("event stream opened", "remote", conn.RemoteAddr().String())

	closed := make(chan struct{})
	go s.readPump(conn, closed)
	s.writePump(conn, closed)

	s.logger.Info("event stream closed", "remote", conn.RemoteAddr().String())
}

// readPump discards client messages and handles pongs until the connection closes.
func (s *Server) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(512)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Warn("failed to set read deadline", "error", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}

// eventWriter is the part of *websocket.Conn used to deliver events.
type eventWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v any) error
}

// flushEvents writes queued events one at a time. An event that fails to
// write goes back to the head of the queue, so nothing is lost for other
// consumers.
func (s *Server) flushEvents(w eventWriter, queue *engine.EventQueue) bool {
	for {
		evt, ok := queue.Pop()
		if !ok {
			return true
		}
		if err := w.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			s.logger.Warn("failed to set write deadline", "error", err)
		}
		if err := w.WriteJSON(evt); err != nil {
			queue.Requeue(evt)
			s.logger.Debug("write event failed", "error", err)
			return false
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := conn.Close(); err != nil {
			s.logger.Debug("failed to close websocket connection", "error", err)
		}
	}()

	queue := s.arena.Events()
	flush := func() bool {
		return s.flushEvents(conn, queue)
	}

	// Events queued before the client connected.
	if !flush() {
		return
	}

	for {
		select {
		case <-closed:
			return

		case <-queue.Ready():
			if !flush() {
				return
			}

		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Warn("failed to set ping write deadline", "error", err)
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Debug("ping failed", "error", err)
				return
			}
		}
	}
}
