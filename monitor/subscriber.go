package monitor

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"artikelku/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The event stream lives on the diagnostics listener; origin checks are
	// left to whatever fronts it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Subscriber is one live connection on the diagnostics event stream.
type Subscriber struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

// ServeWs upgrades the connection and registers it with the hub.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Sugar.Error(err)
		return
	}

	subscriber := &Subscriber{
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	subscriber.Hub.Register <- subscriber

	go subscriber.writePump()
	go subscriber.readPump()
}

// readPump discards inbound frames; the stream is one-way. It exists to
// detect the peer closing the connection.
func (s *Subscriber) readPump() {
	defer func() {
		s.Hub.Unregister <- s
		s.Conn.Close()
	}()

	for {
		if _, _, err := s.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Sugar.Errorf("Subscriber read error: %v", err)
			}
			break
		}
	}
}

func (s *Subscriber) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-s.Send:
			if !ok {
				// The hub evicted us.
				s.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			s.Conn.WriteMessage(websocket.TextMessage, message)
		case <-ticker.C:
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
