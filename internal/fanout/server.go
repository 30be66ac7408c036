package fanout

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/DhavalSuthar-24/crickpro/internal/events"
	"github.com/DhavalSuthar-24/crickpro/internal/telemetry"
)

const (
	clientSendBuf = 256
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

type spectator struct {
	userID uint // whose match this client watches
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
}

// Server fans out match events to the WebSocket clients watching that match.
type Server struct {
	mu      sync.Mutex
	clients map[*spectator]struct{}
}

func NewServer(bus *events.Bus) *Server {
	s := &Server{
		clients: make(map[*spectator]struct{}),
	}
	bus.Subscribe(s.forward, events.AllTypes...)
	return s
}

// forward is called on the publisher's goroutine. It serializes the event
// and enqueues it to the match's clients (non-blocking).
func (s *Server) forward(evt events.Event) error {
	data, err := MarshalEvent(evt)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		if c.userID != evt.UserID {
			continue
		}
		select {
		case c.send <- data:
		default:
			telemetry.Warnf("fanout: dropping %s for slow client of match %d", evt.Type, c.userID)
		}
	}
	return nil
}

// Clients reports how many spectators are watching the given match.
func (s *Server) Clients(userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for c := range s.clients {
		if c.userID == userID {
			n++
		}
	}
	return n
}

// Serve upgrades the request and streams userID's match events to it. The
// hello event is the first frame written, so a new spectator starts from the
// current state.
func (s *Server) Serve(w http.ResponseWriter, r *http.Request, userID uint, hello events.Event) {
	first, err := MarshalEvent(hello)
	if err != nil {
		http.Error(w, "could not encode match state", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Warnf("fanout: upgrade failed: %v", err)
		return
	}

	c := &spectator{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, clientSendBuf),
		done:   make(chan struct{}),
	}
	c.send <- first

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	telemetry.Metrics.LiveClients.Inc()
	telemetry.Debugf("fanout: spectator joined match %d", userID)

	go s.writePump(c)
	go s.readPump(c)
}

// writePump drains the client's send channel and writes to the WS connection.
// It owns the client lifecycle: on exit it removes the client from the map
// so forward never sends to a stale channel, then closes the connection.
func (s *Server) writePump(c *spectator) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.removeClient(c)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				telemetry.Debugf("fanout: write error for match %d: %v", c.userID, err)
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump keeps the connection alive by reading pongs and close frames.
// Spectators never send anything meaningful. On exit it signals writePump
// via c.done and never closes c.send.
func (s *Server) readPump(c *spectator) {
	defer close(c.done)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) removeClient(c *spectator) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()
	if ok {
		telemetry.Metrics.LiveClients.Dec()
		telemetry.Debugf("fanout: spectator left match %d", c.userID)
	}
}
