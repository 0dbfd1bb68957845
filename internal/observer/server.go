// Package observer is a read-only spectator feed: each tick's snapshot is
// broadcast as JSON to every connected websocket client. Grounded on the
// teacher's transport/observer.Server fan-out (SUBSCRIBE handshake dropped
// since there is nothing to subscribe to but the whole match).
package observer

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/murphybt/massim-2020/internal/engine"
)

type Server struct {
	log *log.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]bool
}

type client struct {
	out chan []byte
}

func NewServer(logger *log.Logger) *Server {
	return &Server{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 * 1024,
			WriteBufferSize: 32 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: map[*client]bool{},
	}
}

// Broadcast sends the snapshot to every connected spectator. Slow clients
// are dropped from the send rather than stalling the tick loop.
func (s *Server) Broadcast(snap engine.Snapshot) {
	b, err := json.Marshal(snap)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.out <- b:
		default:
		}
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		c := &client{out: make(chan []byte, 32)}
		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()
		defer s.removeClient(c)

		go s.discardReads(conn, c)

		for b := range c.out {
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}
}

// removeClient deregisters c and closes its channel, guarded by s.mu so it
// can never race Broadcast's send (which holds the same lock) and never
// double-closes c.out if the read and write sides both disconnect at once.
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[c] {
		delete(s.clients, c)
		close(c.out)
	}
}

// discardReads keeps the connection's read side drained so the client's
// pings/closes are observed; spectators never send meaningful messages.
// On disconnect it closes c.out so the write loop's range exits even if no
// Broadcast happens to run afterward.
func (s *Server) discardReads(conn *websocket.Conn, c *client) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			_ = conn.Close()
			s.removeClient(c)
			return
		}
	}
}
