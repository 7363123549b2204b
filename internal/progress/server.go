// Package progress implements the optional live-progress stream (C9,
// SPEC_FULL.md §4.9): a gorilla/websocket broadcast server that emits one
// JSON event per phase checkpoint, so a long-running compile can be
// watched from a browser tab. Grounded in sentra-language-sentra's
// internal/network WebSocket broadcast shape, generalized from a
// multi-server registry down to the single server one compiler process
// needs.
package progress

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one phase checkpoint broadcast to every connected client.
type Event struct {
	RunID     string    `json:"run_id"`
	Phase     string    `json:"phase"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server is an opt-in broadcast endpoint; a run with -stream-addr unset
// never constructs one, so the rest of the pipeline has no dependency on
// it at all.
type Server struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	http    *http.Server
}

// Listen starts the server in the background and returns immediately; call
// Shutdown to stop it once the compile finishes.
func Listen(addr string) (*Server, error) {
	s := &Server{clients: map[*websocket.Conn]bool{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/progress", s.handle)
	s.http = &http.Server{Addr: addr, Handler: mux}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("progress: server stopped: %v", err)
		}
	}()
	return s, nil
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
}

// Broadcast sends ev to every connected client. A client whose write fails
// is dropped silently: a stalled viewer must never slow down or fail the
// compile itself.
func (s *Server) Broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// Shutdown stops accepting connections and closes every open socket.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = map[*websocket.Conn]bool{}
	s.mu.Unlock()
	return s.http.Shutdown(ctx)
}
