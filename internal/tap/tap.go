// Package tap streams captured records to locally connected clients.
//
// Wire format: one record per line, <json>\n, unencrypted. The framing is
// deliberately trivial so that "clipjot tail" and anything scriptable
// (nc, jq) can consume it.
package tap

import (
	"encoding/json"
	"log/slog"
	"net"
	"sync"
	"time"

	"go.veldt.dev/clipjot/internal/record"
)

// writeDeadline bounds how long a slow client can hold up a record write
// before being dropped. The watch loop must never block on a reader.
const writeDeadline = 5 * time.Second

// Server accepts tap clients and fans every record out to all of them. It
// implements sink.Sink, so the watcher treats it like any other sink.
type Server struct {
	ln net.Listener

	mu      sync.Mutex
	clients map[net.Conn]struct{}
	closed  bool
}

// Serve starts accepting clients on ln.
func Serve(ln net.Listener) *Server {
	s := &Server{
		ln:      ln,
		clients: make(map[net.Conn]struct{}),
	}
	go s.acceptLoop()
	return s
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.clients[conn] = struct{}{}
		n := len(s.clients)
		s.mu.Unlock()
		slog.Debug("tap client connected", "addr", conn.RemoteAddr(), "clients", n)
	}
}

// Write implements sink.Sink. A client that cannot keep up, or whose
// connection fails, is dropped; tap delivery never fails the watch cycle,
// so Write always returns nil.
func (s *Server) Write(rec record.Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		slog.Error("tap: record encode failed", "err", err)
		return nil
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if _, err := conn.Write(line); err != nil {
			slog.Debug("tap client dropped", "err", err)
			conn.Close()
			delete(s.clients, conn)
			continue
		}
		_ = conn.SetWriteDeadline(time.Time{})
	}
	return nil
}

// Close stops accepting and disconnects all clients.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = make(map[net.Conn]struct{})
	s.mu.Unlock()
	return s.ln.Close()
}
