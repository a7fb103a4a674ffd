// Package control serves the yeeloongd control socket. Clients send
// one command per line; the reply is zero or more body lines followed
// by a final "ok" or "err <message>" line, so hook scripts can drive
// the daemon with nothing but a socket write.
package control

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Handler runs one command and returns the reply body.
type Handler func(cmd string) (string, error)

// Server accepts control connections on a unix socket.
type Server struct {
	listener net.Listener
	path     string
	handler  Handler
	closed   atomic.Bool
	wg       sync.WaitGroup
	conns    map[net.Conn]struct{}
	connsMu  sync.Mutex
}

// NewServer listens on the given socket path, replacing a stale
// socket file from a previous run.
func NewServer(path string, handler Handler) (*Server, error) {
	os.Remove(path)

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("control: listen on %s: %w", path, err)
	}
	return &Server{
		listener: listener,
		path:     path,
		handler:  handler,
		conns:    make(map[net.Conn]struct{}),
	}, nil
}

// SocketPath returns the socket file path.
func (s *Server) SocketPath() string {
	return s.path
}

// Serve accepts connections until Close is called.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return nil
			}
			return fmt.Errorf("control: accept: %w", err)
		}

		s.connsMu.Lock()
		s.conns[conn] = struct{}{}
		s.connsMu.Unlock()

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		conn.Close()
		s.connsMu.Lock()
		delete(s.conns, conn)
		s.connsMu.Unlock()
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if s.closed.Load() {
			return
		}
		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" {
			continue
		}

		reply, err := s.handler(cmd)
		if err != nil {
			fmt.Fprintf(conn, "err %v\n", err)
			continue
		}
		if reply != "" {
			fmt.Fprintln(conn, strings.TrimRight(reply, "\n"))
		}
		fmt.Fprintln(conn, "ok")
	}
}

// Close stops accepting, drops open connections and removes the
// socket file.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	if s.listener != nil {
		s.listener.Close()
	}

	s.connsMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()

	s.wg.Wait()

	if s.path != "" {
		os.Remove(s.path)
	}
	return nil
}

// Send connects to the control socket, runs one command and returns
// the reply body.
func Send(path, cmd string) (string, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return "", fmt.Errorf("control: dial %s: %w", path, err)
	}
	defer conn.Close()

	if _, err := fmt.Fprintln(conn, cmd); err != nil {
		return "", fmt.Errorf("control: send: %w", err)
	}

	var body strings.Builder
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "ok" {
			return strings.TrimRight(body.String(), "\n"), nil
		}
		if msg, found := strings.CutPrefix(line, "err "); found {
			return "", fmt.Errorf("control: %s", msg)
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("control: read: %w", err)
	}
	return "", errors.New("control: connection closed before reply")
}
