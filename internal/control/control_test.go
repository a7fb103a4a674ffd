package control

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func startServer(t *testing.T, handler Handler) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ctl.sock")
	srv, err := NewServer(path, handler)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- srv.Serve() }()
	t.Cleanup(func() {
		srv.Close()
		if err := <-done; err != nil {
			t.Errorf("Serve: %v", err)
		}
	})
	return srv
}

func TestRoundtrip(t *testing.T) {
	srv := startServer(t, func(cmd string) (string, error) {
		switch cmd {
		case "status":
			return "state active", nil
		case "suspend":
			return "", nil
		}
		return "", fmt.Errorf("unknown command %q", cmd)
	})

	body, err := Send(srv.SocketPath(), "status")
	if err != nil {
		t.Fatalf("Send status: %v", err)
	}
	if body != "state active" {
		t.Fatalf("body = %q", body)
	}

	body, err = Send(srv.SocketPath(), "suspend")
	if err != nil {
		t.Fatalf("Send suspend: %v", err)
	}
	if body != "" {
		t.Fatalf("suspend body = %q, want empty", body)
	}

	_, err = Send(srv.SocketPath(), "reboot")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("err = %v", err)
	}
}

func TestMultilineBody(t *testing.T) {
	srv := startServer(t, func(cmd string) (string, error) {
		return "line one\nline two\nline three", nil
	})

	body, err := Send(srv.SocketPath(), "trace")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if body != "line one\nline two\nline three" {
		t.Fatalf("body = %q", body)
	}
}

func TestMultipleCommandsPerConnection(t *testing.T) {
	calls := 0
	srv := startServer(t, func(cmd string) (string, error) {
		calls++
		return cmd, nil
	})

	conn, err := net.Dial("unix", srv.SocketPath())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Blank lines between commands are ignored.
	fmt.Fprintf(conn, "status\n\nstatus\n")
	scanner := bufio.NewScanner(conn)
	var lines []string
	for scanner.Scan() && len(lines) < 4 {
		lines = append(lines, scanner.Text())
	}
	want := []string{"status", "ok", "status", "ok"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
}

func TestReplacesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl.sock")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	srv, err := NewServer(path, func(string) (string, error) { return "", nil })
	if err != nil {
		t.Fatalf("NewServer over stale socket: %v", err)
	}
	srv.Close()
}

func TestCloseRemovesSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl.sock")
	srv, err := NewServer(path, func(string) (string, error) { return "", nil })
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- srv.Serve() }()

	if err := srv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Serve after Close: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("socket file still there: %v", err)
	}
	// Closing again is fine.
	if err := srv.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
