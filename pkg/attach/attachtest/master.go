// Package attachtest provides a minimal fake master for exercising
// pkg/attach's Socket Connector and Relay Loop against a real Unix domain
// socket, without requiring an actual multiplexer master process.
package attachtest

import (
	"net"
	"path/filepath"
	"testing"
	"time"
)

// FakeMaster listens on a Unix domain socket and hands accepted connections
// to the test through a channel, so a test can drive both sides of the
// conversation an attach session has with a real master.
type FakeMaster struct {
	t    *testing.T
	ln   net.Listener
	path string
	conn chan net.Conn
}

// New starts a FakeMaster listening at <dir>/<name>. The listener is closed
// automatically via t.Cleanup.
func New(t *testing.T, dir, name string) *FakeMaster {
	t.Helper()
	path := filepath.Join(dir, name)

	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("attachtest: listen %s: %v", path, err)
	}

	m := &FakeMaster{t: t, ln: ln, path: path, conn: make(chan net.Conn, 1)}
	go m.accept()
	t.Cleanup(func() { _ = ln.Close() })
	return m
}

func (m *FakeMaster) accept() {
	conn, err := m.ln.Accept()
	if err != nil {
		return
	}
	m.conn <- conn
}

// Path is the socket path an attacher should connect to.
func (m *FakeMaster) Path() string {
	return m.path
}

// Accept blocks until an attacher connects, or timeout elapses.
func (m *FakeMaster) Accept(timeout time.Duration) net.Conn {
	m.t.Helper()
	select {
	case c := <-m.conn:
		return c
	case <-time.After(timeout):
		m.t.Fatalf("attachtest: no attacher connected within %s", timeout)
		return nil
	}
}

// Close stops listening, independent of the t.Cleanup registered by New —
// useful for tests that want to simulate the master disappearing mid-test.
func (m *FakeMaster) Close() {
	_ = m.ln.Close()
}
