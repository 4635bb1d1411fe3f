package attach

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestConnectSucceedsAgainstListeningSocket(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "master.sock")

	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	fd, err := Connect(path)
	require.NoError(t, err)
	defer unix.Close(fd)
	assert.Greater(t, fd, 0)
}

func TestConnectNoSuchPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.sock")

	_, err := Connect(path)
	require.Error(t, err)

	ce, ok := err.(*ConnectError)
	require.True(t, ok)
	assert.Equal(t, ErrKindNoSuchPath, ce.Kind)
}

func TestConnectNotASocket(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regular-file")
	require.NoError(t, os.WriteFile(path, []byte("not a socket"), 0o644))

	_, err := Connect(path)
	require.Error(t, err)

	ce, ok := err.(*ConnectError)
	require.True(t, ok)
	assert.Equal(t, ErrKindNotASocket, ce.Kind)
}

func TestConnectStaleSocketIsUnlinkedAfterThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stale.sock")

	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	ln.(*net.UnixListener).SetUnlinkOnClose(false)
	ln.Close() // leaves the socket file behind with nothing listening

	old := staleSocketAge
	staleSocketAge = 0
	defer func() { staleSocketAge = old }()

	_, err = Connect(path)
	require.Error(t, err)
	ce, ok := err.(*ConnectError)
	require.True(t, ok)
	assert.Equal(t, ErrKindConnRefused, ce.Kind)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected stale socket at %s to be unlinked", path)
}

func TestConnectPathTooLongFallsBackViaChdir(t *testing.T) {
	dir := t.TempDir()
	longDirName := strings.Repeat("x", maxUnixPathLen)
	longDir := filepath.Join(dir, longDirName)
	require.NoError(t, os.MkdirAll(longDir, 0o755))

	path := filepath.Join(longDir, "master.sock")
	require.Greater(t, len(path), maxUnixPathLen)

	// net.Listen rejects a path this long, so the listener is bound by its
	// relative name from inside longDir.
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(longDir))
	ln, err := net.Listen("unix", "master.sock")
	require.NoError(t, os.Chdir(origDir))
	require.NoError(t, err)
	ln.(*net.UnixListener).SetUnlinkOnClose(false)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	fd, err := Connect(path)
	require.NoError(t, err)
	defer unix.Close(fd)
	assert.Greater(t, fd, 0)
}

func TestConnectPathTooLongWithoutDirectoryComponentIsPathTooLong(t *testing.T) {
	longName := strings.Repeat("y", maxUnixPathLen+10)

	_, err := Connect(longName)
	require.Error(t, err)
	ce, ok := err.(*ConnectError)
	require.True(t, ok)
	assert.Equal(t, ErrKindPathTooLong, ce.Kind)
}
