package attachtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/cyw0ng95/wattach/pkg/attach"
)

func TestFakeMasterAcceptsAttacherConnection(t *testing.T) {
	m := New(t, t.TempDir(), "master.sock")

	fd, err := attach.Connect(m.Path())
	require.NoError(t, err)
	defer unix.Close(fd)

	conn := m.Accept(time.Second)
	defer conn.Close()

	_, err = conn.Write([]byte("welcome"))
	require.NoError(t, err)

	buf := make([]byte, 16)
	n, err := unix.Read(fd, buf)
	require.NoError(t, err)
	assert.Equal(t, "welcome", string(buf[:n]))
}

func TestFakeMasterCloseMakesFurtherConnectFail(t *testing.T) {
	m := New(t, t.TempDir(), "master.sock")
	path := m.Path()

	fd, err := attach.Connect(path)
	require.NoError(t, err)
	unix.Close(fd)

	m.Close()
	// Close also removes the socket file (net's Unix listener unlinks it on
	// close), so a subsequent connect fails.
	_, err = attach.Connect(path)
	require.Error(t, err)
}
