package attach

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestConnectErrorUnwrap(t *testing.T) {
	ce := newConnectError(ErrKindNoSuchPath, "/tmp/x.sock", unix.ENOENT)
	assert.True(t, errors.Is(ce, unix.ENOENT))
}

func TestConnectErrorMessageIncludesPathAndKind(t *testing.T) {
	ce := newConnectError(ErrKindPathTooLong, "/very/long/path.sock", nil)
	msg := ce.Error()
	assert.Contains(t, msg, "/very/long/path.sock")
	assert.Contains(t, msg, string(ErrKindPathTooLong))
}

func TestConnectErrorMessageWithoutUnderlyingErr(t *testing.T) {
	ce := newConnectError(ErrKindNotASocket, "/tmp/x.sock", nil)
	assert.NotContains(t, ce.Error(), "<nil>")
}
