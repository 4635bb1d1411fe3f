package attach

import (
	"golang.org/x/sys/unix"

	"github.com/cyw0ng95/wattach/pkg/assert"
)

// initialBufferCap is the starting capacity for a fresh Buffer; chosen to
// cover a single keystroke burst without forcing an immediate grow.
const initialBufferCap = 256

// Buffer is an owned, growable byte buffer holding data queued for the
// socket while the socket is not yet writable. Bytes are delivered in
// exactly the order they were appended; there is no batching,
// deduplication, or reordering.
type Buffer struct {
	bytes []byte
	len   int
}

// NewBuffer returns an idle Buffer ready for use.
func NewBuffer() *Buffer {
	return &Buffer{bytes: make([]byte, initialBufferCap)}
}

// Idle reports whether the buffer holds no pending bytes. While idle, the
// Relay Loop must not register write interest on the socket.
func (b *Buffer) Idle() bool {
	return b.len == 0
}

// Len returns the number of pending bytes.
func (b *Buffer) Len() int {
	return b.len
}

// Append concatenates src onto the tail, growing capacity as needed. There
// are no partial appends: all of src is queued.
func (b *Buffer) Append(src []byte) {
	if len(src) == 0 {
		return
	}
	need := b.len + len(src)
	if need > cap(b.bytes) {
		grown := make([]byte, need, need*2)
		copy(grown, b.bytes[:b.len])
		b.bytes = grown
	} else if need > len(b.bytes) {
		b.bytes = b.bytes[:cap(b.bytes)]
	}
	copy(b.bytes[b.len:need], src)
	b.len = need
	assert.AssertMsg(b.len >= 0 && b.len <= cap(b.bytes), "buffer len out of bounds after append")
}

// DrainTo issues a single non-blocking write of the pending contents to fd.
// On a partial write, the unsent remainder is shifted to the head and len
// is reduced accordingly — the first len-n bytes afterward are exactly what
// remained unsent, in original order. ErrWouldBlock is returned, and the
// buffer left unchanged, when the write would block.
func (b *Buffer) DrainTo(fd int) (int, error) {
	if b.len == 0 {
		return 0, nil
	}
	n, err := unix.Write(fd, b.bytes[:b.len])
	if err != nil {
		if isRetryable(err) {
			return 0, ErrWouldBlock
		}
		return 0, err
	}
	if n < b.len {
		copy(b.bytes, b.bytes[n:b.len])
	}
	b.len -= n
	assert.AssertMsg(b.len >= 0 && b.len <= cap(b.bytes), "buffer len out of bounds after drain")
	return n, nil
}

func isRetryable(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR
}
