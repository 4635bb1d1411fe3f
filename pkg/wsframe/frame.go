// Package wsframe provides the default FrameWriter and InputFramer
// implementations for pkg/attach: a small length-prefixed binary frame for
// socket output, and a raw passthrough for stdin input.
package wsframe

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/sys/unix"

	"github.com/cyw0ng95/wattach/pkg/attach"
)

// Frame header layout: 2-byte magic, 1-byte version, 4-byte big-endian
// payload length, followed by the payload itself.
const (
	magicByte1 byte = 0x57 // 'W'
	magicByte2 byte = 0x41 // 'A'

	protocolVersion byte = 0x01

	headerSize = 7
)

// Writer is a FrameWriter that wraps every chunk read from the master's
// socket in a fixed header before writing it downstream, so a consumer on
// the other end of out can distinguish frame boundaries in a byte stream
// that otherwise has none.
type Writer struct {
	out    io.Writer
	header [headerSize]byte
}

// NewWriter returns a Writer delivering frames to out.
func NewWriter(out io.Writer) *Writer {
	w := &Writer{out: out}
	w.header[0] = magicByte1
	w.header[1] = magicByte2
	w.header[2] = protocolVersion
	return w
}

// WriteFrame implements attach.FrameWriter. A write error downstream is not
// recoverable from inside the Relay Loop's contract (FrameWriter reports no
// error), so it is dropped; a consumer that cares should wrap out itself.
func (w *Writer) WriteFrame(p []byte) {
	binary.BigEndian.PutUint32(w.header[3:7], uint32(len(p)))
	if _, err := w.out.Write(w.header[:]); err != nil {
		return
	}
	if len(p) == 0 {
		return
	}
	_, _ = w.out.Write(p)
}

var _ attach.FrameWriter = (*Writer)(nil)

// DecodeHeader parses the fixed header at the front of buf, returning the
// declared payload length. It is the inverse of the encoding Writer
// produces, for use by a downstream consumer reassembling frames.
func DecodeHeader(buf []byte) (payloadLen int, err error) {
	if len(buf) < headerSize {
		return 0, fmt.Errorf("wsframe: short header: need %d bytes, got %d", headerSize, len(buf))
	}
	if buf[0] != magicByte1 || buf[1] != magicByte2 {
		return 0, fmt.Errorf("wsframe: bad magic: got [%02x %02x]", buf[0], buf[1])
	}
	if buf[2] != protocolVersion {
		return 0, fmt.Errorf("wsframe: unsupported version %d", buf[2])
	}
	return int(binary.BigEndian.Uint32(buf[3:7])), nil
}

// HeaderSize is the fixed header length, exported for callers sizing their
// own reassembly buffers.
const HeaderSize = headerSize

// RawInputFramer is the default InputFramer: it reads whatever is
// immediately available on stdinFD and appends it to buf unmodified. Input
// typed at a terminal needs no framing of its own — the master distinguishes
// attachers by the hello token, not by per-chunk headers.
type RawInputFramer struct {
	scratch [4096]byte
}

// NewRawInputFramer returns a ready-to-use RawInputFramer.
func NewRawInputFramer() *RawInputFramer {
	return &RawInputFramer{}
}

// Forward implements attach.InputFramer. A read error or EOF on stdin is
// swallowed here: per the Relay Loop's contract an InputFramer reports no
// error, and a closed stdin simply means nothing more will ever be typed,
// not that the session should end.
func (f *RawInputFramer) Forward(stdinFD int, buf *attach.Buffer) {
	n, err := unix.Read(stdinFD, f.scratch[:])
	if err != nil || n <= 0 {
		return
	}
	buf.Append(f.scratch[:n])
}

var _ attach.InputFramer = (*RawInputFramer)(nil)
