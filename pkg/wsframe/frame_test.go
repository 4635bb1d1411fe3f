package wsframe

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterWriteFrameRoundTrip(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	w.WriteFrame([]byte("hello"))

	got := out.Bytes()
	require.Len(t, got, HeaderSize+len("hello"))

	n, err := DecodeHeader(got)
	require.NoError(t, err)
	assert.Equal(t, len("hello"), n)
	assert.Equal(t, "hello", string(got[HeaderSize:]))
}

func TestWriterWriteFrameEmptyPayload(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	w.WriteFrame(nil)

	got := out.Bytes()
	require.Len(t, got, HeaderSize)

	n, err := DecodeHeader(got)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestWriterMultipleFramesAreIndependentlyDecodable(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	w.WriteFrame([]byte("one"))
	w.WriteFrame([]byte("two-longer"))

	got := out.Bytes()

	n1, err := DecodeHeader(got)
	require.NoError(t, err)
	require.Equal(t, 3, n1)
	off := HeaderSize + n1
	assert.Equal(t, "one", string(got[HeaderSize:off]))

	n2, err := DecodeHeader(got[off:])
	require.NoError(t, err)
	require.Equal(t, 10, n2)
	assert.Equal(t, "two-longer", string(got[off+HeaderSize:off+HeaderSize+n2]))
}

func TestDecodeHeaderRejectsShortBuffer(t *testing.T) {
	_, err := DecodeHeader([]byte{0x57, 0x41})
	assert.Error(t, err)
}

func TestDecodeHeaderRejectsBadMagic(t *testing.T) {
	buf := make([]byte, HeaderSize)
	buf[0], buf[1], buf[2] = 0x00, 0x00, protocolVersion
	_, err := DecodeHeader(buf)
	assert.Error(t, err)
}

func TestDecodeHeaderRejectsUnsupportedVersion(t *testing.T) {
	buf := make([]byte, HeaderSize)
	buf[0], buf[1], buf[2] = magicByte1, magicByte2, 0xFF
	_, err := DecodeHeader(buf)
	assert.Error(t, err)
}
