// Package attach implements the attach-side client of a detachable terminal
// multiplexer: it connects to a long-lived master over a Unix domain socket,
// relays stdin into the socket, and hands master output to a framed
// downstream sink.
package attach

// Ctx is the handle the host passes to Run. It is immutable for the
// duration of the attach session.
type Ctx struct {
	// SocketPath is the path to the master's Unix domain socket.
	SocketPath string

	// NoErrorMode, if true, makes a failed initial connection a silent
	// no-op instead of a fatal exit.
	NoErrorMode bool

	// FrameWriter receives bytes read from the socket, in order. If nil,
	// a no-op writer is used.
	FrameWriter FrameWriter

	// InputFramer reads stdin and appends socket-destined bytes to the
	// Input Buffer. Callers typically pass wsframe's raw passthrough
	// framer (wsframe.NewRawInputFramer); Run itself requires a non-nil
	// InputFramer and returns an error if none is set.
	InputFramer InputFramer

	// Logger receives ancillary diagnostics (the connect attempt and a
	// connect failure suppressed by NoErrorMode). It never emits the Exit Reporter's termination
	// line. If nil, logging is skipped.
	Logger Logger
}

// Logger is the minimal ancillary diagnostic sink the Relay Loop writes to.
// It is deliberately narrower than pkg/common.Logger so attach does not
// depend on pkg/common; cmd/attach adapts a pkg/common.Logger to this.
type Logger interface {
	Debugf(format string, args ...interface{})
}
