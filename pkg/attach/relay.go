package attach

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// helloToken is the two-byte sequence the attacher sends immediately after
// connect, so the master's input framer recognizes a new attacher has
// arrived.
var helloToken = []byte{'\\', 'N'}

// scratchSize is the fixed size of the transient read buffer used to drain
// the socket.
const scratchSize = 4096

const stdinFD = 0

// noopLogger discards everything; used when Ctx.Logger is nil.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}

// Run is the entry point for the Relay Loop: it connects, configures
// non-blocking mode, installs signal handling, sends the hello token, and
// then runs the readiness-driven loop until a signal, socket EOF, or fatal
// errno ends the process through the Exit Reporter. A nil Ctx.InputFramer
// is rejected with an error before anything else is done. Otherwise Run only
// returns (with a nil error) in the noerror_mode-with-failed-connect case,
// the one non-fatal path across this boundary; every other exit is via the
// Reporter's Exit, which terminates the process.
func Run(ctx Ctx) error {
	if ctx.InputFramer == nil {
		return fmt.Errorf("attach: ctx.InputFramer is required")
	}
	frameWriter := ctx.FrameWriter
	if frameWriter == nil {
		frameWriter = noopFrameWriter{}
	}
	log := ctx.Logger
	if log == nil {
		log = noopLogger{}
	}
	reporter := NewReporter(os.Stderr)

	log.Debugf("connecting to %s", ctx.SocketPath)
	fd, err := Connect(ctx.SocketPath)
	if err != nil {
		if ctx.NoErrorMode {
			log.Debugf("connect failed, noerror_mode: %v", err)
			return nil
		}
		reportConnectFailure(reporter, ctx.SocketPath, err)
		return nil
	}
	defer unix.Close(fd)

	if err := SetNonblocking(stdinFD); err != nil {
		reporter.Exit(errnoCategory, err.Error(), 0)
		return nil
	}
	if err := SetNonblocking(fd); err != nil {
		reporter.Exit(errnoCategory, err.Error(), 0)
		return nil
	}

	sh, err := InstallSignalHandler()
	if err != nil {
		reporter.Exit(errnoCategory, err.Error(), 0)
		return nil
	}
	defer sh.Close()

	if err := writeHelloBestEffort(fd); err != nil {
		reporter.Exit(errnoCategory, "hello token write failed", int(errnoOf(err)))
		return nil
	}

	loop := &loop{
		stdinFD:     stdinFD,
		fd:          fd,
		buf:         NewBuffer(),
		sh:          sh,
		reporter:    reporter,
		log:         log,
		frameWriter: frameWriter,
		inputFramer: ctx.InputFramer,
	}
	loop.run()
	return nil
}

// reportConnectFailure maps a *ConnectError onto the Exit Reporter's
// category/message/code contract.
func reportConnectFailure(r *Reporter, path string, err error) {
	ce, ok := err.(*ConnectError)
	if !ok {
		r.Exit(errnoCategory, fmt.Sprintf("connect %s failed", path), 0)
		return
	}
	r.Exit(errnoCategory, fmt.Sprintf("connect %s failed: %s", path, ce.Kind), int(errnoOf(ce.Err)))
}

func errnoOf(err error) unix.Errno {
	if errno, ok := err.(unix.Errno); ok {
		return errno
	}
	return 0
}

// writeHelloBestEffort sends helloToken, tolerating partial writes and
// EAGAIN by waiting for writability between attempts. The socket's send
// buffer is freshly connected and empty, so this resolves in one attempt in
// practice, but a partial write is still handled rather than assumed away.
func writeHelloBestEffort(fd int) error {
	off := 0
	for off < len(helloToken) {
		n, err := unix.Write(fd, helloToken[off:])
		if err != nil {
			if isRetryable(err) {
				pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
				if _, perr := unix.Poll(pfd, -1); perr != nil && perr != unix.EINTR {
					return perr
				}
				continue
			}
			return err
		}
		off += n
	}
	return nil
}

// loop holds what the Relay Loop owns exclusively: the socket descriptor and
// the Input Buffer. The scratch read buffer is allocated locally by run.
type loop struct {
	stdinFD     int
	fd          int
	buf         *Buffer
	sh          *SignalHandler
	reporter    *Reporter
	log         Logger
	frameWriter FrameWriter
	inputFramer InputFramer
}

// run is the readiness-multiplexed core of the Relay Loop. It blocks
// indefinitely in poll() each iteration and handles, in order, signal
// delivery, socket-readable, stdin-readable, then socket-writable — so
// newly received data is flushed downstream and newly typed input is
// queued before the loop potentially blocks again.
func (l *loop) run() {
	scratch := make([]byte, scratchSize)
	sigFD := l.sh.FD()

	for {
		pfds := []unix.PollFd{
			{Fd: int32(l.stdinFD), Events: unix.POLLIN},
			{Fd: int32(l.fd), Events: unix.POLLIN},
			{Fd: int32(sigFD), Events: unix.POLLIN},
		}
		if !l.buf.Idle() {
			pfds[1].Events |= unix.POLLOUT
		}

		if _, err := unix.Poll(pfds, -1); err != nil {
			if isRetryable(err) {
				continue
			}
			l.reporter.Exit(errnoCategory, "poll failed", int(errnoOf(err)))
			return
		}

		if pfds[2].Revents&(unix.POLLIN|unix.POLLHUP) != 0 {
			l.sh.Drain()
			if sig := l.sh.Pending(); sig != nil {
				ReportSignal(l.reporter, sig)
				return
			}
		}

		if pfds[1].Revents&unix.POLLIN != 0 {
			if !l.handleSocketReadable(scratch) {
				return
			}
		}

		if pfds[0].Revents&unix.POLLIN != 0 {
			l.inputFramer.Forward(l.stdinFD, l.buf)
		}

		if pfds[1].Revents&unix.POLLOUT != 0 && !l.buf.Idle() {
			if _, err := l.buf.DrainTo(l.fd); err != nil && err != ErrWouldBlock {
				l.reporter.Exit(errnoCategory, "socket write failed", int(errnoOf(err)))
				return
			}
		}
	}
}

// handleSocketReadable drains up to one scratch buffer's worth from the
// socket and hands it to the frame writer. It returns false when the loop
// must stop (EOF or a fatal read error, both of which already reported via
// the Exit Reporter).
func (l *loop) handleSocketReadable(scratch []byte) bool {
	n, err := unix.Read(l.fd, scratch)
	if err != nil {
		if isRetryable(err) {
			return true
		}
		l.reporter.Exit(errnoCategory, "socket read failed", int(errnoOf(err)))
		return false
	}
	if n == 0 {
		l.reporter.Exit("", "EOF - dtach terminating", 0)
		return false
	}
	l.frameWriter.WriteFrame(scratch[:n])
	return true
}
