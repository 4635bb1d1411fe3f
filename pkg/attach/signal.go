package attach

import (
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
)

// SignalHandler installs handlers for the terminating signals and exposes
// them to the Relay Loop through a self-pipe: the actual os/signal delivery
// happens on a runtime-owned goroutine, which only ever does the one safe
// thing — record which signal arrived and wake up a pipe — leaving the
// Relay Loop to translate that into an Exit Reporter call at a
// well-defined point in its own poll loop instead of running arbitrary
// code from signal context.
type SignalHandler struct {
	pipeR, pipeW *os.File
	pending      atomic.Value // holds os.Signal
	ch           chan os.Signal
}

// InstallSignalHandler ignores SIGPIPE/SIGXFSZ and starts relaying
// SIGHUP/SIGINT/SIGTERM/SIGQUIT into the returned handler's pipe.
func InstallSignalHandler() (*SignalHandler, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	if err := SetNonblocking(int(r.Fd())); err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	signal.Ignore(syscall.SIGPIPE, syscall.SIGXFSZ)

	sh := &SignalHandler{
		pipeR: r,
		pipeW: w,
		ch:    make(chan os.Signal, 4),
	}
	signal.Notify(sh.ch, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go sh.relay()
	return sh, nil
}

func (sh *SignalHandler) relay() {
	for sig := range sh.ch {
		sh.pending.Store(sig)
		sh.pipeW.Write([]byte{0})
	}
}

// FD is the read end of the self-pipe; the Relay Loop polls it alongside
// stdin and the socket.
func (sh *SignalHandler) FD() int {
	return int(sh.pipeR.Fd())
}

// Drain empties the self-pipe's buffered wakeups.
func (sh *SignalHandler) Drain() {
	var buf [32]byte
	for {
		n, err := unix.Read(sh.FD(), buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// Pending returns the most recently delivered signal, or nil if none has
// arrived yet.
func (sh *SignalHandler) Pending() os.Signal {
	v := sh.pending.Load()
	if v == nil {
		return nil
	}
	return v.(os.Signal)
}

// Close stops signal delivery and releases the self-pipe.
func (sh *SignalHandler) Close() {
	signal.Stop(sh.ch)
	close(sh.ch)
	sh.pipeR.Close()
	sh.pipeW.Close()
}

// ReportSignal translates a terminating signal into an Exit Reporter call.
// It never returns for HUP/INT/TERM/QUIT; for any other signal (there
// shouldn't be one, since only those four are delivered) it is a no-op.
func ReportSignal(r *Reporter, sig os.Signal) {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return
	}
	switch s {
	case syscall.SIGHUP, syscall.SIGINT:
		r.Exit("", signalMessage("detached with signal", s), 0)
	case syscall.SIGTERM, syscall.SIGQUIT:
		r.Exit(errnoCategory, signalMessage("unexpected signal", s), 0)
	}
}

func signalMessage(prefix string, s syscall.Signal) string {
	return prefix + ": " + strconv.Itoa(int(s))
}
