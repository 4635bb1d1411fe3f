package attach

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SetNonblocking places fd in non-blocking mode. The Relay Loop multiplexes
// purely on readiness and must never block on a descriptor, even when a
// readiness event turns out to be stale.
func SetNonblocking(fd int) error {
	if err := unix.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("attach: set nonblocking fd %d: %w", fd, err)
	}
	return nil
}
