package attach

import (
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// staleSocketAge is the threshold past which a socket file that refuses
// connections is considered abandoned and eligible for unlink. A var, not
// a const, so tests can shrink it instead of waiting out a real
// five-minute window.
var staleSocketAge = 300 * time.Second

// maxUnixPathLen is the longest path connect() will accept directly,
// derived from sizeof(sockaddr_un.sun_path) minus the trailing NUL.
var maxUnixPathLen = len(unix.RawSockaddrUnix{}.Path) - 1

// Connect opens a client UDS connection to path, falling back to a
// chdir-shortened relative path when path exceeds the kernel's sun_path
// capacity, and cleaning up stale socket files left behind by a crashed
// master.
func Connect(path string) (int, error) {
	if len(path) > maxUnixPathLen {
		dir, base := filepath.Split(path)
		if dir == "" {
			return -1, newConnectError(ErrKindPathTooLong, path, unix.ENAMETOOLONG)
		}
		return connectViaChdir(dir, base, path)
	}
	return connectDirect(path)
}

// connectDirect attempts a single connect() using path as-is, applying the
// stale-socket policy on connection-refused.
func connectDirect(path string) (int, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, newConnectError(ErrKindTransient, path, err)
	}

	cerr := unix.Connect(fd, &unix.SockaddrUnix{Name: path})
	if cerr == nil {
		return fd, nil
	}
	unix.Close(fd)

	switch cerr {
	case unix.ENOENT:
		return -1, newConnectError(ErrKindNoSuchPath, path, cerr)
	case unix.ECONNREFUSED:
		return -1, handleRefused(path, cerr)
	default:
		return -1, newConnectError(ErrKindTransient, path, cerr)
	}
}

// connectViaChdir implements the path-length fallback: save cwd, chdir
// into dir, connect using only base, then restore cwd unconditionally.
func connectViaChdir(dir, base, origPath string) (int, error) {
	savedCwd, err := unix.Open(".", unix.O_RDONLY, 0)
	if err != nil {
		return -1, newConnectError(ErrKindTransient, origPath, err)
	}
	defer unix.Close(savedCwd)

	if err := unix.Chdir(dir); err != nil {
		return -1, newConnectError(ErrKindTransient, origPath, err)
	}
	defer unix.Fchdir(savedCwd)

	fd, err := connectDirect(base)
	if err != nil {
		if ce, ok := err.(*ConnectError); ok {
			ce.Path = origPath
		}
		return -1, err
	}
	return fd, nil
}

// handleRefused applies the stale-socket policy: a non-socket is reported
// as not-a-socket and left alone; a socket older than staleSocketAge is
// unlinked (best-effort — a concurrent cleanup winning the race, i.e.
// ENOENT on unlink, is not an error); either way connection-refused is
// still what's returned, since cleanup is a side effect and the caller
// decides whether to retry.
func handleRefused(path string, refusedErr error) error {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		if err == unix.ENOENT {
			return newConnectError(ErrKindNoSuchPath, path, err)
		}
		return newConnectError(ErrKindConnRefused, path, refusedErr)
	}

	if st.Mode&unix.S_IFMT != unix.S_IFSOCK || st.Mode&unix.S_IFMT == unix.S_IFREG {
		return newConnectError(ErrKindNotASocket, path, refusedErr)
	}

	ctime := time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	if time.Since(ctime) > staleSocketAge {
		if err := unix.Unlink(path); err != nil && err != unix.ENOENT {
			// Best effort; still surface connection-refused below.
			_ = err
		}
	}

	return newConnectError(ErrKindConnRefused, path, refusedErr)
}
