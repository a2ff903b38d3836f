package main

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// enterRawTerm switches stdin to raw non-blocking mode so key presses
// arrive byte by byte without echo. The returned function restores the
// terminal and is safe to call more than once.
func enterRawTerm() (func(), error) {
	fd := int(os.Stdin.Fd())

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = term.Restore(fd, state)
		return nil, err
	}

	restored := false
	restore := func() {
		if restored {
			return
		}
		restored = true
		_ = unix.SetNonblock(fd, false)
		_ = term.Restore(fd, state)
	}
	return restore, nil
}

// readPending returns the bytes currently buffered on stdin, or nil when
// none are waiting.
func readPending() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	buf := make([]byte, 64)

	n, err := unix.Read(fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil, nil
		}
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	return buf[:n], nil
}
