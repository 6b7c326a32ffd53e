//go:build unix

package term

import (
	"errors"

	"golang.org/x/sys/unix"
)

func setNonblock(fd int, nonblocking bool) error {
	return unix.SetNonblock(fd, nonblocking)
}

// readByte returns ok=false when no input is pending.
func readByte(fd int, buf []byte) (ok bool, err error) {
	n, err := unix.Read(fd, buf)
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EINTR) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
