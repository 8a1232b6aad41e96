//go:build unix && !linux

package sigfd

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// openPipe returns a close-on-exec pipe whose write end is non-blocking.
// ForkLock keeps a concurrent fork from inheriting the descriptors before
// FD_CLOEXEC is set.
func openPipe() (r, w int, err error) {
	var p [2]int
	syscall.ForkLock.RLock()
	defer syscall.ForkLock.RUnlock()

	if err := unix.Pipe(p[:]); err != nil {
		return -1, -1, opError("pipe", 0, err)
	}

	for _, fd := range p {
		if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
			closePipe(p[0], p[1])
			return -1, -1, opError("fcntl", 0, err)
		}
	}

	if err := unix.SetNonblock(p[1], true); err != nil {
		closePipe(p[0], p[1])
		return -1, -1, opError("fcntl", 0, err)
	}

	return p[0], p[1], nil
}

func setPipeSize(int, int) error {
	return nil
}

func pipeCapacity(int) int {
	return 0
}
