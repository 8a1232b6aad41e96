package sigfd

import "golang.org/x/sys/unix"

// openPipe returns a close-on-exec pipe whose write end is non-blocking.
func openPipe() (r, w int, err error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		return -1, -1, opError("pipe", 0, err)
	}

	if err := unix.SetNonblock(p[1], true); err != nil {
		closePipe(p[0], p[1])
		return -1, -1, opError("fcntl", 0, err)
	}

	return p[0], p[1], nil
}

// setPipeSize asks the kernel to resize the pipe buffer to at least size
// bytes.
func setPipeSize(fd, size int) error {
	_, err := unix.FcntlInt(uintptr(fd), unix.F_SETPIPE_SZ, size)
	return opError("fcntl", 0, err)
}

// pipeCapacity returns the pipe buffer size in bytes.
func pipeCapacity(fd int) int {
	n, err := unix.FcntlInt(uintptr(fd), unix.F_GETPIPE_SZ, 0)
	if err != nil {
		return 0
	}

	return n
}
