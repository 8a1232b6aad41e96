package sigfd

import "golang.org/x/sys/unix"

// nsig is one past the highest signal number, real-time signals included.
const nsig = 65

func gettid() uint32 {
	return uint32(unix.Gettid())
}
