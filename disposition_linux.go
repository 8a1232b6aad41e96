//go:build linux && (386 || amd64 || arm || arm64 || ppc64 || ppc64le || s390x)

package sigfd

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// kernelSigaction mirrors struct sigaction as rt_sigaction(2) sees it on
// architectures with an sa_restorer slot.
type kernelSigaction struct {
	handler  uintptr
	flags    uintptr
	restorer uintptr
	mask     uint64
}

// queryAction reads the installed action without changing it.
func queryAction(sig syscall.Signal) (Action, error) {
	var old kernelSigaction
	_, _, errno := unix.RawSyscall6(unix.SYS_RT_SIGACTION, uintptr(sig), 0,
		uintptr(unsafe.Pointer(&old)), unsafe.Sizeof(old.mask), 0, 0)
	if errno != 0 {
		return Action{}, errno
	}

	return Action{
		Handler:  old.handler,
		Flags:    old.flags,
		Restorer: old.restorer,
		Mask:     old.mask,
	}, nil
}
