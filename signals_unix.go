//go:build unix

package sigfd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// DefaultSignals - signals monitored when no Signals option is given
var DefaultSignals = []os.Signal{
	unix.SIGHUP,
	unix.SIGINT,
	unix.SIGTERM,
	unix.SIGUSR1,
	unix.SIGUSR2,
}

// validSignal reports whether sig could be handed to sigaction(2) with a
// handler attached.
func validSignal(sig syscall.Signal) bool {
	if sig <= 0 || int(sig) >= nsig {
		return false
	}

	return sig != unix.SIGKILL && sig != unix.SIGSTOP
}

// SignalName - returns the conventional name of sig ("SIGINT"), or its number
// when the platform has no name for it
func SignalName(sig os.Signal) string {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return sig.String()
	}

	if name := unix.SignalName(s); name != "" {
		return name
	}

	return strconv.Itoa(int(s))
}

// ParseSignal - resolves "INT", "SIGINT", "sigint" or "2" into a signal
func ParseSignal(s string) (syscall.Signal, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return 0, errors.New("empty signal name")
	}

	if n, err := strconv.Atoi(name); err == nil {
		return syscall.Signal(n), nil
	}

	if !strings.HasPrefix(name, "SIG") {
		name = "SIG" + name
	}

	sig := unix.SignalNum(name)
	if sig == 0 {
		return 0, fmt.Errorf("unknown signal %q", s)
	}

	return sig, nil
}
