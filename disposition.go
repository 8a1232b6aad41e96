//go:build unix

package sigfd

import (
	"fmt"
	"os"
	"syscall"
)

// Action is the kernel view of a signal disposition. It is zero on platforms
// where the module cannot query it.
type Action struct {
	Handler  uintptr
	Flags    uintptr
	Restorer uintptr
	Mask     uint64
}

// Disposition captures how a signal was handled at one point in time. Two
// snapshots of an untouched signal compare equal with ==.
type Disposition struct {
	Signal  syscall.Signal
	Ignored bool
	Action  Action
}

func (d Disposition) String() string {
	return fmt.Sprintf("%s{ignored=%t handler=%#x flags=%#x mask=%#x}",
		SignalName(d.Signal), d.Ignored, d.Action.Handler, d.Action.Flags, d.Action.Mask)
}

// Snapshot returns the current disposition of every given signal. Signals
// that cannot be queried get a zero Action.
func Snapshot(signals ...os.Signal) []Disposition {
	out := make([]Disposition, 0, len(signals))
	for _, s := range signals {
		sig, ok := s.(syscall.Signal)
		if !ok {
			continue
		}

		d, _ := snapshot(runtimeNotifier{}, sig)
		out = append(out, d)
	}

	return out
}

func snapshot(n notifier, sig syscall.Signal) (Disposition, error) {
	act, err := queryAction(sig)
	return Disposition{Signal: sig, Ignored: n.Ignored(sig), Action: act}, err
}
