//go:build unix

package sigfd

import (
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// installer routes every signal of a set to one channel and remembers what
// each signal did before, so the previous state can be put back.
type installer struct {
	set    SignalSet
	n      notifier
	logger *slog.Logger

	ch   chan<- os.Signal
	prev []Disposition
}

func newInstaller(set SignalSet, n notifier, logger *slog.Logger) *installer {
	return &installer{set: set, n: n, logger: logger}
}

// install subscribes ch to the whole set. Either every signal is routed to ch
// or, on error, none is and the previous state is back in place.
func (in *installer) install(ch chan<- os.Signal) error {
	scratch := make([]Disposition, 0, in.set.Len())
	for i := 0; i < in.set.Len(); i++ {
		sig := in.set.At(i)
		if !validSignal(sig) {
			in.rollback(ch, scratch)
			return opError("sigaction", sig, unix.EINVAL)
		}

		d, err := snapshot(in.n, sig)
		if err != nil {
			in.rollback(ch, scratch)
			return opError("sigaction", sig, err)
		}

		scratch = append(scratch, d)
		in.n.Notify(ch, sig)
	}

	in.ch = ch
	in.prev = scratch
	in.logger.Debug("signal handlers installed", "signals", in.set.String())
	return nil
}

// rollback undoes the first len(done) installations.
func (in *installer) rollback(ch chan<- os.Signal, done []Disposition) {
	if len(done) == 0 {
		return
	}

	in.n.Stop(ch)
	in.reapply(done)
	in.logger.Debug("signal handler installation rolled back", "installed", len(done))
}

// restore puts back every disposition recorded by install. It never fails.
func (in *installer) restore() {
	if in.ch == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			in.logger.Debug("signal disposition restore failed", "err", r)
		}
	}()

	in.n.Stop(in.ch)
	in.reapply(in.prev)
	in.ch = nil
	in.logger.Debug("signal dispositions restored", "signals", in.set.String())
}

// reapply re-ignores signals that were ignored before Notify cleared that.
func (in *installer) reapply(prev []Disposition) {
	for _, d := range prev {
		if d.Ignored {
			in.n.Ignore(d.Signal)
		}
	}
}
