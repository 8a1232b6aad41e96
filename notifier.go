//go:build unix

package sigfd

import (
	"os"
	"os/signal"
)

// notifier abstracts os/signal so installation and rollback can be observed
// in tests.
type notifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
	Ignore(sig ...os.Signal)
	Ignored(sig os.Signal) bool
}

// runtimeNotifier delegates to the os/signal package.
type runtimeNotifier struct{}

func (runtimeNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (runtimeNotifier) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

func (runtimeNotifier) Ignore(sig ...os.Signal) {
	signal.Ignore(sig...)
}

func (runtimeNotifier) Ignored(sig os.Signal) bool {
	return signal.Ignored(sig)
}
