//go:build unix

package sigfd

import (
	"context"
)

func defaultHandler(_ context.Context, rec Record, d *Dispatcher) error {
	d.logger.Info("incoming signal, no handler found, skip", "signal", SignalName(rec.Signal()), "seq", rec.Seq)
	return nil
}

// Shutdown - handler that stops the dispatcher
func Shutdown(_ context.Context, _ Record, d *Dispatcher) error {
	return d.Stop()
}
