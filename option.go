//go:build unix

package sigfd

import (
	"log/slog"
	"os"
)

const defaultBuffer = 64

type options struct {
	signals  []os.Signal
	logger   *slog.Logger
	buffer   int
	pipeSize int
	notifier notifier
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// newOptions applies opts over the bridge defaults.
func newOptions(opts []Option) options {
	o := applyOptions(opts)

	if o.signals == nil {
		o.signals = DefaultSignals
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	if o.buffer <= 0 {
		o.buffer = defaultBuffer
	}

	if o.notifier == nil {
		o.notifier = runtimeNotifier{}
	}

	return o
}

type Option func(*options)

// Signals - signals routed to the bridge, DefaultSignals if not set
func Signals(signals ...os.Signal) Option {
	return func(o *options) {
		o.signals = signals
	}
}

// Logger - logger for lifecycle events, slog.Default() if not set
func Logger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Buffer - capacity of the channel between os/signal and the forwarder.
// While it is full os/signal discards deliveries silently; those losses show
// up neither in Stats.Dropped nor in Record.Dropped.
func Buffer(n int) Option {
	return func(o *options) {
		o.buffer = n
	}
}

// PipeSize - requested pipe buffer size in bytes, kernel default if not set.
// Only honoured on linux.
func PipeSize(bytes int) Option {
	return func(o *options) {
		o.pipeSize = bytes
	}
}

func withNotifier(n notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}
