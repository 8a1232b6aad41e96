//go:build unix

package sigfd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"runtime"
	"slices"
	"sync"
	"syscall"
)

type (
	// dispatcherCtxKey - type for storing dispatcher in context
	dispatcherCtxKey struct{}

	// HandlerFunc - callback fired once per record of a registered signal
	HandlerFunc func(ctx context.Context, rec Record, d *Dispatcher) error

	// Dispatcher - reads records off a bridge and runs the handlers registered
	// for their signal, one record at a time
	Dispatcher struct {
		bridge    *Bridge
		handlers  map[syscall.Signal][]HandlerFunc
		ctx       context.Context
		ctxCancel context.CancelFunc
		logger    *slog.Logger
		mut       *sync.Mutex
		started   bool
	}
)

var (
	CtxKey = dispatcherCtxKey{}
)

// getFName - helper func for getting name of given handler func
func getFName(f any) string {
	return runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()
}

// NewDispatcher - creates a dispatcher reading from b. Only the Logger option
// is used.
func NewDispatcher(b *Bridge, opts ...Option) *Dispatcher {
	o := applyOptions(opts)
	if o.logger == nil {
		o.logger = b.logger
	}

	return &Dispatcher{
		bridge:   b,
		handlers: make(map[syscall.Signal][]HandlerFunc, b.set.Len()),
		logger:   o.logger,
		mut:      new(sync.Mutex),
	}
}

// Add - save given func as a handler for one or more signals of the bridge.
// A signal listed more than once gets the handler once.
func (d *Dispatcher) Add(f HandlerFunc, signals ...os.Signal) error {
	if f == nil {
		return errors.New("nil handler given")
	}

	if len(signals) == 0 {
		return errors.New("min 1 signal for handler required")
	}

	for _, sig := range signals {
		if !d.bridge.set.Contains(sig) {
			return fmt.Errorf("signal %s is not routed to the bridge", SignalName(sig))
		}
	}

	d.mut.Lock()
	defer d.mut.Unlock()

	fName := getFName(f)
	seen := make([]syscall.Signal, 0, len(signals))
	for _, s := range signals {
		sig := s.(syscall.Signal)
		if slices.Contains(seen, sig) {
			continue
		}
		seen = append(seen, sig)

		d.handlers[sig] = append(d.handlers[sig], f)
		d.logger.Debug("handler assigned", "handler", fName, "signal", SignalName(sig))
	}

	return nil
}

// RemoveAll - removes all registered handlers
func (d *Dispatcher) RemoveAll() {
	d.mut.Lock()
	defer d.mut.Unlock()

	d.handlers = make(map[syscall.Signal][]HandlerFunc, d.bridge.set.Len())
	d.logger.Debug("removed handlers for all signals")
}

// Remove - remove all registered handlers for given signals
func (d *Dispatcher) Remove(signals ...os.Signal) {
	if len(signals) == 0 {
		return
	}

	d.mut.Lock()
	defer d.mut.Unlock()

	for _, s := range signals {
		if sig, ok := s.(syscall.Signal); ok {
			delete(d.handlers, sig)
			d.logger.Debug("removed handlers", "signal", SignalName(sig))
		}
	}
}

// Wait - reads and dispatches records in blocking mode until ctx is done,
// Stop is called or the bridge is closed
func (d *Dispatcher) Wait(ctx context.Context) error {
	// ctx with err is possibly closed, return
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("bad ctx given: %w", context.Cause(ctx))
	}

	d.mut.Lock()
	if d.started {
		d.mut.Unlock()
		return errors.New("already started")
	}
	d.started = true

	// save wrapped ctx as a current state
	d.ctx, d.ctxCancel = context.WithCancel(ctx)
	d.ctx = context.WithValue(d.ctx, CtxKey, d)
	runCtx := d.ctx
	d.mut.Unlock()

	for rec, err := range d.bridge.Records(runCtx) {
		if err != nil {
			if runCtx.Err() != nil {
				break
			}
			return fmt.Errorf("read record: %w", err)
		}
		d.dispatch(runCtx, rec)
	}

	if err := runCtx.Err(); err != nil {
		return context.Cause(runCtx)
	}

	return ErrClosed
}

func (d *Dispatcher) dispatch(ctx context.Context, rec Record) {
	d.mut.Lock()
	handlers := d.handlers[rec.Signal()]
	d.mut.Unlock()

	if rec.Dropped > 0 {
		d.logger.Warn("records dropped on a full pipe", "dropped", rec.Dropped)
	}

	if len(handlers) == 0 {
		_ = defaultHandler(ctx, rec, d) // no err for default handler
		return
	}

	d.logger.Debug("dispatching record", "signal", SignalName(rec.Signal()),
		"seq", rec.Seq, "handlers", len(handlers))
	for _, handler := range handlers {
		if err := handler(ctx, rec, d); err != nil {
			d.logger.Error("handler failed", "handler", getFName(handler), "err", err)
		}
	}
}

// Start - run wait process in background
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		if err := d.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("wait failed", "err", err)
		}
	}()
}

// Stop - stops current process and cancels internal context
func (d *Dispatcher) Stop() error {
	d.mut.Lock()
	ctx, cancel := d.ctx, d.ctxCancel
	d.mut.Unlock()

	if ctx == nil {
		return nil
	}

	cancel()
	err := context.Cause(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// Ctx - returns a dispatcher context. Can be nil, if dispatcher was not started
func (d *Dispatcher) Ctx() context.Context {
	d.mut.Lock()
	defer d.mut.Unlock()

	return d.ctx
}

// FromContext - returns the dispatcher running the handler that got ctx
func FromContext(ctx context.Context) (*Dispatcher, bool) {
	d, ok := ctx.Value(CtxKey).(*Dispatcher)
	return d, ok
}
