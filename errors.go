//go:build unix

package sigfd

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrEmptySet - no usable signal numbers were given
	ErrEmptySet = errors.New("empty signal set")
	// ErrTooManySignals - more than MaxSignals distinct signals were given
	ErrTooManySignals = fmt.Errorf("signal set exceeds %d signals", MaxSignals)
	// ErrSignalInUse - a signal of the set is already owned by a live bridge
	ErrSignalInUse = errors.New("signal already owned by a live bridge")
	// ErrClosed - the bridge was closed
	ErrClosed = errors.New("bridge closed")
	// ErrShortRecord - a buffer does not hold exactly one record
	ErrShortRecord = fmt.Errorf("record must be exactly %d bytes", RecordSize)
)

// OpError is returned when setting up a bridge fails at the OS level. Op names
// the failing operation ("pipe", "fcntl", "sigaction"), Signal is set when the
// failure concerns one signal of the set.
type OpError struct {
	Op     string
	Signal syscall.Signal
	Err    error
}

func (e *OpError) Error() string {
	if e.Signal != 0 {
		return fmt.Sprintf("%s(%s): %v", e.Op, SignalName(e.Signal), e.Err)
	}

	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(op string, sig syscall.Signal, err error) error {
	if err == nil {
		return nil
	}

	return &OpError{Op: op, Signal: sig, Err: err}
}
