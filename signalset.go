//go:build unix

package sigfd

import (
	"os"
	"slices"
	"strconv"
	"strings"
	"syscall"
)

// MaxSignals is the upper bound of distinct signals in one set.
const MaxSignals = 30

// SignalSet is an ordered collection of distinct, non-zero signal numbers.
// The zero value is an empty set.
type SignalSet struct {
	signals []syscall.Signal
}

// NewSignalSet drops zero entries and duplicates, keeping the first
// occurrence in place. Values that are not syscall.Signal are kept as an
// invalid number so installation reports them.
func NewSignalSet(signals ...os.Signal) (SignalSet, error) {
	set := make([]syscall.Signal, 0, len(signals))
	for _, s := range signals {
		var sig syscall.Signal
		switch v := s.(type) {
		case nil:
			continue
		case syscall.Signal:
			sig = v
		default:
			sig = -1
		}

		if sig == 0 || (sig > 0 && slices.Contains(set, sig)) {
			continue
		}
		set = append(set, sig)
	}

	if len(set) == 0 {
		return SignalSet{}, ErrEmptySet
	}

	if len(set) > MaxSignals {
		return SignalSet{}, ErrTooManySignals
	}

	return SignalSet{signals: slices.Clip(set)}, nil
}

// Len returns the number of signals in the set.
func (s SignalSet) Len() int {
	return len(s.signals)
}

// At returns the i-th signal in installation order.
func (s SignalSet) At(i int) syscall.Signal {
	return s.signals[i]
}

// Contains reports whether sig belongs to the set.
func (s SignalSet) Contains(sig os.Signal) bool {
	v, ok := sig.(syscall.Signal)
	return ok && slices.Contains(s.signals, v)
}

// Signals returns a copy of the set as os.Signal values.
func (s SignalSet) Signals() []os.Signal {
	out := make([]os.Signal, len(s.signals))
	for i, sig := range s.signals {
		out[i] = sig
	}

	return out
}

// Key identifies the set regardless of order: "2,10,15".
func (s SignalSet) Key() string {
	sorted := slices.Clone(s.signals)
	slices.Sort(sorted)

	parts := make([]string, len(sorted))
	for i, sig := range sorted {
		parts[i] = strconv.Itoa(int(sig))
	}

	return strings.Join(parts, ",")
}

func (s SignalSet) String() string {
	names := make([]string, len(s.signals))
	for i, sig := range s.signals {
		names[i] = SignalName(sig)
	}

	return "{" + strings.Join(names, " ") + "}"
}
