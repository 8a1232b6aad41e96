//go:build unix

package sigfd

import (
	"sync"
	"sync/atomic"
	"syscall"
)

// registry is the process-wide table of write-end slots. A signal belongs to
// at most one live bridge; the slot for a set is keyed by SignalSet.Key.
var registry = struct {
	mu     sync.Mutex
	slots  map[string]*slot
	owners map[syscall.Signal]string
}{
	slots:  make(map[string]*slot),
	owners: make(map[syscall.Signal]string),
}

// slot holds the write descriptor the forwarder of one set writes to, or -1.
type slot struct {
	key string
	fd  atomic.Int32
}

func (s *slot) publish(fd int) {
	s.fd.Store(int32(fd))
}

func (s *slot) clear() {
	s.fd.Store(-1)
}

func (s *slot) load() int {
	return int(s.fd.Load())
}

// claim reserves every signal of set for a new bridge.
func claim(set SignalSet) (*slot, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	key := set.Key()
	if _, ok := registry.slots[key]; ok {
		return nil, ErrSignalInUse
	}

	for i := 0; i < set.Len(); i++ {
		if _, ok := registry.owners[set.At(i)]; ok {
			return nil, opError("claim", set.At(i), ErrSignalInUse)
		}
	}

	s := &slot{key: key}
	s.clear()
	registry.slots[key] = s
	for i := 0; i < set.Len(); i++ {
		if sig := set.At(i); sig > 0 {
			registry.owners[sig] = key
		}
	}

	return s, nil
}

// release drops the claim taken by claim.
func release(s *slot) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	s.clear()
	delete(registry.slots, s.key)
	for sig, key := range registry.owners {
		if key == s.key {
			delete(registry.owners, sig)
		}
	}
}

// Owned reports whether sig is currently routed to a live bridge.
func Owned(sig syscall.Signal) bool {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	_, ok := registry.owners[sig]
	return ok
}
