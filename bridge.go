//go:build unix

package sigfd

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// pollInterval bounds how long a reader holds the read end between checks
// for cancellation and Close.
const pollInterval = 50 * time.Millisecond

// readChunk is how many bytes a reader takes off the pipe at once.
const readChunk = 16 * RecordSize

type (
	// Bridge turns delivered signals into records readable from a pipe.
	//
	// Every signal of the set is routed to a forwarder goroutine which writes
	// one fixed-size Record per delivery to the non-blocking write end. The
	// read end is exposed by Descriptor and can be polled by any event loop.
	// A full pipe drops records; the next record that fits reports how many
	// were lost.
	Bridge struct {
		set    SignalSet
		logger *slog.Logger
		slot   *slot
		in     *installer

		w    int
		rfd  atomic.Int32
		done chan struct{}
		wg   sync.WaitGroup

		pid, uid  uint32
		seq       atomic.Uint64
		forwarded atomic.Uint64
		dropped   atomic.Uint64

		// rmu serialises readers and keeps Close from closing the read end
		// under a poll in progress.
		rmu  sync.Mutex
		dec  Decoder
		rbuf []byte

		closeOnce sync.Once
		closeErr  error
	}

	// Stats - delivery counters of a bridge. Dropped counts only records lost
	// to a full pipe. Deliveries os/signal discards while the Buffer channel
	// is full never reach the bridge and are not counted anywhere.
	Stats struct {
		Forwarded uint64
		Dropped   uint64
	}
)

// New - installs handling for the configured signals and returns a live
// bridge. On error nothing stays installed and no descriptor stays open.
func New(opts ...Option) (*Bridge, error) {
	o := newOptions(opts)
	set, err := NewSignalSet(o.signals...)
	if err != nil {
		return nil, err
	}

	s, err := claim(set)
	if err != nil {
		return nil, err
	}
	cu := makeCleanup(func() { release(s) })
	defer cu.Clean()

	r, w, err := openPipe()
	if err != nil {
		return nil, err
	}
	cu.Add(func() { _ = closePipe(r, w) })

	if o.pipeSize > 0 {
		if err := setPipeSize(w, o.pipeSize); err != nil {
			return nil, err
		}
	}

	b := &Bridge{
		set:    set,
		logger: o.logger,
		slot:   s,
		in:     newInstaller(set, o.notifier, o.logger),
		w:      w,
		done:   make(chan struct{}),
		pid:    uint32(unix.Getpid()),
		uid:    uint32(unix.Getuid()),
		rbuf:   make([]byte, readChunk),
	}
	b.rfd.Store(int32(r))

	s.publish(w)
	cu.Add(s.clear)

	ch := make(chan os.Signal, o.buffer)
	b.wg.Add(1)
	go b.forward(ch)
	cu.Add(func() {
		close(b.done)
		b.wg.Wait()
	})

	if err := b.in.install(ch); err != nil {
		return nil, err
	}
	cu.Release()

	b.logger.Info("signal bridge opened",
		"signals", set.String(), "fd", r, "pipe_capacity", pipeCapacity(w))
	return b, nil
}

// forward is the only writer of the pipe. Per signal it encodes the record
// into a reused buffer and writes it once; nothing else happens here.
func (b *Bridge) forward(ch <-chan os.Signal) {
	defer b.wg.Done()

	var (
		buf     [RecordSize]byte
		pending uint64
	)
	for {
		select {
		case <-b.done:
			return
		case s := <-ch:
			sig, _ := s.(syscall.Signal)
			rec := Record{
				Signo:   uint32(sig),
				Pid:     b.pid,
				Tid:     gettid(),
				Uid:     b.uid,
				Seq:     b.seq.Add(1),
				Time:    time.Now().UnixNano(),
				Dropped: pending,
			}
			rec.encode(&buf)

			if b.write(buf[:]) {
				b.forwarded.Add(1)
				pending = 0
				continue
			}
			b.dropped.Add(1)
			pending++
		}
	}
}

// write makes one attempt to put p on the pipe, repeating only on EINTR.
func (b *Bridge) write(p []byte) bool {
	for {
		fd := b.slot.load()
		if fd < 0 {
			return false
		}

		n, err := unix.Write(fd, p)
		if err == unix.EINTR {
			continue
		}

		return err == nil && n == len(p)
	}
}

// Descriptor - read end of the pipe. It stays owned by the bridge: poll and
// read it, never close it, and stop using it once Close was called. Returns
// -1 after Close.
func (b *Bridge) Descriptor() int {
	return int(b.rfd.Load())
}

// Signals - the set this bridge was built for
func (b *Bridge) Signals() SignalSet {
	return b.set
}

// Stats - counters of forwarded records and records dropped on a full pipe
func (b *Bridge) Stats() Stats {
	return Stats{Forwarded: b.forwarded.Load(), Dropped: b.dropped.Load()}
}

// Capacity - pipe buffer size in bytes, 0 if the platform does not tell
func (b *Bridge) Capacity() int {
	fd := b.slot.load()
	if fd < 0 {
		return 0
	}

	return pipeCapacity(fd)
}

// Next - blocks until one complete record is read. Returns ctx's error on
// cancellation, io.EOF when the write end is gone and ErrClosed after Close.
func (b *Bridge) Next(ctx context.Context) (Record, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}

		rec, ok, err := b.readOnce()
		if err != nil || ok {
			return rec, err
		}
	}
}

// Records - lazy sequence of records read through Next. It ends without an
// error when the bridge is closed; any other error is yielded once and ends
// it. Ranging again later continues where the previous loop stopped.
func (b *Bridge) Records(ctx context.Context) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := b.Next(ctx)
			if errors.Is(err, ErrClosed) || errors.Is(err, io.EOF) {
				return
			}

			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

func (b *Bridge) readOnce() (Record, bool, error) {
	b.rmu.Lock()
	defer b.rmu.Unlock()

	if rec, ok := b.dec.Next(); ok {
		return rec, true, nil
	}

	fd := int(b.rfd.Load())
	if fd < 0 {
		return Record{}, false, ErrClosed
	}

	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(pollInterval/time.Millisecond))
	switch {
	case err == unix.EINTR || n == 0:
		return Record{}, false, nil
	case err != nil:
		return Record{}, false, opError("poll", 0, err)
	}

	m, err := unix.Read(fd, b.rbuf)
	switch {
	case err == unix.EINTR || err == unix.EAGAIN:
		return Record{}, false, nil
	case err != nil:
		return Record{}, false, opError("read", 0, err)
	case m == 0:
		return Record{}, false, io.EOF
	}

	b.dec.Feed(b.rbuf[:m])
	rec, ok := b.dec.Next()
	return rec, ok, nil
}

// Close - restores the previous signal dispositions and closes the pipe.
// Only the first call does anything; restoring never fails it.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		b.in.restore()

		close(b.done)
		b.wg.Wait()

		b.slot.clear()
		werr := opError("close", 0, unix.Close(b.w))

		b.rmu.Lock()
		rerr := opError("close", 0, unix.Close(int(b.rfd.Swap(-1))))
		b.rmu.Unlock()

		release(b.slot)
		b.closeErr = errors.Join(werr, rerr)

		stats := b.Stats()
		b.logger.Info("signal bridge closed", "signals", b.set.String(),
			"forwarded", stats.Forwarded, "dropped", stats.Dropped)
	})

	return b.closeErr
}
