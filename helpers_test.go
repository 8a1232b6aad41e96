//go:build unix

package sigfd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func raise(t *testing.T, sig syscall.Signal) {
	t.Helper()
	require.NoError(t, unix.Kill(unix.Getpid(), sig))
}

func nextRecord(t *testing.T, b *Bridge) Record {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rec, err := b.Next(ctx)
	require.NoError(t, err)
	return rec
}

// handled waits until the bridge has processed n signals in total. Safe to
// call off the test goroutine.
func handled(b *Bridge, n uint64) bool {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		s := b.Stats()
		if s.Forwarded+s.Dropped >= n {
			return true
		}
		time.Sleep(100 * time.Microsecond)
	}
	return false
}

func waitHandled(t *testing.T, b *Bridge, n uint64) {
	t.Helper()
	if !handled(b, n) {
		t.Fatalf("bridge handled %+v signals, want %d", b.Stats(), n)
	}
}

// guard keeps sig subscribed outside any bridge so raising it in a test can
// never fall through to the default action.
func guard(t *testing.T, signals ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 16)
	signal.Notify(ch, signals...)
	t.Cleanup(func() { signal.Stop(ch) })
	return ch
}
