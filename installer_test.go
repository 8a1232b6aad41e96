//go:build unix

package sigfd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// recordingNotifier mimics os/signal bookkeeping and logs every call.
type recordingNotifier struct {
	calls   []string
	ignored map[os.Signal]bool
}

func newRecordingNotifier(ignored ...os.Signal) *recordingNotifier {
	n := &recordingNotifier{ignored: map[os.Signal]bool{}}
	for _, sig := range ignored {
		n.ignored[sig] = true
	}
	return n
}

func (n *recordingNotifier) Notify(_ chan<- os.Signal, sig ...os.Signal) {
	for _, s := range sig {
		n.calls = append(n.calls, "notify "+SignalName(s))
		delete(n.ignored, s)
	}
}

func (n *recordingNotifier) Stop(chan<- os.Signal) {
	n.calls = append(n.calls, "stop")
}

func (n *recordingNotifier) Ignore(sig ...os.Signal) {
	for _, s := range sig {
		n.calls = append(n.calls, "ignore "+SignalName(s))
		n.ignored[s] = true
	}
}

func (n *recordingNotifier) Ignored(sig os.Signal) bool {
	return n.ignored[sig]
}

func mustSet(t *testing.T, signals ...os.Signal) SignalSet {
	t.Helper()
	set, err := NewSignalSet(signals...)
	require.NoError(t, err)
	return set
}

func TestInstaller_Install(t *testing.T) {
	n := newRecordingNotifier(unix.SIGUSR2)
	in := newInstaller(mustSet(t, unix.SIGUSR1, unix.SIGUSR2), n, discardLogger())
	ch := make(chan os.Signal, 1)

	require.NoError(t, in.install(ch))
	assert.Equal(t, []string{"notify SIGUSR1", "notify SIGUSR2"}, n.calls)
	require.Len(t, in.prev, 2)
	assert.False(t, in.prev[0].Ignored)
	assert.True(t, in.prev[1].Ignored)

	n.calls = nil
	in.restore()
	assert.Equal(t, []string{"stop", "ignore SIGUSR2"}, n.calls)
	assert.True(t, n.Ignored(unix.SIGUSR2))

	// second restore is a no-op
	n.calls = nil
	in.restore()
	assert.Empty(t, n.calls)
}

func TestInstaller_RollbackOnFailure(t *testing.T) {
	n := newRecordingNotifier(unix.SIGUSR1)
	in := newInstaller(mustSet(t, unix.SIGUSR1, unix.SIGUSR2, unix.SIGKILL, unix.SIGHUP), n, discardLogger())

	err := in.install(make(chan os.Signal, 1))
	require.Error(t, err)

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "sigaction", opErr.Op)
	assert.Equal(t, unix.SIGKILL, opErr.Signal)
	assert.ErrorIs(t, err, unix.EINVAL)

	assert.Equal(t, []string{
		"notify SIGUSR1",
		"notify SIGUSR2",
		"stop",
		"ignore SIGUSR1",
	}, n.calls)
	assert.True(t, n.Ignored(unix.SIGUSR1))
	assert.Nil(t, in.prev)

	// nothing to restore after a failed install
	n.calls = nil
	in.restore()
	assert.Empty(t, n.calls)
}

func TestInstaller_FirstSignalInvalid(t *testing.T) {
	n := newRecordingNotifier()
	in := newInstaller(mustSet(t, unix.SIGSTOP, unix.SIGUSR1), n, discardLogger())

	err := in.install(make(chan os.Signal, 1))
	assert.ErrorIs(t, err, unix.EINVAL)
	assert.Empty(t, n.calls)
}

type panickingNotifier struct{ *recordingNotifier }

func (panickingNotifier) Stop(chan<- os.Signal) { panic("boom") }

func TestInstaller_RestoreNeverPanics(t *testing.T) {
	in := newInstaller(mustSet(t, unix.SIGUSR1), panickingNotifier{newRecordingNotifier()}, discardLogger())
	require.NoError(t, in.install(make(chan os.Signal, 1)))

	assert.NotPanics(t, in.restore)
}

func TestInstaller_RuntimeRoundTrip(t *testing.T) {
	signal.Ignore(unix.SIGWINCH)
	t.Cleanup(func() { signal.Reset(unix.SIGWINCH) })

	sigs := []os.Signal{unix.SIGUSR1, unix.SIGWINCH}
	before := Snapshot(sigs...)
	require.True(t, before[1].Ignored)

	in := newInstaller(mustSet(t, sigs...), runtimeNotifier{}, discardLogger())
	require.NoError(t, in.install(make(chan os.Signal, 1)))
	assert.False(t, signal.Ignored(unix.SIGWINCH))

	in.restore()
	if diff := cmp.Diff(before, Snapshot(sigs...)); diff != "" {
		t.Errorf("dispositions changed (-before +after):\n%s", diff)
	}
}

func TestOpError(t *testing.T) {
	err := opError("sigaction", unix.SIGKILL, unix.EINVAL)
	assert.Equal(t, fmt.Sprintf("sigaction(SIGKILL): %v", unix.EINVAL), err.Error())
	assert.Equal(t, "pipe: "+unix.EMFILE.Error(), opError("pipe", 0, unix.EMFILE).Error())
	assert.Nil(t, opError("pipe", syscall.Signal(0), nil))
}
