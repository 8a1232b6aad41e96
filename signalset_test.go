//go:build unix

package sigfd

import (
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestNewSignalSet(t *testing.T) {
	t.Run("DropsZeroAndDuplicates", func(t *testing.T) {
		set, err := NewSignalSet(unix.SIGUSR2, syscall.Signal(0), unix.SIGUSR1, unix.SIGUSR2, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
		assert.Equal(t, unix.SIGUSR2, set.At(0))
		assert.Equal(t, unix.SIGUSR1, set.At(1))
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := NewSignalSet(syscall.Signal(0))
		assert.ErrorIs(t, err, ErrEmptySet)
	})

	t.Run("TooMany", func(t *testing.T) {
		sigs := make([]os.Signal, 0, MaxSignals+1)
		for i := 1; i <= MaxSignals+1; i++ {
			sigs = append(sigs, syscall.Signal(i))
		}
		_, err := NewSignalSet(sigs...)
		assert.ErrorIs(t, err, ErrTooManySignals)
	})

	t.Run("ForeignSignalKeptAsInvalid", func(t *testing.T) {
		set, err := NewSignalSet(os.Interrupt, fakeSignal{})
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
		assert.False(t, validSignal(set.At(1)))
	})
}

type fakeSignal struct{}

func (fakeSignal) String() string { return "fake" }
func (fakeSignal) Signal()        {}

func TestSignalSet_Key(t *testing.T) {
	a, err := NewSignalSet(unix.SIGUSR2, unix.SIGUSR1)
	require.NoError(t, err)
	b, err := NewSignalSet(unix.SIGUSR1, unix.SIGUSR2, unix.SIGUSR1)
	require.NoError(t, err)

	assert.Equal(t, a.Key(), b.Key())
	assert.True(t, a.Contains(unix.SIGUSR1))
	assert.False(t, a.Contains(unix.SIGTERM))
	assert.Equal(t, "{SIGUSR2 SIGUSR1}", a.String())
}

func TestParseSignal(t *testing.T) {
	for _, in := range []string{"INT", "sigint", " SIGINT ", "2"} {
		sig, err := ParseSignal(in)
		require.NoError(t, err, in)
		assert.Equal(t, unix.SIGINT, sig, in)
	}

	_, err := ParseSignal("NOPE")
	assert.Error(t, err)
	_, err = ParseSignal("")
	assert.Error(t, err)
}

func TestValidSignal(t *testing.T) {
	assert.True(t, validSignal(unix.SIGUSR1))
	assert.False(t, validSignal(unix.SIGKILL))
	assert.False(t, validSignal(unix.SIGSTOP))
	assert.False(t, validSignal(0))
	assert.False(t, validSignal(-1))
	assert.False(t, validSignal(syscall.Signal(nsig)))
}
