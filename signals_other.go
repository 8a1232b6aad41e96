//go:build unix && !linux

package sigfd

const nsig = 33

// gettid has no portable equivalent outside linux.
func gettid() uint32 {
	return 0
}
