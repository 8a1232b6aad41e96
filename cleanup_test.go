//go:build unix

package sigfd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanup_RunsInReverse(t *testing.T) {
	var order []int
	func() {
		cu := makeCleanup(func() { order = append(order, 1) })
		defer cu.Clean()
		cu.Add(func() { order = append(order, 2) })
	}()
	assert.Equal(t, []int{2, 1}, order)
}

func TestCleanup_Release(t *testing.T) {
	called := false
	var later func()
	func() {
		cu := makeCleanup(func() { called = true })
		defer cu.Clean()
		later = cu.Release()
	}()
	assert.False(t, called)

	later()
	assert.True(t, called)
}
