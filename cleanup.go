//go:build unix

package sigfd

// cleanup runs registered undo steps in reverse order unless released.
//
//	cu := makeCleanup(func() { ... })
//	defer cu.Clean()
//	...
//	cu.Release()
type cleanup struct {
	steps []func()
}

func makeCleanup(f func()) cleanup {
	return cleanup{steps: []func(){f}}
}

// Add registers another undo step; it runs before the earlier ones.
func (c *cleanup) Add(f func()) {
	c.steps = append(c.steps, f)
}

// Clean runs the remaining steps, last added first.
func (c *cleanup) Clean() {
	for i := len(c.steps) - 1; i >= 0; i-- {
		c.steps[i]()
	}
	c.steps = nil
}

// Release forgets the steps so Clean does nothing, and returns a function
// that runs them.
func (c *cleanup) Release() func() {
	steps := c.steps
	c.steps = nil
	return func() {
		for i := len(steps) - 1; i >= 0; i-- {
			steps[i]()
		}
	}
}
