//go:build unix

package sigfd

import (
	"errors"

	"golang.org/x/sys/unix"
)

// closePipe closes both ends, reporting every failure.
func closePipe(r, w int) error {
	var errs []error
	for _, fd := range [...]int{w, r} {
		if fd < 0 {
			continue
		}
		if err := unix.Close(fd); err != nil {
			errs = append(errs, opError("close", 0, err))
		}
	}

	return errors.Join(errs...)
}
