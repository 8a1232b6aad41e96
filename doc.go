// Package sigfd delivers unix signals as fixed-size records on a pipe, so an
// event loop can poll for signals next to sockets and timers.
//
// A Bridge routes its signals to a forwarder goroutine that makes one
// non-blocking write of a Record per delivery. The read end is returned by
// Bridge.Descriptor; Bridge.Next, Bridge.Records and the Dispatcher read and
// reassemble records from it. Closing the bridge puts the previous signal
// dispositions back and closes the pipe.
//
// A signal can be owned by one live bridge at a time; New reports
// ErrSignalInUse otherwise.
package sigfd
