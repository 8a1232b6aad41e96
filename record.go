//go:build unix

package sigfd

import (
	"encoding/binary"
	"syscall"
	"time"
)

// RecordSize is the size in bytes of one record on the pipe. It stays well
// below PIPE_BUF so a record is written atomically and never torn by a
// concurrent writer.
const RecordSize = 64

// Record describes one delivered signal.
type Record struct {
	// Signo is the delivered signal number.
	Signo uint32
	// Pid is the receiving process.
	Pid uint32
	// Tid is the OS thread that forwarded the signal.
	Tid uint32
	// Uid is the real user id of the receiving process.
	Uid uint32
	// Seq counts deliveries per bridge, starting at 1. Dropped records use
	// up a number too, so gaps are visible.
	Seq uint64
	// Time is the forwarding time in unix nanoseconds.
	Time int64
	// Dropped is the number of records lost to a full pipe since the
	// previous record that made it through.
	Dropped uint64
}

// Signal returns the delivered signal.
func (r Record) Signal() syscall.Signal {
	return syscall.Signal(r.Signo)
}

// Timestamp returns Time as a time.Time.
func (r Record) Timestamp() time.Time {
	return time.Unix(0, r.Time)
}

// encode writes r into b. Bytes past the last field are zeroed.
func (r *Record) encode(b *[RecordSize]byte) {
	*b = [RecordSize]byte{}
	binary.NativeEndian.PutUint32(b[0:], r.Signo)
	binary.NativeEndian.PutUint32(b[4:], r.Pid)
	binary.NativeEndian.PutUint32(b[8:], r.Tid)
	binary.NativeEndian.PutUint32(b[12:], r.Uid)
	binary.NativeEndian.PutUint64(b[16:], r.Seq)
	binary.NativeEndian.PutUint64(b[24:], uint64(r.Time))
	binary.NativeEndian.PutUint64(b[32:], r.Dropped)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r Record) MarshalBinary() ([]byte, error) {
	var b [RecordSize]byte
	r.encode(&b)
	return b[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *Record) UnmarshalBinary(b []byte) error {
	if len(b) != RecordSize {
		return ErrShortRecord
	}

	r.Signo = binary.NativeEndian.Uint32(b[0:])
	r.Pid = binary.NativeEndian.Uint32(b[4:])
	r.Tid = binary.NativeEndian.Uint32(b[8:])
	r.Uid = binary.NativeEndian.Uint32(b[12:])
	r.Seq = binary.NativeEndian.Uint64(b[16:])
	r.Time = int64(binary.NativeEndian.Uint64(b[24:]))
	r.Dropped = binary.NativeEndian.Uint64(b[32:])
	return nil
}

// Decoder reassembles records from arbitrary chunks read off the descriptor.
type Decoder struct {
	buf []byte
}

// Feed appends raw bytes.
func (d *Decoder) Feed(p []byte) {
	d.buf = append(d.buf, p...)
}

// Next pops the oldest complete record.
func (d *Decoder) Next() (Record, bool) {
	var r Record
	if len(d.buf) < RecordSize {
		return r, false
	}

	_ = r.UnmarshalBinary(d.buf[:RecordSize])
	n := copy(d.buf, d.buf[RecordSize:])
	d.buf = d.buf[:n]
	return r, true
}

// Buffered returns the number of bytes not yet returned by Next.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}
