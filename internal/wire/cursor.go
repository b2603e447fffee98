// Package wire provides a small sticky-error byte cursor shared by the
// credential-cache and keytab readers, both of which parse a flat,
// versioned, endian-sensitive binary grammar of fixed-width integers and
// length-prefixed byte strings.
package wire

import (
	"encoding/binary"
	"io"
)

// Cursor reads sequentially from a byte slice. Once a read fails (short
// buffer), every subsequent read is a no-op and Err reports the first
// failure; callers check Err once after a logical record instead of
// after every field.
type Cursor struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
	err   error
}

// New returns a Cursor over buf using the given byte order.
func New(buf []byte, order binary.ByteOrder) *Cursor {
	return &Cursor{buf: buf, order: order}
}

// Err returns the first error encountered, if any.
func (c *Cursor) Err() error { return c.err }

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.buf) - c.pos }

// AtEOF reports whether the cursor is exactly at the end of the buffer
// with no error, i.e. a clean place to stop iterating records.
func (c *Cursor) AtEOF() bool { return c.err == nil && c.pos == len(c.buf) }

// SeekTo repositions the cursor to an absolute offset, used by the
// keytab reader to skip to the end of a declared record size after
// decoding a shorter live entry that reused a larger hole.
func (c *Cursor) SeekTo(pos int) {
	if c.err != nil {
		return
	}
	if pos < c.pos || pos > len(c.buf) {
		c.err = io.ErrUnexpectedEOF
		return
	}
	c.pos = pos
}

func (c *Cursor) take(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 || c.pos+n > len(c.buf) {
		c.err = io.ErrUnexpectedEOF
		return nil
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b
}

// U8 reads one unsigned byte.
func (c *Cursor) U8() uint8 {
	b := c.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// I8 reads one signed byte.
func (c *Cursor) I8() int8 { return int8(c.U8()) }

// U16 reads a 16-bit unsigned integer in the cursor's byte order.
func (c *Cursor) U16() uint16 {
	b := c.take(2)
	if b == nil {
		return 0
	}
	return c.order.Uint16(b)
}

// I16 reads a 16-bit signed integer.
func (c *Cursor) I16() int16 { return int16(c.U16()) }

// U32 reads a 32-bit unsigned integer.
func (c *Cursor) U32() uint32 {
	b := c.take(4)
	if b == nil {
		return 0
	}
	return c.order.Uint32(b)
}

// I32 reads a 32-bit signed integer.
func (c *Cursor) I32() int32 { return int32(c.U32()) }

// Bytes reads n raw bytes. The returned slice is a copy; callers may
// retain it beyond the cursor's lifetime.
func (c *Cursor) Bytes(n int) []byte {
	b := c.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Data reads a u32-length-prefixed byte string, the ccache/keytab
// "data" grammar element.
func (c *Cursor) Data() []byte {
	n := c.U32()
	return c.Bytes(int(n))
}

// Data16 reads a u16-length-prefixed byte string, used by keytab
// component encoding.
func (c *Cursor) Data16() []byte {
	n := c.U16()
	return c.Bytes(int(n))
}
