/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package message defines the per-direction, per-protocol-version message
// sets (spec.md §4.2, §9: "model the message set as a closed tagged union
// per direction and per protocol version, dispatched by primary-plus-
// secondary discriminator, not as open inheritance").
package message

import (
	"encoding/binary"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// cursor reads fields out of a borrowed payload slice without copying,
// tracking underflow so callers can surface a single terminal error.
type cursor struct {
	buf []byte
	pos int
	err error
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

func (c *cursor) fail(kind gelerr.CodeError, msg string) {
	if c.err == nil {
		c.err = gelerr.New(kind, msg)
	}
}

func (c *cursor) need(n int) bool {
	if c.err != nil {
		return false
	}
	if c.pos+n > len(c.buf) {
		c.fail(gelerr.Underflow, "message payload underflow")
		return false
	}
	return true
}

func (c *cursor) u8() byte {
	if !c.need(1) {
		return 0
	}
	v := c.buf[c.pos]
	c.pos++
	return v
}

func (c *cursor) u16() uint16 {
	if !c.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v
}

func (c *cursor) u32() uint32 {
	if !c.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v
}

func (c *cursor) u64() uint64 {
	if !c.need(8) {
		return 0
	}
	v := binary.BigEndian.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v
}

func (c *cursor) i16() int16 { return int16(c.u16()) }
func (c *cursor) i32() int32 { return int32(c.u32()) }
func (c *cursor) i64() int64 { return int64(c.u64()) }

// bytes borrows n bytes from the underlying payload without copying. It
// returns nil for a zero-length read so that an empty-vs-absent field
// round-trips to the same Go zero value the encoder started from.
func (c *cursor) bytes(n int) []byte {
	if n == 0 {
		return nil
	}
	if !c.need(n) {
		return nil
	}
	v := c.buf[c.pos : c.pos+n]
	c.pos += n
	return v
}

// lstring reads a u32-length-prefixed byte string and borrows it.
func (c *cursor) lstring() []byte {
	n := int(c.u32())
	return c.bytes(n)
}

// remaining returns every byte not yet consumed, borrowed.
func (c *cursor) remaining() []byte {
	if c.err != nil {
		return nil
	}
	v := c.buf[c.pos:]
	c.pos = len(c.buf)
	return v
}

func (c *cursor) extraOk() error {
	if c.err != nil {
		return c.err
	}
	if c.pos != len(c.buf) {
		return gelerr.New(gelerr.ExtraData, "trailing bytes after message decode")
	}
	return nil
}

// builder composes a payload, mirroring the cursor's field widths.
type builder struct {
	buf []byte
}

func (b *builder) u8(v byte)     { b.buf = append(b.buf, v) }
func (b *builder) u16(v uint16)  { b.buf = binary.BigEndian.AppendUint16(b.buf, v) }
func (b *builder) u32(v uint32)  { b.buf = binary.BigEndian.AppendUint32(b.buf, v) }
func (b *builder) u64(v uint64)  { b.buf = binary.BigEndian.AppendUint64(b.buf, v) }
func (b *builder) i16(v int16)   { b.u16(uint16(v)) }
func (b *builder) i32(v int32)   { b.u32(uint32(v)) }
func (b *builder) i64(v int64)   { b.u64(uint64(v)) }
func (b *builder) raw(v []byte)  { b.buf = append(b.buf, v...) }
func (b *builder) lstring(v []byte) {
	b.u32(uint32(len(v)))
	b.raw(v)
}
