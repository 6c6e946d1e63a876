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

package framing

import (
	"encoding/binary"
	"io"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// Reader reads tagged, length-prefixed envelopes off an underlying stream.
// It always consumes exactly mlen+1 bytes per call to Next, or fails before
// consuming anything beyond the 5-byte header (spec.md §8: "the framer
// consumes exactly mlen+1 bytes from the input, or fails").
type Reader struct {
	src io.Reader
	buf []byte
}

// NewReader wraps src for envelope reads.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// Next reads and returns the next envelope. The returned Payload slice is
// owned by the Reader and is invalidated by the next call to Next; callers
// that need to retain it must copy.
func (r *Reader) Next() (Envelope, error) {
	var header [HeaderLen]byte
	if _, err := io.ReadFull(r.src, header[:]); err != nil {
		return Envelope{}, gelerr.New(gelerr.Io, "read envelope header failed", err)
	}

	mtype := header[0]
	mlen := binary.BigEndian.Uint32(header[1:5])

	if mlen < 4 {
		return Envelope{}, gelerr.New(gelerr.MessageTooShort, "mlen below minimum of 4")
	}

	payloadLen := int(mlen - 4)
	if cap(r.buf) < payloadLen {
		r.buf = make([]byte, payloadLen)
	} else {
		r.buf = r.buf[:payloadLen]
	}

	if payloadLen > 0 {
		if _, err := io.ReadFull(r.src, r.buf); err != nil {
			return Envelope{}, gelerr.New(gelerr.Io, "read envelope payload failed", err)
		}
	}

	return Envelope{MType: mtype, Payload: r.buf}, nil
}
