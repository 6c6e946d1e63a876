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

// Package framing implements the tagged, length-prefixed message envelope
// (spec.md §4.2): {mtype:u8, mlen:u32, payload:bytes}, where mlen includes
// itself but excludes mtype.
package framing

import (
	"encoding/binary"
	"math"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

const (
	// HeaderLen is the byte length of mtype+mlen before the payload.
	HeaderLen = 5
	// maxPayloadLen is the largest payload mlen can address (u32-4).
	maxPayloadLen = math.MaxUint32 - 4
)

// Envelope is a decoded message frame: its tag and its payload, exclusive of
// the mtype/mlen header.
type Envelope struct {
	MType   byte
	Payload []byte
}

// MLen computes the wire mlen field for a payload of this envelope's size.
func (e Envelope) MLen() uint32 {
	return uint32(len(e.Payload)) + 4
}

// Encode appends this envelope's wire bytes (mtype, mlen, payload) to dst.
func Encode(dst []byte, mtype byte, payload []byte) ([]byte, error) {
	if len(payload) > maxPayloadLen {
		return nil, gelerr.New(gelerr.MessageTooLarge, "payload exceeds mlen capacity")
	}

	dst = append(dst, mtype)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload))+4)
	dst = append(dst, lenBuf[:]...)
	dst = append(dst, payload...)

	return dst, nil
}
