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

package codec

import (
	"encoding/binary"
	"math"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// DecodeVector decodes an ext::pgvector::vector value: u16 len, u16
// reserved (must be zero), then len x f32 (spec.md §4.3).
func DecodeVector(buf []byte) ([]float32, error) {
	if len(buf) < 4 {
		return nil, gelerr.New(gelerr.Underflow, "vector value truncated before header")
	}
	n := int(binary.BigEndian.Uint16(buf[0:2]))
	reserved := binary.BigEndian.Uint16(buf[2:4])
	if reserved != 0 {
		return nil, gelerr.New(gelerr.NonZeroReservedBytes, "vector reserved field must be zero")
	}

	rest := buf[4:]
	if err := exactSize(rest, n*4, "vector elements"); err != nil {
		return nil, err
	}

	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.BigEndian.Uint32(rest[i*4 : i*4+4]))
	}
	return out, nil
}

// EncodeVector encodes v as an ext::pgvector::vector value.
func EncodeVector(v []float32) []byte {
	out := make([]byte, 4+len(v)*4)
	binary.BigEndian.PutUint16(out[0:2], uint16(len(v)))
	for i, f := range v {
		binary.BigEndian.PutUint32(out[4+i*4:4+i*4+4], math.Float32bits(f))
	}
	return out
}
