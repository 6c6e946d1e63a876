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

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// Range flag bits (spec.md §4.3).
const (
	RangeEmpty   byte = 0x01
	RangeLBInc   byte = 0x02
	RangeUBInc   byte = 0x04
	RangeLBInf   byte = 0x08
	RangeUBInf   byte = 0x10
)

// Range is a std::range<T> value. Lower and Upper are the element's own
// encoded bytes, borrowed from the payload; the caller decodes them with
// whatever scalar codec matches the range's element descriptor.
type Range struct {
	Flags byte
	Lower []byte
	Upper []byte
}

// Empty reports whether this range represents the empty range.
func (r Range) Empty() bool { return r.Flags&RangeEmpty != 0 }

// LowerInclusive reports whether Lower, if present, is inclusive.
func (r Range) LowerInclusive() bool { return r.Flags&RangeLBInc != 0 }

// UpperInclusive reports whether Upper, if present, is inclusive.
func (r Range) UpperInclusive() bool { return r.Flags&RangeUBInc != 0 }

// LowerInfinite reports whether the range is unbounded below.
func (r Range) LowerInfinite() bool { return r.Flags&RangeLBInf != 0 }

// UpperInfinite reports whether the range is unbounded above.
func (r Range) UpperInfinite() bool { return r.Flags&RangeUBInf != 0 }

// DecodeRange decodes a std::range<T> value's flags and bound buffers.
// EMPTY suppresses both bounds; otherwise each non-infinite bound is a
// length-prefixed buffer (spec.md §4.3).
func DecodeRange(buf []byte) (Range, error) {
	if len(buf) < 1 {
		return Range{}, gelerr.New(gelerr.Underflow, "range value missing flags byte")
	}
	flags := buf[0]
	rest := buf[1:]

	r := Range{Flags: flags}
	if r.Empty() {
		if len(rest) != 0 {
			return Range{}, gelerr.New(gelerr.ExtraData, "empty range must carry no bound data")
		}
		return r, nil
	}

	if !r.LowerInfinite() {
		lb, tail, err := readLengthPrefixed(rest)
		if err != nil {
			return Range{}, err
		}
		r.Lower = lb
		rest = tail
	}

	if !r.UpperInfinite() {
		ub, tail, err := readLengthPrefixed(rest)
		if err != nil {
			return Range{}, err
		}
		r.Upper = ub
		rest = tail
	}

	if len(rest) != 0 {
		return Range{}, gelerr.New(gelerr.ExtraData, "trailing bytes after range bounds")
	}
	return r, nil
}

func readLengthPrefixed(buf []byte) (value []byte, rest []byte, err error) {
	if len(buf) < 4 {
		return nil, nil, gelerr.New(gelerr.Underflow, "range bound length prefix truncated")
	}
	n := int(binary.BigEndian.Uint32(buf))
	if len(buf) < 4+n {
		return nil, nil, gelerr.New(gelerr.Underflow, "range bound data truncated")
	}
	return buf[4 : 4+n], buf[4+n:], nil
}

// EncodeRange encodes r back to its wire form. The range-flags byte is
// derived from r.Flags as-is; callers construct Flags from presence of
// bounds and inclusivity, and EMPTY suppresses both bounds (spec.md §4.3).
func EncodeRange(r Range) []byte {
	out := []byte{r.Flags}
	if r.Empty() {
		return out
	}
	if !r.LowerInfinite() {
		out = appendLengthPrefixed(out, r.Lower)
	}
	if !r.UpperInfinite() {
		out = appendLengthPrefixed(out, r.Upper)
	}
	return out
}

func appendLengthPrefixed(dst, v []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(v)))
	dst = append(dst, lenBuf[:]...)
	dst = append(dst, v...)
	return dst
}
