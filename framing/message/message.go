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

package message

// Message is any decoded frame payload. Encode re-serializes it to the
// wire form framing.Encode expects as a payload (tag excluded).
type Message interface {
	Tag() byte
	Encode() []byte
}

// Header carries protocol metadata (u16-keyed, lstring-valued) attached to
// several request/response messages, e.g. Parse/Execute/Dump/Restore.
type Header struct {
	Code uint16
	Value []byte
}

func decodeHeaders(c *cursor) []Header {
	n := int(c.u16())
	if n == 0 {
		return nil
	}
	out := make([]Header, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Header{Code: c.u16(), Value: c.lstring()})
	}
	return out
}

func encodeHeaders(b *builder, hs []Header) {
	b.u16(uint16(len(hs)))
	for _, h := range hs {
		b.u16(h.Code)
		b.lstring(h.Value)
	}
}
