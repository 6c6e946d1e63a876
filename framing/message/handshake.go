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

// Extension is a named, versioned protocol extension offered or accepted
// during the handshake.
type Extension struct {
	Name    string
	Headers []Header
}

// ClientHandshake is the first frontend message, proposing the highest
// protocol version this client speaks plus any connection parameters and
// extensions (spec.md §4.1, bounded to one downgrade retry on mismatch).
type ClientHandshake struct {
	Major      uint16
	Minor      uint16
	Params     map[string][]byte
	Extensions []Extension
}

func (m ClientHandshake) Tag() byte { return TagClientHandshake }

func (m ClientHandshake) Encode() []byte {
	b := &builder{}
	b.u16(m.Major)
	b.u16(m.Minor)
	b.u16(uint16(len(m.Params)))
	for k, v := range m.Params {
		b.lstring([]byte(k))
		b.lstring(v)
	}
	b.u16(uint16(len(m.Extensions)))
	for _, e := range m.Extensions {
		b.lstring([]byte(e.Name))
		encodeHeaders(b, e.Headers)
	}
	return b.buf
}

func decodeClientHandshake(c *cursor) (Message, error) {
	m := ClientHandshake{Major: c.u16(), Minor: c.u16()}
	nParams := int(c.u16())
	if nParams > 0 {
		m.Params = make(map[string][]byte, nParams)
		for i := 0; i < nParams; i++ {
			k := c.lstring()
			v := c.lstring()
			m.Params[string(k)] = v
		}
	}
	nExt := int(c.u16())
	if nExt > 0 {
		m.Extensions = make([]Extension, 0, nExt)
		for i := 0; i < nExt; i++ {
			name := string(c.lstring())
			m.Extensions = append(m.Extensions, Extension{Name: name, Headers: decodeHeaders(c)})
		}
	}
	return m, c.extraOk()
}

// ServerHandshake is sent by the server when it cannot speak the client's
// proposed version; it carries the highest version the server supports,
// which the client may retry against once.
type ServerHandshake struct {
	Major      uint16
	Minor      uint16
	Extensions []Extension
}

func (m ServerHandshake) Tag() byte { return TagServerHandshake }

func (m ServerHandshake) Encode() []byte {
	b := &builder{}
	b.u16(m.Major)
	b.u16(m.Minor)
	b.u16(uint16(len(m.Extensions)))
	for _, e := range m.Extensions {
		b.lstring([]byte(e.Name))
		encodeHeaders(b, e.Headers)
	}
	return b.buf
}

func decodeServerHandshake(c *cursor) (Message, error) {
	m := ServerHandshake{Major: c.u16(), Minor: c.u16()}
	nExt := int(c.u16())
	if nExt > 0 {
		m.Extensions = make([]Extension, 0, nExt)
		for i := 0; i < nExt; i++ {
			name := string(c.lstring())
			m.Extensions = append(m.Extensions, Extension{Name: name, Headers: decodeHeaders(c)})
		}
	}
	return m, c.extraOk()
}
