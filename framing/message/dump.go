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

// Dump requests a schema-and-data dump sub-stream (spec.md §4.1, step 8).
type Dump struct {
	Headers []Header
}

func (m Dump) Tag() byte { return TagDumpRequest }
func (m Dump) Encode() []byte {
	b := &builder{}
	encodeHeaders(b, m.Headers)
	return b.buf
}

func decodeDump(c *cursor) (Message, error) {
	return Dump{Headers: decodeHeaders(c)}, c.extraOk()
}

// DumpHeader opens the dump sub-stream with schema metadata, followed by a
// sequence of DumpBlocks terminated by CommandComplete.
type DumpHeader struct {
	Headers          []Header
	MajorVersion     uint16
	MinorVersion     uint16
	SchemaDDL        []byte
}

func (m DumpHeader) Tag() byte { return TagDumpHeader }
func (m DumpHeader) Encode() []byte {
	b := &builder{}
	encodeHeaders(b, m.Headers)
	b.u16(m.MajorVersion)
	b.u16(m.MinorVersion)
	b.lstring(m.SchemaDDL)
	return b.buf
}

func decodeDumpHeader(c *cursor) (Message, error) {
	var m DumpHeader
	m.Headers = decodeHeaders(c)
	m.MajorVersion = c.u16()
	m.MinorVersion = c.u16()
	m.SchemaDDL = c.lstring()
	return m, c.extraOk()
}

// DumpBlock is one chunk of dumped object data. Shares tag '=' with
// RestoreBlock; the two never coexist because they run in disjoint
// sub-streams (spec.md §4.2, §9).
type DumpBlock struct {
	Headers []Header
}

func (m DumpBlock) Tag() byte { return TagDumpBlock }
func (m DumpBlock) Encode() []byte {
	b := &builder{}
	encodeHeaders(b, m.Headers)
	return b.buf
}

func decodeDumpBlock(c *cursor) (Message, error) {
	return DumpBlock{Headers: decodeHeaders(c)}, c.extraOk()
}

// Restore opens a restore sub-stream; the client awaits RestoreReady, then
// streams RestoreBlocks, then sends RestoreEof (spec.md §4.1, step 8).
type Restore struct {
	Headers          []Header
	Jobs             uint16
	DumpHeaderPayload []byte
}

func (m Restore) Tag() byte { return TagRestoreRequest }
func (m Restore) Encode() []byte {
	b := &builder{}
	encodeHeaders(b, m.Headers)
	b.u16(m.Jobs)
	b.lstring(m.DumpHeaderPayload)
	return b.buf
}

func decodeRestore(c *cursor) (Message, error) {
	var m Restore
	m.Headers = decodeHeaders(c)
	m.Jobs = c.u16()
	m.DumpHeaderPayload = c.lstring()
	return m, c.extraOk()
}

// RestoreReady signals the server accepted the Restore request and is
// ready to receive RestoreBlocks.
type RestoreReady struct {
	Headers     []Header
	JobsStarted uint16
}

func (m RestoreReady) Tag() byte { return TagRestoreReady }
func (m RestoreReady) Encode() []byte {
	b := &builder{}
	encodeHeaders(b, m.Headers)
	b.u16(m.JobsStarted)
	return b.buf
}

func decodeRestoreReady(c *cursor) (Message, error) {
	var m RestoreReady
	m.Headers = decodeHeaders(c)
	m.JobsStarted = c.u16()
	return m, c.extraOk()
}

// RestoreBlock is one chunk of restored object data, client-to-server.
type RestoreBlock struct {
	BlockData []byte
}

func (m RestoreBlock) Tag() byte { return TagRestoreBlock }
func (m RestoreBlock) Encode() []byte {
	b := &builder{}
	b.lstring(m.BlockData)
	return b.buf
}

func decodeRestoreBlock(c *cursor) (Message, error) {
	return RestoreBlock{BlockData: c.lstring()}, c.extraOk()
}

// RestoreEof ends the restore sub-stream; the client then awaits a final
// CommandComplete.
type RestoreEof struct{}

func (m RestoreEof) Tag() byte      { return TagRestoreEof }
func (m RestoreEof) Encode() []byte { return nil }

func decodeRestoreEof(c *cursor) (Message, error) {
	return RestoreEof{}, c.extraOk()
}
